package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/repository"
)

const completionColumns = `id, task_id, user_id, completed_on, notes, status, created_at`

type completionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository returns a Postgres-backed CompletionRepository. The
// task_completions table carries a unique index on (task_id, completed_on,
// user_id); Insert relies on it to reject duplicates.
func NewCompletionRepository(pool *pgxpool.Pool) repository.CompletionRepository {
	return &completionRepository{pool: pool}
}

func (r *completionRepository) FindInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Completion, error) {
	const query = `
	SELECT ` + completionColumns + `
	FROM task_completions
	WHERE user_id = $1
	  AND completed_on BETWEEN $2::date AND $3::date
	ORDER BY completed_on, id
	`
	rows, err := r.pool.Query(ctx, query, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []domain.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

func (r *completionRepository) FindOne(ctx context.Context, taskID string, day time.Time, userID string) (*domain.Completion, error) {
	const query = `
	SELECT ` + completionColumns + `
	FROM task_completions
	WHERE task_id = $1 AND completed_on = $2::date AND user_id = $3
	`
	return scanCompletion(r.pool.QueryRow(ctx, query, taskID, domain.StartOfDay(day), userID))
}

func (r *completionRepository) Insert(ctx context.Context, c *domain.Completion) (*domain.Completion, error) {
	if c == nil {
		return nil, domain.ErrInvalidPayload
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = domain.CompletionStatusCompleted
	}
	c.CompletedAt = domain.StartOfDay(c.CompletedAt)

	const query = `
	INSERT INTO task_completions (id, task_id, user_id, completed_on, notes, status)
	VALUES ($1, $2, $3, $4::date, $5, $6)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		c.ID,
		c.TaskID,
		c.UserID,
		c.CompletedAt,
		c.Notes,
		c.Status,
	).Scan(&c.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCompletionExists
		}
		return nil, err
	}
	return c, nil
}

func scanCompletion(row pgx.Row) (*domain.Completion, error) {
	var c domain.Completion
	if err := row.Scan(
		&c.ID,
		&c.TaskID,
		&c.UserID,
		&c.CompletedAt,
		&c.Notes,
		&c.Status,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	c.CompletedAt = utcDate(c.CompletedAt)
	return &c, nil
}
