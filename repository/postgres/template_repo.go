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

const templateColumns = `id, user_id, title, title_secondary, description, description_secondary,
	category, priority, frequency, start_date, end_date, time_of_day, is_active, loft_id,
	created_at, updated_at`

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository returns a Postgres-backed implementation of TemplateRepository.
func NewTemplateRepository(pool *pgxpool.Pool) repository.TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) FindActiveIntersecting(ctx context.Context, userID string, start, end time.Time) ([]domain.TaskTemplate, error) {
	const query = `
	SELECT ` + templateColumns + `
	FROM task_templates
	WHERE user_id = $1
	  AND is_active
	  AND start_date <= $3::date
	  AND (end_date IS NULL OR end_date >= $2::date)
	ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.TaskTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tpl)
	}
	return templates, rows.Err()
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE id = $1`
	return scanTemplate(r.pool.QueryRow(ctx, query, id))
}

func (r *templateRepository) Create(ctx context.Context, tpl *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	if tpl == nil {
		return nil, domain.ErrInvalidPayload
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO task_templates (id, user_id, title, title_secondary, description, description_secondary,
		category, priority, frequency, start_date, end_date, time_of_day, is_active, loft_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date, $11::date, $12, $13, $14)
	ON CONFLICT (id) DO NOTHING
	RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		tpl.ID,
		tpl.UserID,
		tpl.Title,
		tpl.TitleSecondary,
		tpl.Description,
		tpl.DescriptionSecondary,
		tpl.Category,
		string(tpl.Priority),
		string(tpl.Frequency),
		tpl.StartDate,
		nullTime(tpl.EndDate),
		tpl.Time,
		tpl.IsActive,
		nullString(tpl.LoftID),
	).Scan(&tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// already stored, e.g. a buffered create replayed twice
			return r.GetByID(ctx, tpl.ID)
		}
		return nil, err
	}

	return tpl, nil
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.TaskTemplate) error {
	if tpl == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE task_templates
	SET title = $2,
		title_secondary = $3,
		description = $4,
		description_secondary = $5,
		category = $6,
		priority = $7,
		frequency = $8,
		start_date = $9::date,
		end_date = $10::date,
		time_of_day = $11,
		is_active = $12,
		loft_id = $13,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		tpl.ID,
		tpl.Title,
		tpl.TitleSecondary,
		tpl.Description,
		tpl.DescriptionSecondary,
		tpl.Category,
		string(tpl.Priority),
		string(tpl.Frequency),
		tpl.StartDate,
		nullTime(tpl.EndDate),
		tpl.Time,
		tpl.IsActive,
		nullString(tpl.LoftID),
	).Scan(&tpl.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTemplateNotFound
		}
		return err
	}

	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM task_templates WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (*domain.TaskTemplate, error) {
	var tpl domain.TaskTemplate
	var (
		priority  string
		frequency string
		end       *time.Time
		loftID    *string
	)

	if err := row.Scan(
		&tpl.ID,
		&tpl.UserID,
		&tpl.Title,
		&tpl.TitleSecondary,
		&tpl.Description,
		&tpl.DescriptionSecondary,
		&tpl.Category,
		&priority,
		&frequency,
		&tpl.StartDate,
		&end,
		&tpl.Time,
		&tpl.IsActive,
		&loftID,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}

	tpl.Priority = domain.Priority(priority)
	tpl.Frequency = domain.Frequency(frequency)
	tpl.StartDate = utcDate(tpl.StartDate)
	if end != nil {
		e := utcDate(*end)
		tpl.EndDate = &e
	}
	tpl.LoftID = loftID

	return &tpl, nil
}
