package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/repository"
)

type loftRepository struct {
	pool *pgxpool.Pool
}

// NewLoftRepository returns a read-only view of the lofts table used for
// display names.
func NewLoftRepository(pool *pgxpool.Pool) repository.LoftRepository {
	return &loftRepository{pool: pool}
}

func (r *loftRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]domain.Loft, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, user_id, name FROM lofts WHERE user_id = $1 AND id = ANY($2)`
	rows, err := r.pool.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lofts []domain.Loft
	for rows.Next() {
		var l domain.Loft
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name); err != nil {
			return nil, err
		}
		lofts = append(lofts, l)
	}
	return lofts, rows.Err()
}
