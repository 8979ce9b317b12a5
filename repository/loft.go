package repository

import (
	"context"

	"github.com/fastygo/loftplanner/domain"
)

type LoftRepository interface {
	ListByIDs(ctx context.Context, userID string, ids []string) ([]domain.Loft, error)
}

// LoftResolver maps loft ids to display names for a user.
type LoftResolver interface {
	LoftNames(ctx context.Context, userID string, ids []string) (map[string]string, error)
}
