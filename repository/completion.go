package repository

import (
	"context"
	"time"

	"github.com/fastygo/loftplanner/domain"
)

type CompletionRepository interface {
	FindInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Completion, error)
	// FindOne returns domain.ErrCompletionNotFound when no record exists.
	FindOne(ctx context.Context, taskID string, day time.Time, userID string) (*domain.Completion, error)
	// Insert returns domain.ErrCompletionExists when the (task, day, user)
	// unique constraint rejects the row.
	Insert(ctx context.Context, completion *domain.Completion) (*domain.Completion, error)
}
