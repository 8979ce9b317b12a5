package repository

import (
	"context"
	"time"

	"github.com/fastygo/loftplanner/domain"
)

type TemplateRepository interface {
	// FindActiveIntersecting returns the user's active templates whose
	// [start_date, end_date] interval overlaps [start, end].
	FindActiveIntersecting(ctx context.Context, userID string, start, end time.Time) ([]domain.TaskTemplate, error)
	GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error)
	Create(ctx context.Context, tpl *domain.TaskTemplate) (*domain.TaskTemplate, error)
	Update(ctx context.Context, tpl *domain.TaskTemplate) error
	Delete(ctx context.Context, id string) error
}
