package usecase

import (
	"context"

	"github.com/fastygo/loftplanner/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferTemplate(ctx context.Context, operation string, tpl *domain.TaskTemplate) error
	BufferCompletion(ctx context.Context, completion *domain.Completion) error
	// PendingCompletion returns the buffered completion with the given id,
	// or nil when none is waiting for replay.
	PendingCompletion(ctx context.Context, id string) (*domain.Completion, error)
}
