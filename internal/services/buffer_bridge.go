package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/internal/infrastructure/buffer"
	"github.com/fastygo/loftplanner/usecase"
)

// BufferBridge serializes use case writes into buffer items.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTemplate(ctx context.Context, operation string, tpl *domain.TaskTemplate) error {
	if b.processor == nil || tpl == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(tpl)
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    tpl.UserID,
		Entity:    buffer.EntityTemplate,
		Operation: operation,
		Data:      payload,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferCompletion(ctx context.Context, completion *domain.Completion) error {
	if b.processor == nil || completion == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(completion)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:        completion.ID,
		UserID:    completion.UserID,
		Entity:    buffer.EntityCompletion,
		Operation: buffer.OperationCreate,
		Data:      payload,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) PendingCompletion(_ context.Context, id string) (*domain.Completion, error) {
	item, ok, err := b.processor.Pending(id)
	if err != nil || !ok || item.Entity != buffer.EntityCompletion {
		return nil, err
	}
	var completion domain.Completion
	if err := json.Unmarshal(item.Data, &completion); err != nil {
		return nil, err
	}
	return &completion, nil
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
