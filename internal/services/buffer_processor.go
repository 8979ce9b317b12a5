package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/internal/infrastructure/buffer"
	"github.com/fastygo/loftplanner/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// Queue is the persistence the processor drains.
type Queue interface {
	Enqueue(item buffer.Item) error
	GetBatch(limit int) ([]buffer.Item, error)
	Find(id string) (buffer.Item, bool, error)
	Remove(item buffer.Item) error
	Requeue(item buffer.Item) error
	Size() (int, error)
	Cleanup(olderThan time.Time) (int, error)
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays buffered template and completion writes against Postgres.
type BufferProcessor struct {
	store       Queue
	monitor     ConnectionHealth
	templates   repository.TemplateRepository
	completions repository.CompletionRepository
	logger      *zap.Logger
	cron        *cron.Cron
	cfg         ProcessorConfig
}

func NewBufferProcessor(
	store Queue,
	monitor ConnectionHealth,
	templates repository.TemplateRepository,
	completions repository.CompletionRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:       store,
		monitor:     monitor,
		templates:   templates,
		completions: completions,
		logger:      logger,
		cfg:         cfg,
		cron:        cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(int(cfg.Interval.Seconds()), 1))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})
	if cfg.Retention > 0 {
		_, _ = bp.cron.AddFunc("@hourly", func() {
			bp.Cleanup(time.Now().UTC())
		})
	}

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain processes one batch of buffered items synchronously.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bp.processItem(ctx, item); err != nil {
			bp.logger.Error("failed to process buffer item",
				zap.String("item_id", item.ID),
				zap.String("entity", item.Entity),
				zap.String("operation", item.Operation),
				zap.Error(err))

			item.Attempts++
			item.LastError = err.Error()
			if item.Attempts >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffer item after max attempts",
					zap.String("item_id", item.ID),
					zap.Int("attempts", item.Attempts),
					zap.String("last_error", item.LastError))
				_ = bp.store.Remove(item)
				continue
			}
			if err := bp.store.Requeue(item); err != nil {
				bp.logger.Error("failed to requeue buffer item", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge processed buffer item", zap.Error(err))
		}
	}
	return nil
}

// Cleanup drops items older than the retention window.
func (bp *BufferProcessor) Cleanup(now time.Time) int {
	if bp == nil || bp.store == nil || bp.cfg.Retention <= 0 {
		return 0
	}
	removed, err := bp.store.Cleanup(now.Add(-bp.cfg.Retention))
	if err != nil {
		bp.logger.Error("buffer cleanup failed", zap.Error(err))
		return removed
	}
	if removed > 0 {
		bp.logger.Warn("expired buffer items dropped", zap.Int("count", removed))
	}
	return removed
}

// BufferOperation attempts to run the operation immediately and falls back to persisting it.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.monitor == nil || bp.monitor.IsOnline() {
		err := bp.processItem(ctx, item)
		if err == nil {
			return nil
		}
		bp.logger.Warn("immediate processing failed, buffering", zap.String("entity", item.Entity), zap.Error(err))
	}
	return bp.store.Enqueue(item)
}

// Pending returns the buffered item with the given id, if any.
func (bp *BufferProcessor) Pending(id string) (buffer.Item, bool, error) {
	if bp == nil || bp.store == nil {
		return buffer.Item{}, false, nil
	}
	return bp.store.Find(id)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch item.Entity {
	case buffer.EntityTemplate:
		var tpl domain.TaskTemplate
		if err := json.Unmarshal(item.Data, &tpl); err != nil {
			return err
		}
		return bp.replayTemplate(ctx, item.Operation, &tpl)

	case buffer.EntityCompletion:
		var completion domain.Completion
		if err := json.Unmarshal(item.Data, &completion); err != nil {
			return err
		}
		_, err := bp.completions.Insert(ctx, &completion)
		if errors.Is(err, domain.ErrCompletionExists) {
			// the day is already marked; nothing left to replay
			return nil
		}
		return err

	default:
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}
}

func (bp *BufferProcessor) replayTemplate(ctx context.Context, operation string, tpl *domain.TaskTemplate) error {
	var err error
	switch operation {
	case buffer.OperationCreate:
		_, err = bp.templates.Create(ctx, tpl)
	case buffer.OperationUpdate:
		err = bp.templates.Update(ctx, tpl)
	case buffer.OperationDelete:
		err = bp.templates.Delete(ctx, tpl.ID)
	default:
		return fmt.Errorf("unsupported operation %s", operation)
	}
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		bp.logger.Warn("buffered template no longer exists",
			zap.String("task_id", tpl.ID),
			zap.String("operation", operation))
		return nil
	}
	return err
}
