package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/pkg/logger"
	"github.com/fastygo/loftplanner/repository"
	"github.com/fastygo/loftplanner/usecase"
)

// Config bounds what a caller may ask of the engine.
type Config struct {
	// MaxRangeDays caps the length of a range query in days. Zero disables the cap.
	MaxRangeDays int
}

// UseCase expands task templates into dated instances and records completions.
type UseCase struct {
	templates   repository.TemplateRepository
	completions repository.CompletionRepository
	lofts       repository.LoftResolver
	buffer      usecase.OperationBuffer
	logger      *zap.Logger
	cfg         Config

	anomalies atomic.Int64
}

func New(
	templates repository.TemplateRepository,
	completions repository.CompletionRepository,
	lofts repository.LoftResolver,
	buffer usecase.OperationBuffer,
	logger *zap.Logger,
	cfg Config,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		templates:   templates,
		completions: completions,
		lofts:       lofts,
		buffer:      buffer,
		logger:      logger,
		cfg:         cfg,
	}
}

// RangeQuery asks for every instance of the user's templates between the
// days of Start and End, both inclusive.
type RangeQuery struct {
	UserID string
	Start  time.Time
	End    time.Time
}

// ListInstances returns the ordered instances for the query window.
func (uc *UseCase) ListInstances(ctx context.Context, q RangeQuery) ([]domain.Instance, error) {
	if q.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	start, end, err := uc.window(q.Start, q.End)
	if err != nil {
		return nil, err
	}

	templates, err := uc.templates.FindActiveIntersecting(ctx, q.UserID, start, end)
	if err != nil {
		return nil, err
	}
	completions, err := uc.completions.FindInRange(ctx, q.UserID, start, end)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, uc.logger)
	index := IndexCompletions(completions)
	instances := make([]domain.Instance, 0, len(templates))
	for _, tpl := range templates {
		for date := range Occurrences(tpl, start, end) {
			match, candidates := index.Match(tpl.ID, date)
			if candidates > 1 {
				uc.anomalies.Add(1)
				log.Warn("completion data anomaly",
					zap.String("task_id", tpl.ID),
					zap.Time("date", date),
					zap.Int("candidates", candidates),
					zap.String("chosen_id", match.ID))
			}
			instances = append(instances, Assemble(tpl, date, match))
		}
	}

	uc.attachLoftNames(ctx, q.UserID, instances)
	return Order(instances), nil
}

// Anomalies reports how many occurrences matched more than one completion
// since the use case was created.
func (uc *UseCase) Anomalies() int64 {
	return uc.anomalies.Load()
}

// CompleteCommand marks the occurrence of TaskID on Date's UTC day as done.
type CompleteCommand struct {
	TaskID string
	UserID string
	Date   time.Time
	Notes  string
}

// Complete records a completion for (task, day, user) unless one exists, in
// which case the stored or still-buffered record is returned unchanged. The
// boolean reports whether this call created the record. Completion ids are
// derived from (task, day, user), so a write parked in the offline buffer
// and its later replay agree on the id.
func (uc *UseCase) Complete(ctx context.Context, cmd CompleteCommand) (*domain.Completion, bool, error) {
	if cmd.UserID == "" {
		return nil, false, domain.ErrUnauthorized
	}
	if cmd.TaskID == "" {
		return nil, false, domain.Invalidf("task_id is required")
	}
	if cmd.Date.IsZero() {
		return nil, false, domain.Invalidf("date is required")
	}

	tpl, err := uc.templates.GetByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, false, err
	}
	if tpl.UserID != cmd.UserID {
		return nil, false, domain.ErrTemplateNotFound
	}

	day := domain.StartOfDay(cmd.Date)
	id := domain.CompletionID(cmd.TaskID, day, cmd.UserID)
	if pending := uc.pendingCompletion(ctx, id); pending != nil {
		return pending, false, nil
	}

	existing, err := uc.findCompletion(ctx, cmd.TaskID, day, cmd.UserID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	completion := &domain.Completion{
		ID:          id,
		TaskID:      cmd.TaskID,
		UserID:      cmd.UserID,
		CompletedAt: day,
		Notes:       cmd.Notes,
		Status:      domain.CompletionStatusCompleted,
	}

	created, err := uc.completions.Insert(ctx, completion)
	switch {
	case err == nil:
		return created, true, nil
	case errors.Is(err, domain.ErrCompletionExists):
		// a concurrent request won the unique index; hand back its record
		winner, findErr := uc.findCompletion(ctx, cmd.TaskID, day, cmd.UserID)
		if findErr != nil {
			return nil, false, findErr
		}
		if winner == nil {
			return nil, false, domain.WrapError(domain.ErrCodeInternal, "completion conflict without stored record", err)
		}
		return winner, false, nil
	default:
		if uc.shouldBuffer(ctx, completion) {
			return completion, true, nil
		}
		return nil, false, err
	}
}

func (uc *UseCase) findCompletion(ctx context.Context, taskID string, day time.Time, userID string) (*domain.Completion, error) {
	c, err := uc.completions.FindOne(ctx, taskID, day, userID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// pendingCompletion looks for a completion waiting in the offline buffer.
// Lookup failures are logged and treated as a miss.
func (uc *UseCase) pendingCompletion(ctx context.Context, id string) *domain.Completion {
	if uc.buffer == nil {
		return nil
	}
	pending, err := uc.buffer.PendingCompletion(ctx, id)
	if err != nil {
		logger.FromContext(ctx, uc.logger).Warn("buffered completion lookup failed", zap.String("completion_id", id), zap.Error(err))
		return nil
	}
	return pending
}

func (uc *UseCase) shouldBuffer(ctx context.Context, completion *domain.Completion) bool {
	if uc.buffer == nil {
		return false
	}
	log := logger.FromContext(ctx, uc.logger)
	if err := uc.buffer.BufferCompletion(ctx, completion); err != nil {
		log.Error("failed to buffer completion", zap.String("task_id", completion.TaskID), zap.Error(err))
		return false
	}
	log.Warn("completion buffered", zap.String("task_id", completion.TaskID), zap.String("completion_id", completion.ID))
	return true
}

func (uc *UseCase) window(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, domain.Invalidf("start and end are required")
	}
	from := domain.StartOfDay(start)
	to := domain.EndOfDay(end)
	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.Invalidf("end must not be before start")
	}
	if uc.cfg.MaxRangeDays > 0 {
		days := int(domain.StartOfDay(end).Sub(from).Hours()/24) + 1
		if days > uc.cfg.MaxRangeDays {
			return time.Time{}, time.Time{}, domain.Invalidf("range spans %d days, at most %d allowed", days, uc.cfg.MaxRangeDays)
		}
	}
	return from, to, nil
}

// attachLoftNames fills the display name of each instance's loft. A failed
// lookup leaves the names empty and does not fail the query.
func (uc *UseCase) attachLoftNames(ctx context.Context, userID string, instances []domain.Instance) {
	if uc.lofts == nil || len(instances) == 0 {
		return
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, inst := range instances {
		if inst.LoftID == nil {
			continue
		}
		if _, ok := seen[*inst.LoftID]; ok {
			continue
		}
		seen[*inst.LoftID] = struct{}{}
		ids = append(ids, *inst.LoftID)
	}
	if len(ids) == 0 {
		return
	}

	names, err := uc.lofts.LoftNames(ctx, userID, ids)
	if err != nil {
		logger.FromContext(ctx, uc.logger).Warn("loft name lookup failed", zap.Error(err))
		return
	}
	for i := range instances {
		if id := instances[i].LoftID; id != nil {
			instances[i].LoftName = names[*id]
		}
	}
}
