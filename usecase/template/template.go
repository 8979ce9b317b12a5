package template

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/pkg/logger"
	"github.com/fastygo/loftplanner/repository"
	"github.com/fastygo/loftplanner/usecase"
)

type UseCase struct {
	templates repository.TemplateRepository
	buffer    usecase.OperationBuffer
	logger    *zap.Logger
}

func New(templates repository.TemplateRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		templates: templates,
		buffer:    buffer,
		logger:    logger,
	}
}

// Patch carries the fields of a partial template update. Nil fields are left
// untouched; ClearEndDate and ClearLoft remove the optional values.
type Patch struct {
	Title                *string
	TitleSecondary       *string
	Description          *string
	DescriptionSecondary *string
	Category             *string
	Priority             *domain.Priority
	Frequency            *domain.Frequency
	StartDate            *time.Time
	EndDate              *time.Time
	ClearEndDate         bool
	Time                 *string
	IsActive             *bool
	LoftID               *string
	ClearLoft            bool
}

func (uc *UseCase) GetTemplate(ctx context.Context, userID, id string) (*domain.TaskTemplate, error) {
	tpl, err := uc.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl.UserID != userID {
		return nil, domain.ErrTemplateNotFound
	}
	return tpl, nil
}

func (uc *UseCase) CreateTemplate(ctx context.Context, tpl *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	if tpl == nil {
		return nil, domain.ErrInvalidPayload
	}
	if tpl.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if tpl.Priority == "" {
		tpl.Priority = domain.PriorityMedium
	}
	if tpl.Frequency == "" {
		tpl.Frequency = domain.FrequencyNone
	}
	if err := normalize(tpl); err != nil {
		return nil, err
	}

	created, err := uc.templates.Create(ctx, tpl)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, tpl) {
			return tpl, nil
		}
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) UpdateTemplate(ctx context.Context, userID, id string, patch Patch) (*domain.TaskTemplate, error) {
	tpl, err := uc.GetTemplate(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	apply(tpl, patch)
	if err := normalize(tpl); err != nil {
		return nil, err
	}

	if err := uc.templates.Update(ctx, tpl); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, tpl) {
			return tpl, nil
		}
		return nil, err
	}
	return tpl, nil
}

func (uc *UseCase) DeleteTemplate(ctx context.Context, userID, id string) error {
	tpl, err := uc.GetTemplate(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := uc.templates.Delete(ctx, tpl.ID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, tpl) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, tpl *domain.TaskTemplate) bool {
	if uc.buffer == nil {
		return false
	}
	log := logger.FromContext(ctx, uc.logger)
	if err := uc.buffer.BufferTemplate(ctx, operation, tpl); err != nil {
		log.Error("failed to buffer template operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	log.Warn("template operation buffered", zap.String("operation", operation), zap.String("task_id", tpl.ID))
	return true
}

func apply(tpl *domain.TaskTemplate, p Patch) {
	if p.Title != nil {
		tpl.Title = *p.Title
	}
	if p.TitleSecondary != nil {
		tpl.TitleSecondary = *p.TitleSecondary
	}
	if p.Description != nil {
		tpl.Description = *p.Description
	}
	if p.DescriptionSecondary != nil {
		tpl.DescriptionSecondary = *p.DescriptionSecondary
	}
	if p.Category != nil {
		tpl.Category = *p.Category
	}
	if p.Priority != nil {
		tpl.Priority = *p.Priority
	}
	if p.Frequency != nil {
		tpl.Frequency = *p.Frequency
	}
	if p.StartDate != nil {
		tpl.StartDate = *p.StartDate
	}
	switch {
	case p.ClearEndDate:
		tpl.EndDate = nil
	case p.EndDate != nil:
		end := *p.EndDate
		tpl.EndDate = &end
	}
	if p.Time != nil {
		tpl.Time = *p.Time
	}
	if p.IsActive != nil {
		tpl.IsActive = *p.IsActive
	}
	switch {
	case p.ClearLoft:
		tpl.LoftID = nil
	case p.LoftID != nil:
		loft := *p.LoftID
		tpl.LoftID = &loft
	}
}

// normalize validates tpl and truncates its dates to UTC days.
func normalize(tpl *domain.TaskTemplate) error {
	tpl.Title = strings.TrimSpace(tpl.Title)
	if tpl.Title == "" {
		return domain.Invalidf("title is required")
	}
	if !tpl.Priority.Valid() {
		return domain.Invalidf("unknown priority %q", tpl.Priority)
	}
	if !tpl.Frequency.Valid() {
		return domain.Invalidf("unknown frequency %q", tpl.Frequency)
	}
	if tpl.StartDate.IsZero() {
		return domain.Invalidf("start_date is required")
	}
	tpl.StartDate = domain.StartOfDay(tpl.StartDate)
	if tpl.EndDate != nil {
		end := domain.StartOfDay(*tpl.EndDate)
		if end.Before(tpl.StartDate) {
			return domain.Invalidf("end_date must not be before start_date")
		}
		tpl.EndDate = &end
	}
	if tpl.Time != "" && !validClock(tpl.Time) {
		return domain.Invalidf("time must be HH:MM, got %q", tpl.Time)
	}
	if tpl.LoftID != nil && strings.TrimSpace(*tpl.LoftID) == "" {
		tpl.LoftID = nil
	}
	return nil
}

// validClock accepts zero-padded 24h "HH:MM" so string order is chronological.
func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
