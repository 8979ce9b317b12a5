package template

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/usecase"
)

type memRepo struct {
	mu        sync.Mutex
	items     map[string]domain.TaskTemplate
	createErr error
	updateErr error
	deleteErr error
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]domain.TaskTemplate)}
}

func (m *memRepo) FindActiveIntersecting(context.Context, string, time.Time, time.Time) ([]domain.TaskTemplate, error) {
	return nil, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*domain.TaskTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tpl, ok := m.items[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return &tpl, nil
}

func (m *memRepo) Create(_ context.Context, tpl *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[tpl.ID] = *tpl
	return tpl, nil
}

func (m *memRepo) Update(_ context.Context, tpl *domain.TaskTemplate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[tpl.ID] = *tpl
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type recordingBuffer struct {
	ops []string
}

func (b *recordingBuffer) BufferTemplate(_ context.Context, op string, _ *domain.TaskTemplate) error {
	b.ops = append(b.ops, op)
	return nil
}

func (b *recordingBuffer) BufferCompletion(context.Context, *domain.Completion) error {
	return nil
}

func (b *recordingBuffer) PendingCompletion(context.Context, string) (*domain.Completion, error) {
	return nil, nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func validTemplate() *domain.TaskTemplate {
	return &domain.TaskTemplate{
		UserID:    "user-1",
		Title:     "  Clean drinkers ",
		Frequency: domain.FrequencyDaily,
		StartDate: day("2024-01-01").Add(9 * time.Hour),
		Time:      "07:30",
		IsActive:  true,
	}
}

func TestCreateTemplate_Defaults(t *testing.T) {
	repo := newMemRepo()
	uc := New(repo, nil, nil)

	tpl := validTemplate()
	tpl.Frequency = ""
	created, err := uc.CreateTemplate(context.Background(), tpl)
	require.NoError(t, err)

	assert.Len(t, created.ID, 36)
	assert.Equal(t, "Clean drinkers", created.Title)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, domain.FrequencyNone, created.Frequency)
	assert.Equal(t, day("2024-01-01"), created.StartDate)
	assert.Contains(t, repo.items, created.ID)
}

func TestCreateTemplate_Validation(t *testing.T) {
	uc := New(newMemRepo(), nil, nil)
	end := day("2023-12-31")
	blank := "  "

	cases := map[string]func(*domain.TaskTemplate){
		"missing title":      func(tpl *domain.TaskTemplate) { tpl.Title = " " },
		"bad priority":       func(tpl *domain.TaskTemplate) { tpl.Priority = "URGENT" },
		"bad frequency":      func(tpl *domain.TaskTemplate) { tpl.Frequency = "HOURLY" },
		"missing start":      func(tpl *domain.TaskTemplate) { tpl.StartDate = time.Time{} },
		"end before start":   func(tpl *domain.TaskTemplate) { tpl.EndDate = &end },
		"unpadded time":      func(tpl *domain.TaskTemplate) { tpl.Time = "7:30" },
		"out of range time":  func(tpl *domain.TaskTemplate) { tpl.Time = "25:00" },
		"blank loft ignored": func(tpl *domain.TaskTemplate) { tpl.LoftID = &blank },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tpl := validTemplate()
			mutate(tpl)
			created, err := uc.CreateTemplate(context.Background(), tpl)
			if name == "blank loft ignored" {
				require.NoError(t, err)
				assert.Nil(t, created.LoftID)
				return
			}
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "got %v", err)
		})
	}
}

func TestCreateTemplate_RequiresUser(t *testing.T) {
	tpl := validTemplate()
	tpl.UserID = ""
	_, err := New(newMemRepo(), nil, nil).CreateTemplate(context.Background(), tpl)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestCreateTemplate_BuffersOnFailure(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = errors.New("db down")
	buf := &recordingBuffer{}
	uc := New(repo, buf, nil)

	created, err := uc.CreateTemplate(context.Background(), validTemplate())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{usecase.OperationCreate}, buf.ops)
}

func TestUpdateTemplate_AppliesPatch(t *testing.T) {
	repo := newMemRepo()
	uc := New(repo, nil, nil)
	ctx := context.Background()

	created, err := uc.CreateTemplate(ctx, validTemplate())
	require.NoError(t, err)

	title := "Scrub drinkers"
	high := domain.PriorityHigh
	end := day("2024-06-30")
	loft := "loft-1"
	updated, err := uc.UpdateTemplate(ctx, "user-1", created.ID, Patch{
		Title:    &title,
		Priority: &high,
		EndDate:  &end,
		LoftID:   &loft,
	})
	require.NoError(t, err)
	assert.Equal(t, "Scrub drinkers", updated.Title)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, end, *updated.EndDate)
	assert.Equal(t, "loft-1", *updated.LoftID)
	assert.Equal(t, "07:30", updated.Time)

	updated, err = uc.UpdateTemplate(ctx, "user-1", created.ID, Patch{ClearEndDate: true, ClearLoft: true})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
	assert.Nil(t, updated.LoftID)
}

func TestUpdateTemplate_RejectsInvalidPatch(t *testing.T) {
	repo := newMemRepo()
	uc := New(repo, nil, nil)
	ctx := context.Background()
	created, err := uc.CreateTemplate(ctx, validTemplate())
	require.NoError(t, err)

	bad := domain.Frequency("YEARLY")
	_, err = uc.UpdateTemplate(ctx, "user-1", created.ID, Patch{Frequency: &bad})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Equal(t, domain.FrequencyDaily, repo.items[created.ID].Frequency)
}

func TestUpdateTemplate_OtherUsersTemplateIsNotFound(t *testing.T) {
	uc := New(newMemRepo(), nil, nil)
	ctx := context.Background()
	created, err := uc.CreateTemplate(ctx, validTemplate())
	require.NoError(t, err)

	title := "stolen"
	_, err = uc.UpdateTemplate(ctx, "user-2", created.ID, Patch{Title: &title})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestDeleteTemplate(t *testing.T) {
	repo := newMemRepo()
	uc := New(repo, nil, nil)
	ctx := context.Background()
	created, err := uc.CreateTemplate(ctx, validTemplate())
	require.NoError(t, err)

	assert.True(t, domain.IsDomainError(uc.DeleteTemplate(ctx, "user-2", created.ID), domain.ErrCodeNotFound))
	require.NoError(t, uc.DeleteTemplate(ctx, "user-1", created.ID))
	assert.Empty(t, repo.items)
	assert.True(t, domain.IsDomainError(uc.DeleteTemplate(ctx, "user-1", created.ID), domain.ErrCodeNotFound))
}

func TestDeleteTemplate_BuffersOnFailure(t *testing.T) {
	repo := newMemRepo()
	buf := &recordingBuffer{}
	uc := New(repo, buf, nil)
	ctx := context.Background()
	created, err := uc.CreateTemplate(ctx, validTemplate())
	require.NoError(t, err)

	repo.deleteErr = errors.New("db down")
	require.NoError(t, uc.DeleteTemplate(ctx, "user-1", created.ID))
	assert.Equal(t, []string{usecase.OperationDelete}, buf.ops)
}
