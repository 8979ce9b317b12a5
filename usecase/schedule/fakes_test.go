package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fastygo/loftplanner/domain"
)

type memTemplates struct {
	mu    sync.Mutex
	items map[string]domain.TaskTemplate
	order []string
	err   error
}

func newMemTemplates(tpls ...domain.TaskTemplate) *memTemplates {
	m := &memTemplates{items: make(map[string]domain.TaskTemplate)}
	for _, tpl := range tpls {
		m.items[tpl.ID] = tpl
		m.order = append(m.order, tpl.ID)
	}
	return m
}

func (m *memTemplates) FindActiveIntersecting(_ context.Context, userID string, start, end time.Time) ([]domain.TaskTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.TaskTemplate
	for _, id := range m.order {
		tpl := m.items[id]
		if tpl.UserID != userID || !tpl.IsActive || tpl.StartDate.After(end) {
			continue
		}
		if tpl.EndDate != nil && tpl.EndDate.Before(domain.StartOfDay(start)) {
			continue
		}
		out = append(out, tpl)
	}
	return out, nil
}

func (m *memTemplates) GetByID(_ context.Context, id string) (*domain.TaskTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tpl, ok := m.items[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return &tpl, nil
}

func (m *memTemplates) Create(_ context.Context, tpl *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[tpl.ID] = *tpl
	m.order = append(m.order, tpl.ID)
	return tpl, nil
}

func (m *memTemplates) Update(_ context.Context, tpl *domain.TaskTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[tpl.ID]; !ok {
		return domain.ErrTemplateNotFound
	}
	m.items[tpl.ID] = *tpl
	return nil
}

func (m *memTemplates) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrTemplateNotFound
	}
	delete(m.items, id)
	return nil
}

// memCompletions enforces the (task, day, user) uniqueness the real table
// gets from its unique index.
type memCompletions struct {
	mu        sync.Mutex
	items     []domain.Completion
	inserts   int
	insertErr error
	// beforeInsert runs without the lock held, letting tests interleave a
	// competing writer between the existence check and the insert.
	beforeInsert func()
}

func (m *memCompletions) FindInRange(_ context.Context, userID string, start, end time.Time) ([]domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Completion
	for _, c := range m.items {
		if c.UserID == userID && !c.CompletedAt.Before(start) && !c.CompletedAt.After(end) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (m *memCompletions) FindOne(_ context.Context, taskID string, day time.Time, userID string) (*domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.TaskID == taskID && c.UserID == userID && domain.SameDay(c.CompletedAt, day) {
			found := c
			return &found, nil
		}
	}
	return nil, domain.ErrCompletionNotFound
}

func (m *memCompletions) Insert(ctx context.Context, c *domain.Completion) (*domain.Completion, error) {
	if hook := m.beforeInsert; hook != nil {
		m.beforeInsert = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	for _, existing := range m.items {
		if existing.TaskID == c.TaskID && existing.UserID == c.UserID && domain.SameDay(existing.CompletedAt, c.CompletedAt) {
			return nil, domain.ErrCompletionExists
		}
	}
	m.inserts++
	stored := *c
	stored.CreatedAt = time.Now()
	m.items = append(m.items, stored)
	return &stored, nil
}

type fakeLofts struct {
	names map[string]string
	err   error
	calls [][]string
}

func (f *fakeLofts) LoftNames(_ context.Context, _ string, ids []string) (map[string]string, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

// fakeBuffer keeps buffered completions pending until replay is called.
type fakeBuffer struct {
	completions []domain.Completion
	err         error
	lookupErr   error
}

func (f *fakeBuffer) BufferTemplate(context.Context, string, *domain.TaskTemplate) error {
	return errors.New("not used")
}

func (f *fakeBuffer) BufferCompletion(_ context.Context, c *domain.Completion) error {
	if f.err != nil {
		return f.err
	}
	f.completions = append(f.completions, *c)
	return nil
}

func (f *fakeBuffer) PendingCompletion(_ context.Context, id string) (*domain.Completion, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, c := range f.completions {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

// replay drains the buffer into store, treating an existing day as done.
func (f *fakeBuffer) replay(store *memCompletions) error {
	for _, c := range f.completions {
		if _, err := store.Insert(context.Background(), &c); err != nil && !errors.Is(err, domain.ErrCompletionExists) {
			return err
		}
	}
	f.completions = nil
	return nil
}
