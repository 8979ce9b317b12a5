package schedule

import (
	"time"

	"github.com/fastygo/loftplanner/domain"
)

// Match returns the completion recorded for taskID on the UTC day of date and
// the number of candidates found. The store allows one candidate; if more
// slipped in, the lowest id wins so the answer stays deterministic.
func Match(taskID string, date time.Time, completions []domain.Completion) (*domain.Completion, int) {
	var (
		best  *domain.Completion
		count int
	)
	for i := range completions {
		c := &completions[i]
		if c.TaskID != taskID || !domain.SameDay(c.CompletedAt, date) {
			continue
		}
		count++
		if best == nil || c.ID < best.ID {
			best = c
		}
	}
	if best == nil {
		return nil, 0
	}
	found := *best
	return &found, count
}

type completionKey struct {
	taskID string
	day    int64
}

// CompletionIndex buckets completions by task and UTC day.
type CompletionIndex map[completionKey][]domain.Completion

func IndexCompletions(completions []domain.Completion) CompletionIndex {
	idx := make(CompletionIndex, len(completions))
	for _, c := range completions {
		key := keyFor(c.TaskID, c.CompletedAt)
		idx[key] = append(idx[key], c)
	}
	return idx
}

// Match behaves like the package-level Match restricted to the bucket for
// (taskID, date).
func (idx CompletionIndex) Match(taskID string, date time.Time) (*domain.Completion, int) {
	return Match(taskID, date, idx[keyFor(taskID, date)])
}

func keyFor(taskID string, t time.Time) completionKey {
	return completionKey{taskID: taskID, day: domain.StartOfDay(t).Unix() / secondsPerDay}
}
