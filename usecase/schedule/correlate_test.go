package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/loftplanner/domain"
)

func completion(id, taskID, on string) domain.Completion {
	return domain.Completion{
		ID:          id,
		TaskID:      taskID,
		UserID:      "user-1",
		CompletedAt: day(on),
		Status:      domain.CompletionStatusCompleted,
	}
}

func TestMatch(t *testing.T) {
	completions := []domain.Completion{
		completion("c1", "tpl-1", "2024-01-01"),
		completion("c2", "tpl-2", "2024-01-02"),
		completion("c3", "tpl-1", "2024-01-03"),
	}

	got, n := Match("tpl-1", day("2024-01-03"), completions)
	require.NotNil(t, got)
	assert.Equal(t, "c3", got.ID)
	assert.Equal(t, 1, n)

	got, n = Match("tpl-1", day("2024-01-02"), completions)
	assert.Nil(t, got)
	assert.Zero(t, n)

	got, n = Match("tpl-3", day("2024-01-01"), completions)
	assert.Nil(t, got)
	assert.Zero(t, n)
}

func TestMatch_SameDayAnyTime(t *testing.T) {
	c := completion("c1", "tpl-1", "2024-01-01")
	c.CompletedAt = c.CompletedAt.Add(23 * time.Hour)

	got, _ := Match("tpl-1", day("2024-01-01"), []domain.Completion{c})
	assert.NotNil(t, got)

	got, _ = Match("tpl-1", day("2024-01-02"), []domain.Completion{c})
	assert.Nil(t, got)
}

func TestMatch_DuplicatesPickLowestID(t *testing.T) {
	completions := []domain.Completion{
		completion("c9", "tpl-1", "2024-01-01"),
		completion("c2", "tpl-1", "2024-01-01"),
		completion("c5", "tpl-1", "2024-01-01"),
	}

	got, n := Match("tpl-1", day("2024-01-01"), completions)
	require.NotNil(t, got)
	assert.Equal(t, "c2", got.ID)
	assert.Equal(t, 3, n)
}

func TestMatch_ReturnsCopy(t *testing.T) {
	completions := []domain.Completion{completion("c1", "tpl-1", "2024-01-01")}

	got, _ := Match("tpl-1", day("2024-01-01"), completions)
	got.Notes = "changed"
	assert.Empty(t, completions[0].Notes)
}

func TestCompletionIndex_AgreesWithMatch(t *testing.T) {
	completions := []domain.Completion{
		completion("c1", "tpl-1", "2024-01-01"),
		completion("c2", "tpl-1", "2024-01-02"),
		completion("c0", "tpl-1", "2024-01-02"),
		completion("c3", "tpl-2", "2024-01-02"),
	}
	idx := IndexCompletions(completions)

	for _, taskID := range []string{"tpl-1", "tpl-2", "tpl-3"} {
		for _, on := range []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03"} {
			wantC, wantN := Match(taskID, day(on), completions)
			gotC, gotN := idx.Match(taskID, day(on))
			assert.Equal(t, wantC, gotC, "%s %s", taskID, on)
			assert.Equal(t, wantN, gotN, "%s %s", taskID, on)
		}
	}
}
