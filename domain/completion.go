package domain

import (
	"time"

	"github.com/google/uuid"
)

// CompletionStatusCompleted is the only status a completion ever carries.
const CompletionStatusCompleted = "COMPLETED"

var completionNamespace = uuid.MustParse("6f1c2b7e-4d0a-5c3e-9a51-2e8b0f47d6c3")

// Completion records that one occurrence of a template was carried out.
// CompletedAt is a calendar day stored as UTC midnight.
type Completion struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompletionID derives the id of the completion for (taskID, UTC day of
// date, userID). Every writer of the same day computes the same id, so a
// record held back in the offline buffer keeps the id its caller was given.
func CompletionID(taskID string, date time.Time, userID string) string {
	name := taskID + "|" + StartOfDay(date).Format(time.DateOnly) + "|" + userID
	return uuid.NewSHA1(completionNamespace, []byte(name)).String()
}
