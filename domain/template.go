package domain

import "time"

// Priority ranks a task template for display ordering.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Weight returns the ordering weight of the priority. Unknown values weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Weight() > 0
}

// Frequency is the cadence a template repeats on.
type Frequency string

const (
	FrequencyNone    Frequency = "NONE"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// TaskTemplate is a user-owned task definition that may repeat.
type TaskTemplate struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	Title                string     `json:"title"`
	TitleSecondary       string     `json:"title_secondary,omitempty"`
	Description          string     `json:"description,omitempty"`
	DescriptionSecondary string     `json:"description_secondary,omitempty"`
	Category             string     `json:"category,omitempty"`
	Priority             Priority   `json:"priority"`
	Frequency            Frequency  `json:"frequency"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	Time                 string     `json:"time,omitempty"`
	IsActive             bool       `json:"is_active"`
	LoftID               *string    `json:"loft_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// IsRecurring reports whether the template repeats at all.
func (t *TaskTemplate) IsRecurring() bool {
	return t != nil && t.Frequency != FrequencyNone
}
