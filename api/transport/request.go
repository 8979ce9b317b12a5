package transport

import "encoding/json"

// TemplateRequest is the body of POST /api/v1/tasks. Dates are YYYY-MM-DD
// or RFC 3339 timestamps.
type TemplateRequest struct {
	Title                string  `json:"title"`
	TitleSecondary       string  `json:"title_secondary"`
	Description          string  `json:"description"`
	DescriptionSecondary string  `json:"description_secondary"`
	Category             string  `json:"category"`
	Priority             string  `json:"priority"`
	Frequency            string  `json:"frequency"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	Time                 string  `json:"time"`
	IsActive             *bool   `json:"is_active"`
	LoftID               *string `json:"loft_id"`
}

// TemplatePatchRequest is the body of PATCH /api/v1/tasks/{id}. Absent
// fields are left untouched; end_date and loft_id accept null to clear.
type TemplatePatchRequest struct {
	Title                *string         `json:"title"`
	TitleSecondary       *string         `json:"title_secondary"`
	Description          *string         `json:"description"`
	DescriptionSecondary *string         `json:"description_secondary"`
	Category             *string         `json:"category"`
	Priority             *string         `json:"priority"`
	Frequency            *string         `json:"frequency"`
	StartDate            *string         `json:"start_date"`
	EndDate              json.RawMessage `json:"end_date"`
	Time                 *string         `json:"time"`
	IsActive             *bool           `json:"is_active"`
	LoftID               json.RawMessage `json:"loft_id"`
}

// CompleteRequest is the body of POST /api/v1/tasks/complete.
type CompleteRequest struct {
	TaskID string `json:"task_id"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
}
