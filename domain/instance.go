package domain

import "time"

// Instance is one occurrence of a template inside a query window. It is
// recomputed on every query and never persisted.
type Instance struct {
	TemplateID           string    `json:"template_id"`
	InstanceDate         time.Time `json:"instance_date"`
	Title                string    `json:"title"`
	TitleSecondary       string    `json:"title_secondary,omitempty"`
	Description          string    `json:"description,omitempty"`
	DescriptionSecondary string    `json:"description_secondary,omitempty"`
	Category             string    `json:"category,omitempty"`
	Priority             Priority  `json:"priority"`
	Frequency            Frequency `json:"frequency"`
	Time                 string    `json:"time,omitempty"`
	LoftID               *string   `json:"loft_id,omitempty"`
	LoftName             string    `json:"loft_name,omitempty"`
	IsCompleted          bool      `json:"is_completed"`
	CompletionID         string    `json:"completion_id,omitempty"`
	Notes                string    `json:"notes,omitempty"`
}
