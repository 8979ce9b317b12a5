package domain

// Loft is a display-only grouping label templates can point at.
type Loft struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
