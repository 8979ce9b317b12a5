package monitor

import "time"

// Status is the result of the latest dependency check.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Degraded reports a reachable service running without its cache or with
// writes still waiting in the buffer.
func (s Status) Degraded() bool {
	return !s.Redis || !s.Buffer || s.BufferSize > 0
}
