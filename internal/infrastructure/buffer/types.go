package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entities a buffered write can target.
const (
	EntityTemplate   = "template"
	EntityCompletion = "completion"
)

// Operations replayed against the template store. Completions are always inserts.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Item is one write parked while Postgres was unreachable. Data holds the
// JSON form of the template or completion.
type Item struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Entity     string          `json:"entity"`
	Operation  string          `json:"operation"`
	Data       json.RawMessage `json:"data"`
	Attempts   int             `json:"attempts"`
	LastError  string          `json:"last_error,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`

	bucketKey []byte
}

func (i *Item) fillDefaults() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Operation == "" {
		i.Operation = OperationCreate
	}
	if i.EnqueuedAt.IsZero() {
		i.EnqueuedAt = time.Now().UTC()
	}
}

func (i Item) expired(cutoff time.Time) bool {
	return i.EnqueuedAt.Before(cutoff)
}
