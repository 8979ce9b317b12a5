package transport

import "encoding/json"

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON body the API writes. Code and Error are set only
// when Status is StatusError; Meta carries paging or diagnostic detail.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

func NewSuccess(data, meta any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data, Meta: meta}
}

func NewError(code, message string, meta any) Envelope {
	return Envelope{Status: StatusError, Code: code, Error: message, Meta: meta}
}

// String renders the envelope for bodies written outside the handlers.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return `{"status":"error"}`
	}
	return string(out)
}

// RangeMeta describes the normalized window of a range query.
type RangeMeta struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Count int    `json:"count"`
}
