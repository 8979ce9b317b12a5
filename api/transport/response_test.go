package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope_String(t *testing.T) {
	assert.JSONEq(t,
		`{"status":"error","code":"UNAUTHORIZED","error":"missing token"}`,
		NewError("UNAUTHORIZED", "missing token", nil).String())

	assert.JSONEq(t,
		`{"status":"success","data":[1,2],"meta":{"start":"2024-01-01","end":"2024-01-07","count":2}}`,
		NewSuccess([]int{1, 2}, RangeMeta{Start: "2024-01-01", End: "2024-01-07", Count: 2}).String())
}

func TestEnvelope_StringFallsBackOnMarshalFailure(t *testing.T) {
	assert.Equal(t, `{"status":"error"}`, NewSuccess(make(chan int), nil).String())
}
