package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionID(t *testing.T) {
	morning := time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)

	id := CompletionID("t-1", morning, "u-1")
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())

	assert.Equal(t, id, CompletionID("t-1", evening, "u-1"))
	assert.NotEqual(t, id, CompletionID("t-1", morning.AddDate(0, 0, 1), "u-1"))
	assert.NotEqual(t, id, CompletionID("t-2", morning, "u-1"))
	assert.NotEqual(t, id, CompletionID("t-1", morning, "u-2"))
}
