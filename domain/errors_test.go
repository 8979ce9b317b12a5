package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("insert completion: %w", WrapError(ErrCodeConflict, "duplicate", cause))

	assert.Equal(t, ErrCodeConflict, CodeOf(wrapped))
	assert.Equal(t, ErrCodeNotFound, CodeOf(ErrTemplateNotFound))
	assert.Equal(t, ErrCodeInternal, CodeOf(cause))
	assert.Equal(t, ErrCodeInternal, CodeOf(nil))

	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "duplicate: connection reset", WrapError(ErrCodeConflict, "duplicate", cause).Error())
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(Invalidf("bad %s", "time"), ErrCodeInvalid))
	assert.False(t, IsDomainError(errors.New("plain"), ErrCodeInvalid))
	assert.False(t, IsDomainError(nil, ErrCodeInternal))
}
