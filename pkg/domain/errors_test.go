package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_ClassifiedBySentinel(t *testing.T) {
	err := NewError(ErrInvalidState, "insufficient balance")

	assert.EqualError(t, err, "insufficient balance")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NotErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("create transfer: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidState)

	var de *Error
	assert.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "insufficient balance", de.Msg)
}
