package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "handle registry unavailable")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "handle registry unavailable: connection refused", err.Error())
}

func TestHasCodeWalksTheChain(t *testing.T) {
	inner := New(CodeNotFound, "handle not found")
	outer := Wrap(inner, CodeUnavailable, "lookup failed")

	assert.True(t, HasCode(outer, CodeUnavailable))
	assert.True(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(outer, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeBusy, CodeOf(New(CodeBusy, "gate busy")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))

	// Outermost code wins for nested domain errors.
	nested := Wrap(New(CodeNotFound, "inner"), CodeUnavailable, "outer")
	assert.Equal(t, CodeUnavailable, CodeOf(nested))
}
