package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeUpstream, "price feed failed", cause)

	require.EqualError(t, err, "price feed failed: boom")
	require.True(t, IsCode(err, CodeUpstream))
	require.False(t, IsCode(err, CodeInvalidInput))
	require.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("handler: %w", err)
	require.True(t, IsCode(wrapped, CodeUpstream))
	require.Equal(t, CodeUpstream, CodeOf(wrapped))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeInvalidInput, "pincode is required", nil)
	require.EqualError(t, err, "pincode is required")
	require.Equal(t, CodeInvalidInput, CodeOf(err))
	require.Empty(t, CodeOf(errors.New("plain")))
}
