package valkeyerrors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrappedErrorsUnwrap(t *testing.T) {
	err := NewIO(io.ErrClosedPipe)
	require.ErrorIs(t, err, io.ErrClosedPipe)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
}

func TestMessageFormatting(t *testing.T) {
	err := NewNetwork("auth failed for user %q", "root")
	require.Equal(t, `auth failed for user "root"`, err.Error())
}
