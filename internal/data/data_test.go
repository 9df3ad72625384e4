package data

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("send export: %w", &TransportError{Op: "dial", Err: cause})

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "dial", te.Op)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transport dial: connection refused")
}

func TestPartialReadErrorMessage(t *testing.T) {
	err := &PartialReadError{Path: "client.csv", Skipped: 2, Lines: []int{3, 9}}
	assert.Equal(t, "partial read of client.csv: skipped 2 line(s)", err.Error())
}
