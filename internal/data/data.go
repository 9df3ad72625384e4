package data

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing reference or log file, or an id with no match.
	ErrNotFound = errors.New("not found")
	// ErrMalformedData reports a catalog without its required columns or values.
	ErrMalformedData = errors.New("malformed data")
)

// PartialReadError is returned alongside the parseable part of a log file.
// It is never fatal.
type PartialReadError struct {
	Path    string
	Skipped int
	Lines   []int
}

func (e *PartialReadError) Error() string {
	return fmt.Sprintf("partial read of %s: skipped %d line(s)", e.Path, e.Skipped)
}

// TransportError wraps a failure of the outbound notification relay.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
