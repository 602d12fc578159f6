package providers

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that the remote reports the requested content as
// permanently gone. The update engine maps it to a terminal removed flag and
// never retries without an explicit user reset.
var ErrNotFound = errors.New("remote content not found")

// FetchError wraps any transient failure talking to a remote source. Items
// hitting it stay eligible for retry on the next scheduled pass.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed during %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a transient fetch failure.
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// IsNotFound reports whether err is the permanent not-found signal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
