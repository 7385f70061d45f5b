package proc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an operation references an unknown process id.
	ErrNotFound = errors.New("process not found")

	// ErrDuplicateID is returned when a record with an already-registered id is
	// inserted. Ids are generated, so hitting this indicates a bug.
	ErrDuplicateID = errors.New("duplicate process id")

	// ErrInvalidInput is returned for malformed requests (empty command, etc.).
	ErrInvalidInput = errors.New("invalid input")
)

// SpawnError wraps an OS-level failure to create a process. No record is
// registered when spawning fails, so the caller gets the error and nothing else.
type SpawnError struct {
	Command []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
