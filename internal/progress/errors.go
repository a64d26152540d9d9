package progress

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed stats or attempt records.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCollaborator marks a failure of the attempt/stats source.
	ErrCollaborator = errors.New("collaborator failure")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
