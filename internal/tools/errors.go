package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolUnavailable is returned for a tool name the active registry does not
// hold.
var ErrToolUnavailable = errors.New("tool is not available")

// IncompleteArgumentsError means required arguments were missing. The model
// is expected to ask the user for them.
type IncompleteArgumentsError struct {
	Tool    string
	Missing []string
}

func (e *IncompleteArgumentsError) Error() string {
	return fmt.Sprintf("%s: missing required arguments: %s", e.Tool, strings.Join(e.Missing, ", "))
}

// InvalidArgumentsError collects every other schema violation.
type InvalidArgumentsError struct {
	Tool     string
	Problems []string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("%s: invalid arguments: %s", e.Tool, strings.Join(e.Problems, "; "))
}
