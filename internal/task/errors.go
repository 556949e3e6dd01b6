package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrEmptyInput      = errors.New("input text is empty")
	ErrEmptyImage      = errors.New("image payload is empty")
	ErrTaskNotFound    = errors.New("no matching task found")
	ErrSessionNotFound = errors.New("pending decomposition not found or expired")
)
