package ingestion

import "fmt"

// NotFoundError is returned when the input path does not exist.
type NotFoundError struct {
	Path  string
	Cause error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input path not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// ReadError represents a workspace file that could not be read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to read %s", e.Path)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// PatternError represents an invalid file name pattern.
type PatternError struct {
	Pattern string
	Cause   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid file pattern %q: %v", e.Pattern, e.Cause)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}
