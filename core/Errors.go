package core

import "fmt"

// SourceError wraps any failure that originated in a RowSource.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("row source %s failed: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// DecodeError reports a value that cannot be rendered as Latin-1.
type DecodeError struct {
	Index int
	Value int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("value %d at position %d is outside the Latin-1 byte range", e.Value, e.Index)
}
