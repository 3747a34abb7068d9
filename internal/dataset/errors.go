package dataset

import "fmt"

// DataFormatError reports a table that cannot be loaded: a missing category
// column, a year header that is not an integer, or rows that do not fit the
// header. Line and Column are 1-based; zero means unknown.
type DataFormatError struct {
	Line   int
	Column int
	Reason string
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("data format error at line %d, column %d: %s", e.Line, e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("data format error at line %d: %s", e.Line, e.Reason)
	default:
		return "data format error: " + e.Reason
	}
}

func formatErrorf(line, column int, format string, args ...any) *DataFormatError {
	return &DataFormatError{Line: line, Column: column, Reason: fmt.Sprintf(format, args...)}
}
