package sheet

import "fmt"

// FetchError reports a failed attempt to retrieve the sheet export:
// transport failures, body read failures, and non-2xx responses.
type FetchError struct {
	// Status is the HTTP status code, 0 for transport-level failures.
	Status int

	// StatusText is the standard text for Status, "" for transport failures.
	StatusText string

	// Err is the underlying cause, nil for plain status failures.
	Err error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch sheet: %v", e.Err)
	}
	return fmt.Sprintf("fetch sheet: unexpected status %d %s", e.Status, e.StatusText)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports malformed CSV content, distinct from I/O failures.
type ParseError struct {
	// Line is the 1-based line where parsing failed, 0 when unknown.
	Line int

	// Err is the underlying csv error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse sheet csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
