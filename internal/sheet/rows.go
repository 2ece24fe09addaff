package sheet

import (
	"encoding/csv"
	"errors"
	"strings"
)

// ParseRows splits CSV text into an ordered sequence of rows of fields.
// Quoted fields keep embedded delimiters and newlines literally; blank
// lines produce no row at all, not even an empty one. Malformed quoting is
// reported as a *ParseError.
func ParseRows(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // rows are ragged; the mapper validates lengths

	rows, err := r.ReadAll()
	if err != nil {
		var cerr *csv.ParseError
		if errors.As(err, &cerr) {
			return nil, &ParseError{Line: cerr.Line, Err: err}
		}
		return nil, &ParseError{Err: err}
	}
	return rows, nil
}
