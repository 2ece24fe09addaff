package sheet

import (
	"fmt"
	"regexp"
)

// sheetIDPattern matches the document id segment of a share link: the
// alphanumeric/dash/underscore run following "/d/".
var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

const exportURLFormat = "https://docs.google.com/spreadsheets/d/%s/export?format=csv"

// ExportURL derives the machine-fetchable CSV export endpoint from a
// human-shareable sheet link. URLs without a recognizable id segment are
// returned unchanged — the fetch step surfaces the failure if such a URL
// is not exportable.
func ExportURL(shareURL string) string {
	m := sheetIDPattern.FindStringSubmatch(shareURL)
	if m == nil {
		return shareURL
	}
	return fmt.Sprintf(exportURLFormat, m[1])
}
