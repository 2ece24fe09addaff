package ingest

import (
	"context"
	"net/http"
	"time"

	"github.com/deptpulse/deptpulse/internal/config"
	"github.com/deptpulse/deptpulse/internal/sheet"
	"github.com/deptpulse/deptpulse/pkg/model"
)

// headerRows is the number of leading rows dropped unconditionally as
// column headers; their content is never validated.
const headerRows = 1

// Pipeline runs one full ingestion pass over the configured sheet.
// It holds no mutable state and is safe for concurrent use, though the
// refresh scheduler serializes calls in practice.
type Pipeline struct {
	client     *http.Client
	shareURL   string
	categories []config.Category
}

// New builds a Pipeline for the given share URL and category configuration.
// The HTTP client is built once and reused across passes; timeout bounds
// one export download, 0 means no limit beyond the transport's own.
func New(shareURL string, categories []config.Category, timeout time.Duration) *Pipeline {
	return &Pipeline{
		client:     &http.Client{Timeout: timeout},
		shareURL:   shareURL,
		categories: categories,
	}
}

// Ingest fetches and normalizes the sheet, returning records in source row
// order. A sheet with no data rows is a legitimate empty result, not an
// error. Failures are typed: *sheet.FetchError for transport and status
// problems, *sheet.ParseError for malformed content.
func (p *Pipeline) Ingest(ctx context.Context) ([]model.Department, error) {
	url := sheet.ExportURL(p.shareURL)

	text, err := sheet.Fetch(ctx, p.client, url)
	if err != nil {
		return nil, err
	}

	rows, err := sheet.ParseRows(text)
	if err != nil {
		return nil, err
	}

	// Header only, or nothing at all: an empty or unpublished sheet.
	if len(rows) < headerRows+1 {
		return []model.Department{}, nil
	}

	records := make([]model.Department, 0, len(rows)-headerRows)
	for _, row := range rows[headerRows:] {
		if rec, ok := mapRow(row, p.categories); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}
