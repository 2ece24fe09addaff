package ingest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/deptpulse/deptpulse/internal/config"
	"github.com/deptpulse/deptpulse/internal/sheet"
	"github.com/deptpulse/deptpulse/pkg/model"
)

// Column positions fixed by the source layout: id in the first column,
// name in the second. Category columns come from configuration.
const (
	idColumn     = 0
	nameColumn   = 1
	minRowFields = 2
)

// absentRaw is the raw text recorded for a category whose source cell was
// absent or empty.
const absentRaw = "0%"

// mapRow converts one raw CSV row into a Department. ok is false when the
// row cannot produce a record: fewer than two fields, or a name that is
// empty after trimming. Rejections are intentional filtering, not errors —
// nothing is reported per row.
func mapRow(row []string, categories []config.Category) (model.Department, bool) {
	if len(row) < minRowFields {
		return model.Department{}, false
	}
	name := strings.TrimSpace(row[nameColumn])
	if name == "" {
		return model.Department{}, false
	}

	id := row[idColumn]
	if id == "" {
		// No id published for this row. A fresh random token keeps the
		// record addressable; it is not stable across refreshes.
		id = uuid.NewString()
	}

	scores := make([]model.CategoryScore, 0, len(categories))
	var sum float64
	for _, cat := range categories {
		var raw string
		if cat.Column < len(row) {
			raw = row[cat.Column]
		}
		value := sheet.NormalizePercent(raw)
		if raw == "" {
			raw = absentRaw
		}
		sum += value
		scores = append(scores, model.CategoryScore{
			Label:  cat.Label,
			Raw:    raw,
			Value:  value,
			Weight: cat.Weight,
		})
	}

	var total float64
	if len(scores) > 0 {
		total = sum / float64(len(scores))
	}

	return model.Department{
		ID:         id,
		Name:       name,
		TotalScore: total,
		Categories: scores,
	}, true
}
