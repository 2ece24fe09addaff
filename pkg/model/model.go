package model

// CategoryScore is one scored dimension of a department's performance.
type CategoryScore struct {
	// Label is the stable category identifier from configuration, never
	// taken from the source data.
	Label string `json:"label"`

	// Raw is the original cell text, preserved for display and audit.
	// "0%" when the source cell was absent or empty.
	Raw string `json:"raw"`

	// Value is the normalized score. Nominally in [0, 1]; bare numeric
	// cells greater than 1 pass through unclamped.
	Value float64 `json:"value"`

	// Weight is the configured relative importance. Carried on the record
	// but not applied when computing TotalScore.
	Weight float64 `json:"weight"`
}

// Department is the normalized performance record for one organizational
// unit. Records are never mutated in place — every refresh builds a fresh
// collection that replaces the previous one wholesale.
type Department struct {
	// ID comes from the id column, or a random fallback token when that
	// column is blank. Fallback ids are not stable across refreshes.
	ID string `json:"id"`

	// Name is the trimmed display and lookup key. Rows whose name is empty
	// after trimming never produce a record.
	Name string `json:"name"`

	// TotalScore is the unweighted arithmetic mean of the category values,
	// 0 when there are no categories.
	TotalScore float64 `json:"total_score"`

	// Categories holds one entry per configured category, in configuration
	// order, even when the source cells were blank.
	Categories []CategoryScore `json:"categories"`
}

// OverallProgress returns the mean TotalScore across records, 0 for an
// empty set.
func OverallProgress(records []Department) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.TotalScore
	}
	return sum / float64(len(records))
}
