package sheet

import (
	"strconv"
	"strings"
)

// quoteStripper removes stray quote characters anywhere in a cell; sheet
// exports sometimes wrap or embed them around percentage values.
var quoteStripper = strings.NewReplacer(`"`, "", "'", "")

// NormalizePercent converts a raw spreadsheet cell into a score.
//
// Rules, in order:
//   - empty or whitespace-only input → 0
//   - quotes and surrounding whitespace are stripped
//   - a trailing '%' divides the numeric prefix by 100 ("80%" → 0.8)
//   - otherwise the cell is read as a plain decimal ("0.5" → 0.5)
//   - an unparseable cell → 0
//
// A bare number greater than 1 (a "50" with no '%') passes through
// unclamped; clamping, if wanted, is a display concern. The function is
// pure and idempotent over already-normalized decimals.
func NormalizePercent(raw string) float64 {
	s := quoteStripper.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "%") {
		return leadingFloat(strings.TrimSuffix(s, "%")) / 100
	}
	return leadingFloat(s)
}

// leadingFloat parses the longest numeric prefix of s, tolerating trailing
// junk the way sheet cells often carry it ("80 pts" → 80). Returns 0 when
// no numeric prefix exists.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	dot := false
	digits := false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits = true
			i++
			continue
		}
		if c == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	if !digits {
		return 0
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:i], "."), 64)
	if err != nil {
		return 0
	}
	return f
}
