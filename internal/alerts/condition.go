package alerts

import (
	"strconv"
	"strings"

	"github.com/deptpulse/deptpulse/pkg/model"
)

// Field prefixes and names understood by evalCondition.
const (
	fieldTotalScore = "total_score"
	fieldOverall    = "overall"
	categoryPrefix  = "category:"
)

// evalCondition evaluates a "field op value" expression for one department.
//
// Supported fields:
//
//	total_score        — the department's aggregate score
//	category:<label>   — one category's normalized value (label may contain spaces)
//	overall            — handled by the engine against the whole snapshot
//
// Operators: < <= > >= == !=. Returns whether the rule fires, the observed
// value, and whether the expression was understood at all.
func evalCondition(cond string, dept model.Department) (fires bool, value float64, ok bool) {
	field, op, threshold, ok := splitCondition(cond)
	if !ok {
		return false, 0, false
	}

	switch {
	case field == fieldTotalScore:
		value = dept.TotalScore
	case strings.HasPrefix(field, categoryPrefix):
		label := strings.TrimPrefix(field, categoryPrefix)
		found := false
		for _, c := range dept.Categories {
			if c.Label == label {
				value = c.Value
				found = true
				break
			}
		}
		if !found {
			return false, 0, false
		}
	default:
		return false, 0, false
	}

	return compare(value, op, threshold), value, true
}

// isOverall reports whether cond targets the snapshot-wide mean rather
// than a single department.
func isOverall(cond string) bool {
	field, _, _, ok := splitCondition(cond)
	return ok && field == fieldOverall
}

// evalOverall evaluates an "overall op value" expression against the mean
// total score of the snapshot.
func evalOverall(cond string, records []model.Department) (fires bool, value float64, ok bool) {
	field, op, threshold, ok := splitCondition(cond)
	if !ok || field != fieldOverall {
		return false, 0, false
	}
	value = model.OverallProgress(records)
	return compare(value, op, threshold), value, true
}

// splitCondition breaks "field op value" into its parts. The field may
// contain spaces ("category:Org Chart < 0.3"); the operator and numeric
// threshold are always the final two tokens.
func splitCondition(cond string) (field, op string, threshold float64, ok bool) {
	tokens := strings.Fields(cond)
	if len(tokens) < 3 {
		return "", "", 0, false
	}

	op = tokens[len(tokens)-2]
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
	default:
		return "", "", 0, false
	}

	threshold, err := strconv.ParseFloat(tokens[len(tokens)-1], 64)
	if err != nil {
		return "", "", 0, false
	}

	field = strings.Join(tokens[:len(tokens)-2], " ")
	return field, op, threshold, true
}

func compare(value float64, op string, threshold float64) bool {
	switch op {
	case "<":
		return value < threshold
	case "<=":
		return value <= threshold
	case ">":
		return value > threshold
	case ">=":
		return value >= threshold
	case "==":
		return value == threshold
	case "!=":
		return value != threshold
	}
	return false
}
