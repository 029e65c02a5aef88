package alerts

import (
	"strconv"
	"strings"

	"github.com/centerpulse/centerpulse/internal/domain"
)

// evalCondition evaluates a rule condition string against one center's
// metrics.
//
// Supported expressions (field operator value):
//
//	completion < 70
//	gap < -10
//	remaining > 1000
//	index_score < 60
//	closing_speed < 50
//	backlog > 150
//	grade == 저조함
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is
// unknown.
func evalCondition(cond string, m domain.EnhancedCenterMetric) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "grade" {
		if op == "==" {
			return m.PerformanceGrade == rhs, 0
		}
		return false, 0
	}

	v, ok := numericField(field, m)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the metric.
func numericField(field string, m domain.EnhancedCenterMetric) (float64, bool) {
	switch field {
	case "completion":
		return m.Completion, true
	case "gap":
		return m.Gap, true
	case "remaining":
		return float64(m.Remaining), true
	case "closed":
		return float64(m.Closed), true
	case "total":
		return float64(m.Total), true
	case "backlog":
		return float64(m.Backlog), true
	case "index_score":
		return float64(m.IndexScore), true
	case "closing_speed":
		return m.ClosingSpeed, true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
