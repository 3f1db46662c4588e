// Package conditions evaluates trigger conditions against domain event
// contexts.
package conditions

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/juriflow/juriflow/pkg/models"
	"github.com/juriflow/juriflow/pkg/variables"
)

// Matches reports whether every condition holds against ctx. An empty
// condition list matches universally. Missing fields and malformed values
// never panic; they make the affected condition false.
func Matches(conds []models.Condition, ctx map[string]any) bool {
	for _, cond := range conds {
		if !matchCondition(cond, ctx) {
			return false
		}
	}

	return true
}

func matchCondition(cond models.Condition, ctx map[string]any) bool {
	extracted, found := variables.Lookup(ctx, cond.Field)

	switch cond.Operator {
	case models.OperatorEquals:
		return found && valuesEqual(extracted, cond.Value)
	case models.OperatorNotEquals:
		return !found || !valuesEqual(extracted, cond.Value)
	case models.OperatorContains:
		if !found {
			return false
		}

		return strings.Contains(stringify(extracted), stringify(cond.Value))
	case models.OperatorGreaterThan:
		left, right, ok := numericPair(extracted, cond.Value, found)

		return ok && left > right
	case models.OperatorLessThan:
		left, right, ok := numericPair(extracted, cond.Value, found)

		return ok && left < right
	case models.OperatorIn:
		return found && contains(cond.Value, extracted)
	case models.OperatorNotIn:
		return !found || !contains(cond.Value, extracted)
	default:
		return false
	}
}

func contains(list any, value any) bool {
	items, ok := list.([]any)
	if !ok {
		return false
	}

	for _, item := range items {
		if valuesEqual(value, item) {
			return true
		}
	}

	return false
}

// valuesEqual compares scalars, normalizing numeric types so that a JSON
// float64 compares equal to an int condition value.
func valuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, okB := toFloat(b); okB {
			return fa == fb
		}

		return false
	}

	return reflect.DeepEqual(a, b)
}

func numericPair(extracted, conditionValue any, found bool) (float64, float64, bool) {
	if !found {
		return 0, 0, false
	}

	left, okLeft := toFloat(extracted)
	right, okRight := toFloat(conditionValue)

	return left, right, okLeft && okRight
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)

		return parsed, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	return fmt.Sprintf("%v", value)
}
