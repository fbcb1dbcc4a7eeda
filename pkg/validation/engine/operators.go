package engine

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// evaluateOperator evaluates a built-in operator against the resolved field
// value and the condition's literal value. Operators never coerce types: a
// type mismatch yields false (or true for the negated membership operators),
// not an error. Only an unknown operator or an invalid regex pattern errors.
func evaluateOperator(op ast.Operator, fieldValue, conditionValue interface{}) (bool, error) {
	switch op {
	case ast.OperatorEquals:
		return strictEquals(fieldValue, conditionValue), nil

	case ast.OperatorNotEquals:
		return !strictEquals(fieldValue, conditionValue), nil

	case ast.OperatorContains:
		return evaluateContains(fieldValue, conditionValue), nil

	case ast.OperatorNotContains:
		return evaluateNotContains(fieldValue, conditionValue), nil

	case ast.OperatorMatches:
		return evaluateMatches(fieldValue, conditionValue)

	case ast.OperatorIn:
		return evaluateIn(fieldValue, conditionValue), nil

	case ast.OperatorNotIn:
		// Non-list condition values negate to true, matching the in operator's false.
		return !evaluateIn(fieldValue, conditionValue), nil

	case ast.OperatorGreaterThan:
		return compareNumbers(fieldValue, conditionValue, func(a, b float64) bool { return a > b }), nil

	case ast.OperatorLessThan:
		return compareNumbers(fieldValue, conditionValue, func(a, b float64) bool { return a < b }), nil

	case ast.OperatorGreaterEqual:
		return compareNumbers(fieldValue, conditionValue, func(a, b float64) bool { return a >= b }), nil

	case ast.OperatorLessEqual:
		return compareNumbers(fieldValue, conditionValue, func(a, b float64) bool { return a <= b }), nil

	default:
		return false, fmt.Errorf("unknown operator: %q", op)
	}
}

// strictEquals compares two values without type coercion. Numeric values
// compare as float64 regardless of their Go integer/float representation,
// since rule literals and decoded JSON/YAML contexts mix the two freely.
func strictEquals(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	aNum, aOK := toFloat64(a)
	bNum, bOK := toFloat64(b)
	if aOK && bOK {
		return aNum == bNum
	}
	if aOK != bOK {
		return false
	}

	return reflect.DeepEqual(a, b)
}

// evaluateContains implements substring matching when both values are strings
// and element membership when the field value is a list. Everything else is
// false.
func evaluateContains(fieldValue, conditionValue interface{}) bool {
	if fieldStr, ok := fieldValue.(string); ok {
		condStr, ok := conditionValue.(string)
		if !ok {
			return false
		}
		return strings.Contains(fieldStr, condStr)
	}

	if isList(fieldValue) {
		return listContains(fieldValue, conditionValue)
	}

	return false
}

// evaluateNotContains negates the applicable contains cases and defaults to
// true when neither the string nor the list case applies.
func evaluateNotContains(fieldValue, conditionValue interface{}) bool {
	if fieldStr, ok := fieldValue.(string); ok {
		if condStr, ok := conditionValue.(string); ok {
			return !strings.Contains(fieldStr, condStr)
		}
		return true
	}

	if isList(fieldValue) {
		return !listContains(fieldValue, conditionValue)
	}

	return true
}

// evaluateMatches tests the field value against the condition value compiled
// as a regular expression. Both must be strings; any other combination is
// false. An invalid pattern is an error (caught at the rule boundary).
func evaluateMatches(fieldValue, conditionValue interface{}) (bool, error) {
	fieldStr, fieldOK := fieldValue.(string)
	pattern, patternOK := conditionValue.(string)
	if !fieldOK || !patternOK {
		return false, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return re.MatchString(fieldStr), nil
}

// evaluateIn tests membership of the field value in the condition value,
// which must be a list. A non-list condition value is false.
func evaluateIn(fieldValue, conditionValue interface{}) bool {
	if !isList(conditionValue) {
		return false
	}
	return listContains(conditionValue, fieldValue)
}

// compareNumbers applies a numeric comparison. Both operands must be numbers;
// any other type yields false.
func compareNumbers(fieldValue, conditionValue interface{}, cmp func(a, b float64) bool) bool {
	a, aOK := toFloat64(fieldValue)
	b, bOK := toFloat64(conditionValue)
	if !aOK || !bOK {
		return false
	}
	return cmp(a, b)
}

// isList returns true if the value is a slice or array.
func isList(v interface{}) bool {
	if v == nil {
		return false
	}
	kind := reflect.ValueOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// listContains checks whether the list contains an element equal to elem
// under strictEquals.
func listContains(list, elem interface{}) bool {
	v := reflect.ValueOf(list)
	for i := 0; i < v.Len(); i++ {
		if strictEquals(v.Index(i).Interface(), elem) {
			return true
		}
	}
	return false
}

// toFloat64 converts a numeric value to float64. Strings and booleans are
// deliberately excluded: operators do not coerce.
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
