package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToString converts a cell value to its string form.
// Floats are rendered without trailing zeros so 99213.0 becomes "99213".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToFloat converts a cell value to float64.
// The second return value is false when the value is blank, not numeric or
// not finite ("NaN", "inf").
func ToFloat(val any) (float64, bool) {
	f, ok := toFloat(val)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		s := strings.TrimSpace(ToString(v))
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

// ToInt converts a cell value to int, truncating fractions.
// Non-numeric values yield 0.
func ToInt(val any) int {
	f, ok := ToFloat(val)
	if !ok {
		return 0
	}
	return int(f)
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "yes", "on").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, float64, float32:
		return ToInt(v) == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}
