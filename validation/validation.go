package validation

import (
	"strconv"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLength(field, value string, max int, v Violations) {
	if len(strings.TrimSpace(value)) > max {
		v[field] = "too_long"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

// Float parses a form value. A blank value yields present=false.
func Float(field, raw string, v Violations) (val float64, present bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		v[field] = "invalid_number"
		return 0, false
	}
	return f, true
}

// Int parses a base-10 form value. A blank value yields present=false.
func Int(field, raw string, v Violations) (val int, present bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v[field] = "invalid_number"
		return 0, false
	}
	return n, true
}
