// Package validate holds the form-field checks shared by the handlers.
// All checks are pure functions over raw strings and run before any
// database work; a failure aborts the whole submission.
package validate

import (
	"strconv"
	"strings"
)

// Required reports whether every value is non-blank after trimming.
func Required(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// MinLen reports whether the trimmed value is at least n characters.
func MinLen(value string, n int) bool {
	return len(strings.TrimSpace(value)) >= n
}

// Email reports whether the value looks like an email address. The check
// is a bare substring test; it is not RFC-compliant on purpose.
func Email(value string) bool {
	return strings.Contains(value, "@")
}

// NumberOr coerces a raw field to a float, falling back to def when the
// field is blank or malformed.
func NumberOr(value string, def float64) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return n
}

// IntOr coerces a raw field to an int, falling back to def when the field
// is blank or malformed.
func IntOr(value string, def int) int {
	v := strings.TrimSpace(value)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// PositiveAmount reports whether the amount is strictly greater than zero.
func PositiveAmount(amount float64) bool {
	return amount > 0
}
