package store

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func asString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %w: want text, got %T", field, ErrInvalidValue, v)
	}
	return s, nil
}

func asDecimal(field string, v any) (decimal.Decimal, error) {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: want decimal, got %T", field, ErrInvalidValue, v)
	}
	return d, nil
}

// optional maps an empty string to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
