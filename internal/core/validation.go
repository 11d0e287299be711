package core

// validation.go checks raw inline-edit input against a column's FieldSpec
// and converts it to the typed value the store expects.
//
// The table engine hands over the draft exactly as typed; nothing is
// validated before this point. Failures come back as ValidationError so the
// UI can show the field and a message next to the cell.

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/backoffice/internal/domain"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field/column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

var hundred = decimal.NewFromInt(100)

// ParseCell validates raw against spec and returns the typed value:
// string for text, enum, email and date fields; decimal.Decimal for
// numeric and percent fields. An empty optional value yields "".
func ParseCell(raw string, spec FieldSpec) (any, error) {
	value := strings.TrimSpace(raw)
	if spec.Normalizer != nil && value != "" {
		value = spec.Normalizer(value)
	}

	fail := func(format string, args ...any) error {
		return ValidationError{Field: spec.Name, Value: raw, Message: fmt.Sprintf(format, args...)}
	}

	if value == "" {
		if spec.Required {
			return nil, fail("required field is empty")
		}
		if spec.Type == FieldNumeric || spec.Type == FieldPercent {
			return decimal.Zero, nil
		}
		return "", nil
	}

	if err := ValidateCell(value, spec); err != nil {
		return nil, fail("%s", err.Error())
	}

	switch spec.Type {
	case FieldNumeric, FieldPercent:
		d, _ := ParseAmount(value)
		return d, nil
	case FieldEnum:
		for _, ev := range spec.EnumValues {
			if strings.EqualFold(ev, value) {
				return ev, nil
			}
		}
	case FieldDate:
		t, _ := ParseDate(value)
		return t.Format(domain.DateLayout), nil
	}
	return value, nil
}

// ValidateCell validates a single non-empty cell value against a field
// specification. Returns nil if valid, or an error describing the problem.
func ValidateCell(value string, spec FieldSpec) error {
	if value == "" {
		return nil
	}

	switch spec.Type {
	case FieldNumeric, FieldPercent:
		d, ok := ParseAmount(value)
		if !ok {
			return fmt.Errorf("invalid number format")
		}
		lo, hi := spec.Min, spec.Max
		if spec.Type == FieldPercent {
			if lo == "" {
				lo = "0"
			}
			if hi == "" {
				hi = hundred.String()
			}
		}
		if lo != "" && d.LessThan(decimal.RequireFromString(lo)) {
			return fmt.Errorf("value out of range: must be at least %s", lo)
		}
		if hi != "" && d.GreaterThan(decimal.RequireFromString(hi)) {
			return fmt.Errorf("value out of range: must be at most %s", hi)
		}
	case FieldDate:
		if _, ok := ParseDate(value); !ok {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD or similar)")
		}
	case FieldEmail:
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
			return fmt.Errorf("invalid email address")
		}
	case FieldEnum:
		if len(spec.EnumValues) > 0 {
			for _, ev := range spec.EnumValues {
				if strings.EqualFold(ev, value) {
					return nil
				}
			}
			return fmt.Errorf("invalid enum value: must be one of %s", strings.Join(spec.EnumValues, ", "))
		}
	}

	if spec.MaxLen > 0 && utf8.RuneCountInString(value) > spec.MaxLen {
		return fmt.Errorf("value too long: at most %d characters", spec.MaxLen)
	}
	if spec.Pattern != nil && !spec.Pattern.MatchString(value) {
		msg := spec.PatternMsg
		if msg == "" {
			msg = "does not match " + spec.Pattern.String()
		}
		return fmt.Errorf("invalid format: %s", msg)
	}
	return nil
}

// fieldTypeName returns a human-readable name for a field type.
func fieldTypeName(ft FieldType) string {
	switch ft {
	case FieldText:
		return "text"
	case FieldEnum:
		return "enum"
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "numeric"
	case FieldPercent:
		return "percent"
	case FieldEmail:
		return "email"
	default:
		return "value"
	}
}

// Hint is a short description of accepted input, shown as the editor
// placeholder.
func (s FieldSpec) Hint() string {
	switch {
	case s.Type == FieldEnum && len(s.EnumValues) > 0:
		return strings.Join(s.EnumValues, " / ")
	case s.PatternMsg != "":
		return s.PatternMsg
	case s.Type == FieldPercent:
		return "percent, 0-100"
	}
	return fieldTypeName(s.Type)
}
