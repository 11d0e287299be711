package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "duplicate key", err: errors.New("ERROR: duplicate key value violates unique constraint"), wantCode: "DB001"},
		{name: "unique constraint", err: errors.New("ERROR: unique constraint violated"), wantCode: "DB002"},
		{name: "foreign key", err: errors.New("violates foreign key constraint"), wantCode: "DB003"},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), wantCode: "DB004"},
		{name: "timeout", err: errors.New("i/o timeout"), wantCode: "DB006"},
		{name: "invalid number", err: ValidationError{Field: "rate", Message: "invalid number format"}, wantCode: "VAL002"},
		{name: "required field", err: ValidationError{Field: "name", Message: "required field is empty"}, wantCode: "VAL003"},
		{name: "invalid enum", err: ValidationError{Field: "status", Message: "invalid enum value: must be one of a, b"}, wantCode: "VAL004"},
		{name: "invalid email", err: ValidationError{Field: "email", Message: "invalid email address"}, wantCode: "VAL005"},
		{name: "out of range", err: ValidationError{Field: "rate", Message: "value out of range: must be at most 100"}, wantCode: "VAL006"},
		{name: "not editable", err: fmt.Errorf("%w: currency", tableview.ErrNotEditable), wantCode: "EDT001"},
		{name: "no edit", err: tableview.ErrNoEdit, wantCode: "EDT002"},
		{name: "row gone", err: fmt.Errorf("%w: 9", tableview.ErrUnknownRow), wantCode: "EDT003"},
		{name: "unknown column", err: fmt.Errorf("%w: bogus", tableview.ErrUnknownColumn), wantCode: "EDT004"},
		{name: "table not found", err: fmt.Errorf("%w: nope", ErrTableNotFound), wantCode: "TBL001"},
		{name: "unknown action", err: fmt.Errorf("%w: explode", ErrUnknownAction), wantCode: "TBL002"},
		{name: "record not found", err: fmt.Errorf("update: %w", store.ErrNotFound), wantCode: "TBL003"},
		{name: "invalid page size", err: fmt.Errorf("%w: 7", tableview.ErrInvalidPageSize), wantCode: "TBL004"},
		{name: "cancelled", err: context.Canceled, wantCode: "REQ001"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "REQ002"},
		{name: "rate limit", err: errors.New("rate limit exceeded"), wantCode: "RATE001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
		{name: "case insensitive matching", err: errors.New("DUPLICATE KEY value violates"), wantCode: "DB001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := ValidationError{Field: "rate", Message: "invalid number format"}
	result := FormatUserError(err)

	expected := "Invalid number format (Code: VAL002). Enter digits with an optional decimal point"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: tableview.ErrNoEdit, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("update: %w", store.ErrNotFound)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The record no longer exists" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, store.ErrNotFound) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
