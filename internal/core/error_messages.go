package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference. Users quote the code; support staff look it
// up here.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key            Patterns: "duplicate key"
//	DB002 - Unique constraint        Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key              Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused       Patterns: "connection refused"
//	DB005 - Connection reset         Patterns: "connection reset"
//	DB006 - Timeout                  Patterns: "timeout"
//	DB007 - Deadlock                 Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
// Raised when an inline edit does not fit the column's FieldSpec:
//
//	VAL001 - Invalid date            Patterns: "invalid date"
//	VAL002 - Invalid number          Patterns: "invalid number"
//	VAL003 - Required field          Patterns: "required field"
//	VAL004 - Invalid enum            Patterns: "invalid enum"
//	VAL005 - Invalid email           Patterns: "invalid email"
//	VAL006 - Out of range            Patterns: "out of range"
//	VAL007 - Too long                Patterns: "too long"
//	VAL008 - Invalid format          Patterns: "invalid format"
//
// # Edit Errors (EDT001-EDT099)
//
//	EDT001 - Column not editable     Patterns: "not editable"
//	EDT002 - No edit in progress     Patterns: "no edit in progress"
//	EDT003 - Row gone                Patterns: "row not found"
//	EDT004 - Unknown column          Patterns: "unknown column"
//	EDT005 - Unknown field           Patterns: "unknown field"
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Table not found         Patterns: "table not found"
//	TBL002 - Unknown action          Patterns: "unknown action"
//	TBL003 - Record not found        Patterns: "record not found"
//	TBL004 - Invalid page size       Patterns: "invalid page size"
//	TBL005 - Action not applicable   Patterns: "action not applicable"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled       Patterns: "context canceled"
//	REQ002 - Request timeout         Patterns: "context deadline exceeded"
//	REQ003 - Session expired         Patterns: "session expired"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited           Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the application logs for the
// original technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors (DB001-DB007)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Reload the table and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check the related record still exists",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check the related record still exists",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL008)
	// =========================================================================
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format",
			Action:  "Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format",
			Action:  "Enter digits with an optional decimal point",
			Code:    "VAL002",
		},
	},
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "This field cannot be empty",
			Action:  "Enter a value or cancel the edit",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Pick one of the listed values",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid email",
		msg: UserMessage{
			Message: "Invalid email address",
			Action:  "Use the form name@example.com",
			Code:    "VAL005",
		},
	},
	{
		pattern: "out of range",
		msg: UserMessage{
			Message: "Value is outside the allowed range",
			Action:  "Check the minimum and maximum for this field",
			Code:    "VAL006",
		},
	},
	{
		pattern: "too long",
		msg: UserMessage{
			Message: "Value is too long",
			Action:  "Shorten the text and try again",
			Code:    "VAL007",
		},
	},
	{
		pattern: "invalid format",
		msg: UserMessage{
			Message: "Value is not in the expected format",
			Action:  "Check the hint shown in the editor",
			Code:    "VAL008",
		},
	},

	// =========================================================================
	// Edit Errors (EDT001-EDT005)
	// =========================================================================
	{
		pattern: "not editable",
		msg: UserMessage{
			Message: "This column cannot be edited",
			Action:  "Only highlighted columns accept edits",
			Code:    "EDT001",
		},
	},
	{
		pattern: "no edit in progress",
		msg: UserMessage{
			Message: "There is no open edit to save",
			Action:  "Click the cell again to start editing",
			Code:    "EDT002",
		},
	},
	{
		pattern: "row not found",
		msg: UserMessage{
			Message: "The row is no longer in this table",
			Action:  "Reload the table to see current data",
			Code:    "EDT003",
		},
	},
	{
		pattern: "unknown column",
		msg: UserMessage{
			Message: "Unknown column",
			Action:  "Reload the table and try again",
			Code:    "EDT004",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "This field cannot be changed",
			Action:  "Contact support if this keeps happening",
			Code:    "EDT005",
		},
	},

	// =========================================================================
	// Table Errors (TBL001-TBL005)
	// =========================================================================
	{
		pattern: "table not found",
		msg: UserMessage{
			Message: "Table not found",
			Action:  "Verify the table name is correct",
			Code:    "TBL001",
		},
	},
	{
		pattern: "unknown action",
		msg: UserMessage{
			Message: "Unknown row action",
			Action:  "Reload the table and try again",
			Code:    "TBL002",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "The record no longer exists",
			Action:  "Reload the table to see current data",
			Code:    "TBL003",
		},
	},
	{
		pattern: "invalid page size",
		msg: UserMessage{
			Message: "Unsupported page size",
			Action:  "Pick one of the page sizes offered",
			Code:    "TBL004",
		},
	},
	{
		pattern: "action not applicable",
		msg: UserMessage{
			Message: "This action does not apply to the row any more",
			Action:  "Reload the table to see current data",
			Code:    "TBL005",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ003)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again or check your connection",
			Code:    "REQ002",
		},
	},
	{
		pattern: "session expired",
		msg: UserMessage{
			Message: "Your session expired",
			Action:  "Reload the page to start a new session",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("rate: invalid number format")
//	msg := MapError(err)
//	// msg.Code == "VAL002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
