package tableview

import "errors"

var (
	// ErrUnknownColumn is returned when a column id is not in the descriptor list.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateColumn is returned by New when two descriptors share an id.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrUnknownRow is returned when a row id is not in the current row set.
	ErrUnknownRow = errors.New("row not found")

	// ErrNotEditable is returned by BeginEdit for columns without Editable.
	ErrNotEditable = errors.New("column is not editable")

	// ErrNoEdit is returned when an edit operation runs with no cell in edit.
	ErrNoEdit = errors.New("no edit in progress")

	// ErrInvalidPageSize is returned for page sizes outside the configured set.
	ErrInvalidPageSize = errors.New("invalid page size")
)
