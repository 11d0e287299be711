package core

import (
	"context"
	"regexp"

	"github.com/JonMunkholm/backoffice/internal/domain"
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// FieldType represents the expected data type for an editable cell.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldPercent
	FieldEmail
)

// FieldSpec defines validation rules for one editable column.
type FieldSpec struct {
	Name       string              // Column id the spec applies to
	Field      string              // Store field name (defaults to Name)
	Type       FieldType           // Expected data type
	Required   bool                // Empty input is rejected
	MaxLen     int                 // Maximum rune length for text (0 = unlimited)
	EnumValues []string            // Valid values for FieldEnum type
	Pattern    *regexp.Regexp      // Optional format check applied after normalizing
	PatternMsg string              // Message used when Pattern does not match
	Min        string              // Optional inclusive lower bound for numbers
	Max        string              // Optional inclusive upper bound for numbers
	Normalizer func(string) string // Optional transformation function
}

// StoreField returns the store field the spec writes to.
func (s FieldSpec) StoreField() string {
	if s.Field != "" {
		return s.Field
	}
	return s.Name
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key         string `json:"key"`         // Unique identifier: "unallocated_deposits"
	Group       string `json:"group"`       // Navigation group: "Dashboard", "Reference"
	Label       string `json:"label"`       // Display name: "Unallocated Deposits"
	Description string `json:"description"` // One-line summary shown under the title
	Order       int    `json:"order"`       // Position within the group
	Searchable  bool   `json:"searchable"`  // Shows the search box
}

// Sources are the collaborators a table loads rows from.
type Sources struct {
	Store store.Store
	Audit *AuditLog
}

// LoadFunc fetches the full row sequence for a table.
type LoadFunc func(ctx context.Context, src Sources) ([]tableview.Row, error)

// ActionFunc performs a row action on the record with the given id and
// returns a short description for the audit log. row is the row as shown.
type ActionFunc func(ctx context.Context, st store.Store, id int, row tableview.Row) (string, error)

// ActionDefinition is a button rendered in the trailing actions column.
type ActionDefinition struct {
	ID      string
	Label   string
	Tone    tableview.Tone
	Applies func(row tableview.Row) bool // nil means every row
	Run     ActionFunc
}

// TableDefinition holds everything needed to show and edit one table.
type TableDefinition struct {
	Info        TableInfo
	Entity      domain.Entity // Store entity edits are written to
	Columns     []tableview.Column
	DefaultSort tableview.SortState
	FieldSpecs  []FieldSpec
	Load        LoadFunc
	Actions     []ActionDefinition
}

// Spec returns the field spec for an editable column.
func (d TableDefinition) Spec(columnID string) (FieldSpec, bool) {
	for _, s := range d.FieldSpecs {
		if s.Name == columnID {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// Action returns the action with the given id.
func (d TableDefinition) Action(id string) (ActionDefinition, bool) {
	for _, a := range d.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return ActionDefinition{}, false
}

// RowActions builds the engine callback listing actions that apply to a row.
func (d TableDefinition) RowActions() tableview.RowActions {
	if len(d.Actions) == 0 {
		return nil
	}
	return func(row tableview.Row) []tableview.Action {
		var out []tableview.Action
		for _, a := range d.Actions {
			if a.Applies != nil && !a.Applies(row) {
				continue
			}
			out = append(out, tableview.Action{ID: a.ID, Label: a.Label, Tone: a.Tone})
		}
		return out
	}
}

// ReadOnly reports whether the table has no editable columns.
func (d TableDefinition) ReadOnly() bool {
	return len(d.FieldSpecs) == 0
}
