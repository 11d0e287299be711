package tableview

import (
	"context"
	"fmt"
	"strings"
)

// EditState identifies the single cell currently in edit.
type EditState struct {
	RowID    string `json:"rowId"`
	ColumnID string `json:"columnId"`
}

// EditCommit is delivered to Options.OnEditCommit. Value is the raw text the
// user typed; no coercion or validation has been applied.
type EditCommit struct {
	RowID    string
	ColumnID string
	Value    string
}

// CommitFunc persists one committed edit.
type CommitFunc func(ctx context.Context, c EditCommit) error

// EditSwitch decides what happens to a dirty draft when another cell
// enters edit.
type EditSwitch int

const (
	// SwitchCommit commits a modified draft before switching. Unmodified
	// drafts are dropped.
	SwitchCommit EditSwitch = iota

	// SwitchDiscard drops the draft without committing.
	SwitchDiscard
)

// ParseEditSwitch parses "commit" or "discard".
func ParseEditSwitch(s string) (EditSwitch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "commit":
		return SwitchCommit, nil
	case "discard":
		return SwitchDiscard, nil
	default:
		return SwitchCommit, fmt.Errorf("unknown edit switch policy %q", s)
	}
}

func (p EditSwitch) String() string {
	if p == SwitchDiscard {
		return "discard"
	}
	return "commit"
}

// editSession is the staged draft for the cell in edit.
type editSession struct {
	cell   EditState
	staged string
	draft  string
}

func (s *editSession) dirty() bool {
	return s.draft != s.staged
}

func (s *editSession) commit() EditCommit {
	return EditCommit{RowID: s.cell.RowID, ColumnID: s.cell.ColumnID, Value: s.draft}
}
