package core

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/JonMunkholm/backoffice/internal/domain"
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

var testSwift = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)

// registerBanks registers a small bank table over a fresh memory store.
func registerBanks(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	Register(TableDefinition{
		Info:   TableInfo{Key: "banks", Group: "Reference", Label: "Banks"},
		Entity: domain.EntityBank,
		Columns: []tableview.Column{
			{ID: "id", Label: "ID", Numeric: true},
			{ID: "name", Label: "Name"},
			{ID: "swift", Label: "SWIFT"},
			{ID: "active", Label: "Active"},
		},
		DefaultSort: tableview.SortState{ColumnID: "name", Direction: tableview.Asc},
		FieldSpecs: []FieldSpec{
			{Name: "name", Type: FieldText, Required: true, MaxLen: 40},
			{Name: "swift", Type: FieldText, Required: true, Normalizer: strings.ToUpper, Pattern: testSwift, PatternMsg: "8 or 11 character BIC"},
		},
		Load: func(ctx context.Context, src Sources) ([]tableview.Row, error) {
			banks, err := src.Store.Banks(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]tableview.Row, len(banks))
			for i, b := range banks {
				rows[i] = b.Row()
			}
			return rows, nil
		},
		Actions: []ActionDefinition{{
			ID:      "rename",
			Label:   "Rename",
			Applies: func(r tableview.Row) bool { return r["active"] == true },
			Run: func(ctx context.Context, st store.Store, id int, _ tableview.Row) (string, error) {
				old, err := st.UpdateField(ctx, domain.EntityBank, id, "name", "Renamed Bank")
				if err != nil {
					return "", err
				}
				return "renamed from " + old, nil
			},
		}},
	})

	mem := store.NewMemory(store.Dataset{Banks: []domain.Bank{
		{ID: 1, Name: "Nordic Trust Bank", Swift: "NTBKDKKK", Country: "DK", Active: true},
		{ID: 2, Name: "Alpine Savings", Swift: "ALPSCHZZ", Country: "CH"},
	}})
	svc := NewService(mem, NewAuditLog(0), Options{PageSize: 10, ResetPageOnSort: true})
	return svc, mem
}

func bankName(t *testing.T, mem *store.Memory, id int) string {
	t.Helper()
	banks, err := mem.Banks(context.Background())
	if err != nil {
		t.Fatalf("Banks() error = %v", err)
	}
	for _, b := range banks {
		if b.ID == id {
			return b.Name
		}
	}
	t.Fatalf("bank %d not found", id)
	return ""
}

func TestService_ListTables(t *testing.T) {
	svc, _ := registerBanks(t)

	infos := svc.ListTables()
	if len(infos) != 1 || infos[0].Key != "banks" {
		t.Errorf("ListTables() = %v, want [banks]", infos)
	}
	byGroup := svc.ListTablesByGroup()
	if len(byGroup["Reference"]) != 1 {
		t.Errorf("ListTablesByGroup()[Reference] = %v, want 1 table", byGroup["Reference"])
	}
	if _, err := svc.Definition("nope"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Definition(nope) error = %v, want ErrTableNotFound", err)
	}
}

func TestService_CommitCell(t *testing.T) {
	svc, mem := registerBanks(t)
	ctx := ContextWithSession(context.Background(), "s1")

	err := svc.CommitCell(ctx, "banks", tableview.EditCommit{RowID: "2", ColumnID: "name", Value: "  Alpine Bank "})
	if err != nil {
		t.Fatalf("CommitCell() error = %v", err)
	}
	if got := bankName(t, mem, 2); got != "Alpine Bank" {
		t.Errorf("name = %q, want %q", got, "Alpine Bank")
	}

	entries := svc.AuditLog().Query(AuditLogFilter{Action: ActionCellEdit})
	if len(entries) != 1 {
		t.Fatalf("cell_edit entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.OldValue != "Alpine Savings" || e.NewValue != "Alpine Bank" || e.SessionID != "s1" {
		t.Errorf("audit entry = %+v", e)
	}
}

func TestService_CommitCellNormalizes(t *testing.T) {
	svc, _ := registerBanks(t)

	err := svc.CommitCell(context.Background(), "banks", tableview.EditCommit{RowID: "1", ColumnID: "swift", Value: "ntbkdkkkxxx"})
	if err != nil {
		t.Fatalf("CommitCell() error = %v", err)
	}
	e := svc.AuditLog().Query(AuditLogFilter{})[0]
	if e.NewValue != "NTBKDKKKXXX" {
		t.Errorf("NewValue = %q, want %q", e.NewValue, "NTBKDKKKXXX")
	}
}

func TestService_CommitCellRejects(t *testing.T) {
	svc, mem := registerBanks(t)

	tests := []struct {
		name   string
		commit tableview.EditCommit
		check  func(error) bool
	}{
		{
			name:   "validation",
			commit: tableview.EditCommit{RowID: "1", ColumnID: "swift", Value: "bad"},
			check:  func(err error) bool { var ve ValidationError; return errors.As(err, &ve) },
		},
		{
			name:   "required",
			commit: tableview.EditCommit{RowID: "1", ColumnID: "name", Value: " "},
			check:  func(err error) bool { var ve ValidationError; return errors.As(err, &ve) },
		},
		{
			name:   "read-only column",
			commit: tableview.EditCommit{RowID: "1", ColumnID: "active", Value: "false"},
			check:  func(err error) bool { return errors.Is(err, tableview.ErrNotEditable) },
		},
		{
			name:   "bad row id",
			commit: tableview.EditCommit{RowID: "x", ColumnID: "name", Value: "Y"},
			check:  func(err error) bool { return errors.Is(err, tableview.ErrUnknownRow) },
		},
		{
			name:   "missing record",
			commit: tableview.EditCommit{RowID: "99", ColumnID: "name", Value: "Y"},
			check:  func(err error) bool { return errors.Is(err, store.ErrNotFound) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CommitCell(context.Background(), "banks", tt.commit)
			if err == nil || !tt.check(err) {
				t.Errorf("CommitCell() error = %v", err)
			}
		})
	}

	if got := bankName(t, mem, 1); got != "Nordic Trust Bank" {
		t.Errorf("name changed to %q after rejected edits", got)
	}
	if n := len(svc.AuditLog().Query(AuditLogFilter{Action: ActionEditRejected})); n != 2 {
		t.Errorf("edit_rejected entries = %d, want 2", n)
	}
	if n := len(svc.AuditLog().Query(AuditLogFilter{Action: ActionCellEdit})); n != 0 {
		t.Errorf("cell_edit entries = %d, want 0", n)
	}
}

func TestTable_CommitReloadsRows(t *testing.T) {
	svc, _ := registerBanks(t)
	ctx := context.Background()

	table, err := svc.OpenTable(ctx, "banks")
	if err != nil {
		t.Fatalf("OpenTable() error = %v", err)
	}
	if err := table.Engine.BeginEdit(ctx, "2", "name", "Alpine Savings"); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	if err := table.Engine.SetDraft("Zurich Savings"); err != nil {
		t.Fatalf("SetDraft() error = %v", err)
	}
	if err := table.Engine.CommitEdit(ctx); err != nil {
		t.Fatalf("CommitEdit() error = %v", err)
	}

	if _, editing := table.Engine.Editing(); editing {
		t.Error("edit still open after commit")
	}
	rows := table.Engine.Visible()
	if len(rows) != 2 || rows[1]["name"] != "Zurich Savings" {
		t.Errorf("visible rows after commit = %v, want Zurich Savings sorted last", rows)
	}
}

func TestTable_CommitValidationErrorKeepsRows(t *testing.T) {
	svc, _ := registerBanks(t)
	ctx := context.Background()

	table, err := svc.OpenTable(ctx, "banks")
	if err != nil {
		t.Fatalf("OpenTable() error = %v", err)
	}
	if err := table.Engine.BeginEdit(ctx, "1", "swift", "NTBKDKKK"); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	_ = table.Engine.SetDraft("??")

	err = table.Engine.CommitEdit(ctx)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("CommitEdit() error = %v, want ValidationError", err)
	}
	if _, editing := table.Engine.Editing(); editing {
		t.Error("edit still open after failed commit")
	}
	row, _ := table.Engine.Row("1")
	if row["swift"] != "NTBKDKKK" {
		t.Errorf("swift = %v, want unchanged", row["swift"])
	}
}

// listFailingStore fails every bank listing once a write has gone through.
type listFailingStore struct {
	store.Store
	written bool
}

func (s *listFailingStore) UpdateField(ctx context.Context, entity domain.Entity, id int, field string, value any) (string, error) {
	old, err := s.Store.UpdateField(ctx, entity, id, field, value)
	if err == nil {
		s.written = true
	}
	return old, err
}

func (s *listFailingStore) Banks(ctx context.Context) ([]domain.Bank, error) {
	if s.written {
		return nil, context.DeadlineExceeded
	}
	return s.Store.Banks(ctx)
}

func TestTable_SwitchCommitSurvivesFailedReload(t *testing.T) {
	_, mem := registerBanks(t)
	st := &listFailingStore{Store: mem}
	svc := NewService(st, NewAuditLog(0), Options{PageSize: 10, EditSwitch: tableview.SwitchCommit})
	ctx := context.Background()

	table, err := svc.OpenTable(ctx, "banks")
	if err != nil {
		t.Fatalf("OpenTable() error = %v", err)
	}
	if err := table.Engine.BeginEdit(ctx, "1", "name", "Nordic Trust Bank"); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	_ = table.Engine.SetDraft("Nordic Bank")

	if err := table.Engine.BeginEdit(ctx, "2", "name", "Alpine Savings"); err != nil {
		t.Fatalf("BeginEdit() switching after write error = %v, want nil", err)
	}
	if got := bankName(t, mem, 1); got != "Nordic Bank" {
		t.Errorf("stored name = %q, want %q", got, "Nordic Bank")
	}
	cell, editing := table.Engine.Editing()
	if !editing || cell.RowID != "2" {
		t.Errorf("Editing() = %+v, %v, want row 2 in edit", cell, editing)
	}

	table.Engine.CancelEdit()
	entries := svc.AuditLog().Query(AuditLogFilter{Action: ActionCellEdit})
	if len(entries) != 1 {
		t.Errorf("cell_edit entries = %d, want 1", len(entries))
	}
}

func TestTable_RunAction(t *testing.T) {
	svc, mem := registerBanks(t)
	ctx := context.Background()

	table, err := svc.OpenTable(ctx, "banks")
	if err != nil {
		t.Fatalf("OpenTable() error = %v", err)
	}

	if err := table.RunAction(ctx, "2", "rename"); !errors.Is(err, ErrActionNotApplicable) {
		t.Errorf("RunAction on inactive bank error = %v, want ErrActionNotApplicable", err)
	}
	if err := table.RunAction(ctx, "1", "delete"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("RunAction(delete) error = %v, want ErrUnknownAction", err)
	}
	if err := table.RunAction(ctx, "42", "rename"); !errors.Is(err, tableview.ErrUnknownRow) {
		t.Errorf("RunAction on missing row error = %v, want ErrUnknownRow", err)
	}

	if err := table.RunAction(ctx, "1", "rename"); err != nil {
		t.Fatalf("RunAction() error = %v", err)
	}
	if got := bankName(t, mem, 1); got != "Renamed Bank" {
		t.Errorf("name = %q, want %q", got, "Renamed Bank")
	}
	row, _ := table.Engine.Row("1")
	if row["name"] != "Renamed Bank" {
		t.Errorf("engine row name = %v, want reloaded value", row["name"])
	}

	entries := svc.AuditLog().Query(AuditLogFilter{Action: ActionRowAction})
	if len(entries) != 1 || entries[0].Reason != "renamed from Nordic Trust Bank" {
		t.Errorf("row_action entries = %+v", entries)
	}
}

func TestService_OpenTableUnknown(t *testing.T) {
	svc, _ := registerBanks(t)
	if _, err := svc.OpenTable(context.Background(), "ledger"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("OpenTable(ledger) error = %v, want ErrTableNotFound", err)
	}
}
