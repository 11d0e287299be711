package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/backoffice/internal/domain"
	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// CommitTimeout bounds a single cell write or row action.
var CommitTimeout = 10 * time.Second

var (
	// ErrTableNotFound is returned for unregistered table keys.
	ErrTableNotFound = errors.New("table not found")

	// ErrUnknownAction is returned for action ids a table does not define.
	ErrUnknownAction = errors.New("unknown action")

	// ErrActionNotApplicable is returned when an action does not apply to a row.
	ErrActionNotApplicable = errors.New("action not applicable")
)

// Options are the view defaults every opened table starts from.
type Options struct {
	PageSize        int
	PageSizes       []int
	ResetPageOnSort bool
	EditSwitch      tableview.EditSwitch
	Locale          language.Tag
}

// Service provides table loading, validated cell writes and row actions.
// It is safe for concurrent use; the tables it opens are not.
type Service struct {
	store store.Store
	audit *AuditLog
	opts  Options
}

// NewService creates a new Service instance.
func NewService(st store.Store, audit *AuditLog, opts Options) *Service {
	if audit == nil {
		audit = NewAuditLog(0)
	}
	return &Service{store: st, audit: audit, opts: opts}
}

// AuditLog returns the audit trail written by the service.
func (s *Service) AuditLog() *AuditLog {
	return s.audit
}

// ListTables returns information about all registered tables.
func (s *Service) ListTables() []TableInfo {
	defs := All()
	infos := make([]TableInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// ListTablesByGroup returns tables organized by group.
func (s *Service) ListTablesByGroup() map[string][]TableInfo {
	result := make(map[string][]TableInfo)
	for _, group := range Groups() {
		for _, def := range ByGroup(group) {
			result[group] = append(result[group], def.Info)
		}
	}
	return result
}

// Definition returns the registered definition for key.
func (s *Service) Definition(key string) (TableDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return TableDefinition{}, fmt.Errorf("%w: %s", ErrTableNotFound, key)
	}
	return def, nil
}

// Rows loads the full row sequence for a table.
func (s *Service) Rows(ctx context.Context, key string) ([]tableview.Row, error) {
	def, err := s.Definition(key)
	if err != nil {
		return nil, err
	}
	rows, err := def.Load(ctx, Sources{Store: s.store, Audit: s.audit})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return rows, nil
}

// Table is one open table: its definition plus the engine holding the
// view state. Callers serialize access.
type Table struct {
	Def    TableDefinition
	Engine *tableview.Engine

	svc *Service
}

// OpenTable loads a table and wraps it in a fresh engine. Committed edits
// are validated and written through CommitCell, after which the engine is
// given the reloaded rows.
func (s *Service) OpenTable(ctx context.Context, key string) (*Table, error) {
	def, err := s.Definition(key)
	if err != nil {
		return nil, err
	}
	rows, err := s.Rows(ctx, key)
	if err != nil {
		return nil, err
	}

	t := &Table{Def: def, svc: s}
	eng, err := tableview.New(def.Columns, rows, tableview.Options{
		DefaultSort:     def.DefaultSort,
		PageSize:        s.opts.PageSize,
		PageSizes:       s.opts.PageSizes,
		ResetPageOnSort: s.opts.ResetPageOnSort,
		EditSwitch:      s.opts.EditSwitch,
		Locale:          s.opts.Locale,
		OnEditCommit:    t.commit,
		RowActions:      def.RowActions(),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	t.Engine = eng
	return t, nil
}

// commit writes c and refreshes the rows. Once the write has landed a
// failed reload is only logged: the engine must not treat the edit as
// uncommitted and deliver it again.
func (t *Table) commit(ctx context.Context, c tableview.EditCommit) error {
	if err := t.svc.CommitCell(ctx, t.Def.Info.Key, c); err != nil {
		return err
	}
	if err := t.Reload(ctx); err != nil {
		logging.WithFields(ctx, "table", t.Def.Info.Key, "row", c.RowID, "column", c.ColumnID).
			Warn("reload after commit failed", "error", err)
	}
	return nil
}

// Reload fetches fresh rows into the engine, keeping sort, search and
// page state.
func (t *Table) Reload(ctx context.Context) error {
	rows, err := t.svc.Rows(ctx, t.Def.Info.Key)
	if err != nil {
		return err
	}
	t.Engine.SetRows(rows)
	return nil
}

// RunAction runs a row action against the row currently shown and reloads.
func (t *Table) RunAction(ctx context.Context, rowID, actionID string) error {
	row, ok := t.Engine.Row(rowID)
	if !ok {
		return fmt.Errorf("%w: %s", tableview.ErrUnknownRow, rowID)
	}
	if err := t.svc.RunAction(ctx, t.Def.Info.Key, row, actionID); err != nil {
		return err
	}
	return t.Reload(ctx)
}

// CommitCell validates a committed draft against the column's FieldSpec
// and writes it to the store. Every outcome is audited; rejected input is
// returned as a ValidationError.
func (s *Service) CommitCell(ctx context.Context, key string, c tableview.EditCommit) error {
	def, err := s.Definition(key)
	if err != nil {
		return err
	}
	spec, ok := def.Spec(c.ColumnID)
	if !ok {
		return fmt.Errorf("%w: %s", tableview.ErrNotEditable, c.ColumnID)
	}
	logger := logging.WithFields(ctx, "table", key, "row", c.RowID, "column", c.ColumnID)

	value, err := ParseCell(c.Value, spec)
	if err != nil {
		s.audit.Log(ctx, AuditLogParams{
			Action:     ActionEditRejected,
			TableKey:   key,
			RowKey:     c.RowID,
			ColumnName: c.ColumnID,
			NewValue:   c.Value,
			Reason:     err.Error(),
		})
		logger.Info("edit rejected", "error", err)
		return err
	}

	id, err := domain.ParseRowID(c.RowID)
	if err != nil {
		return fmt.Errorf("%w: %s", tableview.ErrUnknownRow, c.RowID)
	}

	ctx, cancel := context.WithTimeout(ctx, CommitTimeout)
	defer cancel()

	old, err := s.store.UpdateField(ctx, def.Entity, id, spec.StoreField(), value)
	if err != nil {
		logger.Error("edit failed", "error", err)
		return fmt.Errorf("update %s: %w", c.ColumnID, err)
	}

	newValue := tableview.FormatValue(value)
	s.audit.Log(ctx, AuditLogParams{
		Action:     ActionCellEdit,
		TableKey:   key,
		RowKey:     c.RowID,
		ColumnName: c.ColumnID,
		OldValue:   old,
		NewValue:   newValue,
	})
	logger.Info("edit committed", "old", old, "new", newValue)
	return nil
}

// RunAction performs a row action on row and audits it.
func (s *Service) RunAction(ctx context.Context, key string, row tableview.Row, actionID string) error {
	def, err := s.Definition(key)
	if err != nil {
		return err
	}
	action, ok := def.Action(actionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
	}
	if action.Applies != nil && !action.Applies(row) {
		return fmt.Errorf("%w: %s on row %s", ErrActionNotApplicable, actionID, row.ID())
	}
	id, err := domain.ParseRowID(row.ID())
	if err != nil {
		return fmt.Errorf("%w: %s", tableview.ErrUnknownRow, row.ID())
	}

	ctx, cancel := context.WithTimeout(ctx, CommitTimeout)
	defer cancel()

	logger := logging.WithFields(ctx, "table", key, "row", row.ID(), "action", actionID)
	detail, err := action.Run(ctx, s.store, id, row)
	if err != nil {
		logger.Error("row action failed", "error", err)
		return fmt.Errorf("%s: %w", actionID, err)
	}

	s.audit.Log(ctx, AuditLogParams{
		Action:   ActionRowAction,
		TableKey: key,
		RowKey:   row.ID(),
		ActionID: actionID,
		Reason:   detail,
	})
	logger.Info("row action completed", "detail", detail)
	return nil
}
