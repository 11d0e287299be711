package tables

import (
	"context"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// AuditTimeLayout sorts lexically in time order.
const AuditTimeLayout = "2006-01-02 15:04:05"

var (
	auditActionTones = map[string]tableview.Tone{
		string(core.ActionCellEdit):     tableview.ToneDefault,
		string(core.ActionRowAction):    tableview.ToneWarning,
		string(core.ActionEditRejected): tableview.ToneMuted,
	}
	auditSeverityTones = map[string]tableview.Tone{
		string(core.SeverityLow):      tableview.ToneMuted,
		string(core.SeverityMedium):   tableview.ToneDefault,
		string(core.SeverityHigh):     tableview.ToneWarning,
		string(core.SeverityCritical): tableview.ToneDanger,
	}
)

// auditRow converts an audit entry into a table row keyed by entry id.
func auditRow(e core.AuditEntry) tableview.Row {
	return tableview.Row{
		"id":         e.ID,
		"createdAt":  e.CreatedAt.Format(AuditTimeLayout),
		"action":     string(e.Action),
		"severity":   string(e.Severity),
		"table":      e.TableKey,
		"row":        e.RowKey,
		"column":     e.ColumnName,
		"oldValue":   e.OldValue,
		"newValue":   e.NewValue,
		"detail":     e.Reason,
		"session":    e.SessionID,
		"actionName": e.ActionID,
	}
}

func registerAuditLog() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "audit_log",
			Group:       GroupSystem,
			Label:       "Audit Log",
			Description: "Edits and row actions recorded this run",
			Order:       1,
			Searchable:  true,
		},
		Columns: []tableview.Column{
			{ID: "createdAt", Label: "When"},
			{ID: "action", Label: "Action", Formatter: badge(auditActionTones)},
			{ID: "severity", Label: "Severity", Formatter: badge(auditSeverityTones)},
			{ID: "table", Label: "Table"},
			{ID: "row", Label: "Row"},
			{ID: "column", Label: "Column", Formatter: optional},
			{ID: "oldValue", Label: "Old", Formatter: optional},
			{ID: "newValue", Label: "New", Formatter: optional},
			{ID: "detail", Label: "Detail", Formatter: optional},
		},
		DefaultSort: tableview.SortState{ColumnID: "createdAt", Direction: tableview.Desc},
		Load: func(_ context.Context, src core.Sources) ([]tableview.Row, error) {
			entries := src.Audit.Query(core.AuditLogFilter{})
			rows := make([]tableview.Row, len(entries))
			for i, e := range entries {
				rows[i] = auditRow(e)
			}
			return rows, nil
		},
	})
}
