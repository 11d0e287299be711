// Package core provides the business logic behind the console tables.
//
// This package sits between the table engine and the surfaces (web, CLI,
// terminal). It holds no transport or rendering code, so web handlers, CLI
// commands and tests use it unchanged.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Table Definitions: Registered via the registry, each table has columns,
//     field specs for its editable cells, a row loader and row actions.
//   - Service: The main entry point for loading rows, committing cell edits
//     and running row actions.
//   - Audit: An in-memory trail of every committed edit, rejected edit and
//     row action, pruned by a retention job.
//
// # Table Registry
//
// Tables are registered at init time using [Register]. A column is
// editable exactly when the definition carries a [FieldSpec] for it:
//
//	core.Register(TableDefinition{
//	    Info:    TableInfo{Key: "banks", Group: "Reference", Label: "Banks"},
//	    Entity:  domain.EntityBank,
//	    Columns: bankColumns,
//	    FieldSpecs: []FieldSpec{
//	        {Name: "name", Required: true, Type: FieldText, MaxLen: 80},
//	    },
//	    Load: loadBanks,
//	})
//
// # Editing
//
// The engine hands committed drafts over as raw text. [Service.CommitCell]
// validates them with [ParseCell], writes the typed value to the store and
// records the previous value in the audit log. Rejected input is returned
// as a [ValidationError] and audited at low severity.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB007: Database errors (duplicates, constraints, connections)
//   - VAL001-VAL008: Validation errors (formats, ranges, lengths)
//   - EDT001-EDT005: Edit errors (read-only column, stale edit)
//   - TBL001-TBL005: Table errors (unknown table, action or record)
//   - REQ001-REQ003: Request errors (cancelled, timed out, session expired)
//
// # Audit Logging
//
// Entries carry a severity level:
//
//   - Low: Rejected edits
//   - Medium: Cell edits
//   - High: Row actions
package core
