// Package tableview implements the sortable, searchable, paginated table
// engine used by every list screen in the console.
//
// An [Engine] owns the transient state of one table instance:
//
//   - Sort state: exactly one active (column, direction) pair.
//   - Pagination state: a page index and a page size drawn from a fixed set.
//   - Edit state: at most one cell presenting an inline editor.
//
// The engine never mutates the rows it is given. Edits are delegated to the
// caller through [Options.OnEditCommit], which receives the raw draft text;
// validation and persistence are the caller's job. After a commit the caller
// reloads its data and hands the new sequence back with [Engine.SetRows].
//
// # Derivation
//
// Every call to [Engine.View] derives the visible window from scratch:
//
//  1. Rows are filtered by the search query ([MatchRow]).
//  2. The filtered rows are stably sorted ([Sorter.Sort]). Numeric values
//     compare numerically, strings compare with locale-aware collation and
//     any other pairing compares equal, so its input order is kept.
//  3. The sorted rows are windowed ([Paginate]).
//
// Steps 1 and 2 are memoized per row-set version, so repeated renders of an
// unchanged table do not re-sort.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. The web layer keeps one engine
// per session and table and serializes access to it.
package tableview
