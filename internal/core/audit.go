package core

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionCellEdit     AuditAction = "cell_edit"
	ActionEditRejected AuditAction = "edit_rejected"
	ActionRowAction    AuditAction = "row_action"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID         string        `json:"id"`
	Action     AuditAction   `json:"action"`
	Severity   AuditSeverity `json:"severity"`
	TableKey   string        `json:"tableKey"`
	SessionID  string        `json:"sessionId,omitempty"`
	IPAddress  string        `json:"ipAddress,omitempty"`
	UserAgent  string        `json:"userAgent,omitempty"`
	RowKey     string        `json:"rowKey,omitempty"`
	ColumnName string        `json:"columnName,omitempty"`
	OldValue   string        `json:"oldValue,omitempty"`
	NewValue   string        `json:"newValue,omitempty"`
	ActionID   string        `json:"actionId,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
// IP address, user agent and session id are taken from the context when
// left empty.
type AuditLogParams struct {
	Action     AuditAction
	TableKey   string
	IPAddress  string
	UserAgent  string
	RowKey     string
	ColumnName string
	OldValue   string
	NewValue   string
	ActionID   string
	Reason     string
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionRowAction:
		return SeverityHigh
	case ActionEditRejected:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// AuditLog is an in-memory, bounded, append-only audit trail.
// It is safe for concurrent use.
type AuditLog struct {
	mu         sync.RWMutex
	entries    []AuditEntry // oldest first
	maxEntries int
	now        func() time.Time
}

// NewAuditLog creates a log keeping at most maxEntries; the oldest entries
// are dropped first. maxEntries <= 0 means unbounded.
func NewAuditLog(maxEntries int) *AuditLog {
	return &AuditLog{maxEntries: maxEntries, now: time.Now}
}

// Log records an entry and returns it.
func (a *AuditLog) Log(ctx context.Context, params AuditLogParams) AuditEntry {
	if params.IPAddress == "" {
		params.IPAddress = GetIPAddressFromContext(ctx)
	}
	if params.UserAgent == "" {
		params.UserAgent = GetUserAgentFromContext(ctx)
	}

	entry := AuditEntry{
		ID:         uuid.NewString(),
		Action:     params.Action,
		Severity:   determineSeverity(params.Action),
		TableKey:   params.TableKey,
		SessionID:  GetSessionFromContext(ctx),
		IPAddress:  params.IPAddress,
		UserAgent:  params.UserAgent,
		RowKey:     params.RowKey,
		ColumnName: params.ColumnName,
		OldValue:   params.OldValue,
		NewValue:   params.NewValue,
		ActionID:   params.ActionID,
		Reason:     params.Reason,
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	entry.CreatedAt = a.now()
	a.entries = append(a.entries, entry)
	if a.maxEntries > 0 && len(a.entries) > a.maxEntries {
		a.entries = slices.Delete(a.entries, 0, len(a.entries)-a.maxEntries)
	}
	return entry
}

// AuditLogFilter contains filtering options for querying audit logs.
type AuditLogFilter struct {
	TableKey  string
	Action    AuditAction
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// Query returns matching entries, newest first.
func (a *AuditLog) Query(filter AuditLogFilter) []AuditEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []AuditEntry
	skipped := 0
	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		if filter.TableKey != "" && e.TableKey != filter.TableKey {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if !filter.StartTime.IsZero() && e.CreatedAt.Before(filter.StartTime) {
			continue
		}
		if !filter.EndTime.IsZero() && !e.CreatedAt.Before(filter.EndTime) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// Get returns the entry with the given id.
func (a *AuditLog) Get(id string) (AuditEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, e := range a.entries {
		if e.ID == id {
			return e, true
		}
	}
	return AuditEntry{}, false
}

// Len returns the number of retained entries.
func (a *AuditLog) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Prune drops entries created before cutoff and returns how many were removed.
func (a *AuditLog) Prune(cutoff time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Entries are appended in time order.
	n, _ := slices.BinarySearchFunc(a.entries, cutoff, func(e AuditEntry, t time.Time) int {
		return e.CreatedAt.Compare(t)
	})
	if n > 0 {
		a.entries = slices.Delete(a.entries, 0, n)
	}
	return n
}
