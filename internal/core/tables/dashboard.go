package tables

import (
	"context"
	"fmt"
	"regexp"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/domain"
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

var (
	txStatusTones = map[string]tableview.Tone{
		string(domain.TxPending):  tableview.ToneWarning,
		string(domain.TxCleared):  tableview.ToneSuccess,
		string(domain.TxFailed):   tableview.ToneDanger,
		string(domain.TxReversed): tableview.ToneMuted,
	}
	batchStatusTones = map[string]tableview.Tone{
		string(domain.BatchPending):  tableview.ToneWarning,
		string(domain.BatchReleased): tableview.ToneSuccess,
		string(domain.BatchFailed):   tableview.ToneDanger,
	}
	referencePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/_.-]*$`)
)

func registerUnallocatedDeposits() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "unallocated_deposits",
			Group:       GroupDashboard,
			Label:       "Unallocated Deposits",
			Description: "Incoming payments not yet matched to a client",
			Order:       1,
		},
		Entity: domain.EntityDeposit,
		Columns: []tableview.Column{
			{ID: "reference", Label: "Reference"},
			{ID: "payer", Label: "Payer"},
			{ID: "amount", Label: "Amount", Numeric: true, Formatter: money("currency")},
			{ID: "bank", Label: "Bank"},
			{ID: "receivedAt", Label: "Received"},
			{ID: "notes", Label: "Notes", Formatter: optional},
		},
		DefaultSort: tableview.SortState{ColumnID: "receivedAt", Direction: tableview.Desc},
		FieldSpecs: []core.FieldSpec{
			{Name: "reference", Type: core.FieldText, Required: true, MaxLen: 35,
				Pattern: referencePattern, PatternMsg: "letters, digits and / _ . -"},
			{Name: "notes", Type: core.FieldText, MaxLen: 500},
		},
		Load: func(ctx context.Context, src core.Sources) ([]tableview.Row, error) {
			deposits, err := src.Store.Deposits(ctx, domain.DepositUnallocated)
			return rowsOf(deposits, err)
		},
		Actions: []core.ActionDefinition{
			{
				ID:    "match",
				Label: "Match",
				Tone:  tableview.ToneSuccess,
				Run:   matchDeposit,
			},
		},
	})
}

// matchDeposit allocates a deposit to its payer.
func matchDeposit(ctx context.Context, st store.Store, id int, row tableview.Row) (string, error) {
	payer, _ := row["payer"].(string)
	if payer == "" {
		return "", fmt.Errorf("deposit %d has no payer to allocate to", id)
	}
	if _, err := st.UpdateField(ctx, domain.EntityDeposit, id, "allocatedTo", payer); err != nil {
		return "", err
	}
	if _, err := st.SetStatus(ctx, domain.EntityDeposit, id, string(domain.DepositAllocated)); err != nil {
		return "", err
	}
	return fmt.Sprintf("allocated %s to %s", tableview.FormatValue(row["reference"]), payer), nil
}

func transactionColumns() []tableview.Column {
	return []tableview.Column{
		{ID: "reference", Label: "Reference"},
		{ID: "bookedAt", Label: "Booked"},
		{ID: "type", Label: "Type"},
		{ID: "description", Label: "Description"},
		{ID: "counterparty", Label: "Counterparty"},
		{ID: "amount", Label: "Amount", Numeric: true, Formatter: money("currency")},
		{ID: "fee", Label: "Fee", Numeric: true, Formatter: money("currency")},
		{ID: "status", Label: "Status", Formatter: badge(txStatusTones)},
	}
}

func registerTransactions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "transactions",
			Group:       GroupDashboard,
			Label:       "Transactions",
			Description: "Ledger movements from the last six months",
			Order:       2,
			Searchable:  true,
		},
		Entity:      domain.EntityTransaction,
		Columns:     transactionColumns(),
		DefaultSort: tableview.SortState{ColumnID: "bookedAt", Direction: tableview.Desc},
		FieldSpecs: []core.FieldSpec{
			{Name: "description", Type: core.FieldText, Required: true, MaxLen: 140},
			{Name: "status", Type: core.FieldEnum, Required: true, EnumValues: domain.TransactionStatuses},
		},
		Load: func(ctx context.Context, src core.Sources) ([]tableview.Row, error) {
			txs, err := src.Store.Transactions(ctx, false)
			return rowsOf(txs, err)
		},
	})
}

func registerArchive() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "archive",
			Group:       GroupDashboard,
			Label:       "Archive",
			Description: "Search archived transactions",
			Order:       4,
			Searchable:  true,
		},
		Entity:      domain.EntityTransaction,
		Columns:     transactionColumns(),
		DefaultSort: tableview.SortState{ColumnID: "bookedAt", Direction: tableview.Desc},
		Load: func(ctx context.Context, src core.Sources) ([]tableview.Row, error) {
			txs, err := src.Store.Transactions(ctx, true)
			return rowsOf(txs, err)
		},
	})
}

func registerWithdrawalBatches() {
	pending := func(row tableview.Row) bool {
		return row["status"] == string(domain.BatchPending)
	}
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "withdrawal_batches",
			Group:       GroupDashboard,
			Label:       "Withdrawal Batches",
			Description: "Scheduled payout batches",
			Order:       3,
		},
		Entity: domain.EntityWithdrawalBatch,
		Columns: []tableview.Column{
			{ID: "batchNumber", Label: "Batch"},
			{ID: "scheduledFor", Label: "Scheduled"},
			{ID: "beneficiaryCount", Label: "Payees", Numeric: true},
			{ID: "grossAmount", Label: "Gross", Numeric: true, Formatter: money("currency")},
			{ID: "fees", Label: "Fees", Numeric: true, Formatter: money("currency")},
			{ID: "netAmount", Label: "Net", Numeric: true, Formatter: money("currency")},
			{ID: "status", Label: "Status", Formatter: badge(batchStatusTones)},
			{ID: "notes", Label: "Notes", Formatter: optional},
		},
		DefaultSort: tableview.SortState{ColumnID: "scheduledFor", Direction: tableview.Desc},
		FieldSpecs: []core.FieldSpec{
			{Name: "grossAmount", Type: core.FieldNumeric, Required: true, Min: "0.01"},
			{Name: "notes", Type: core.FieldText, MaxLen: 500},
		},
		Load: func(ctx context.Context, src core.Sources) ([]tableview.Row, error) {
			batches, err := src.Store.WithdrawalBatches(ctx)
			return rowsOf(batches, err)
		},
		Actions: []core.ActionDefinition{
			{
				ID:      "release",
				Label:   "Release",
				Tone:    tableview.ToneWarning,
				Applies: pending,
				Run: func(ctx context.Context, st store.Store, id int, row tableview.Row) (string, error) {
					if _, err := st.SetStatus(ctx, domain.EntityWithdrawalBatch, id, string(domain.BatchReleased)); err != nil {
						return "", err
					}
					return fmt.Sprintf("released batch %s", tableview.FormatValue(row["batchNumber"])), nil
				},
			},
		},
	})
}

// rower is implemented by every domain entity.
type rower interface {
	Row() tableview.Row
}

func rowsOf[T rower](items []T, err error) ([]tableview.Row, error) {
	if err != nil {
		return nil, err
	}
	rows := make([]tableview.Row, len(items))
	for i, it := range items {
		rows[i] = it.Row()
	}
	return rows, nil
}
