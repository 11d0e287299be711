package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/backoffice/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Seed loads ds with COPY when the banks table is empty. It reports
// whether any rows were written.
func (p *Postgres) Seed(ctx context.Context, ds Dataset) (bool, error) {
	var n int64
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM banks").Scan(&n); err != nil {
		return false, fmt.Errorf("count banks: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := p.Load(ctx, ds); err != nil {
		return false, err
	}
	return true, nil
}

// Clear deletes every record and restarts the id sequences.
func (p *Postgres) Clear(ctx context.Context) error {
	const q = `TRUNCATE banks, beneficiaries, fee_structures, transactions, deposits, withdrawal_batches
		RESTART IDENTITY CASCADE`
	if _, err := p.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// Load copies ds into the tables in one transaction.
func (p *Postgres) Load(ctx context.Context, ds Dataset) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	copies := []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{"banks", []string{"id", "name", "swift", "country", "currency", "active", "created_at"},
			mapRows(ds.Banks, func(b domain.Bank) []any {
				return []any{b.ID, b.Name, b.Swift, b.Country, b.Currency, b.Active, b.CreatedAt}
			})},
		{"beneficiaries", []string{"id", "name", "bank_id", "account_number", "email", "country", "status", "created_at"},
			mapRows(ds.Beneficiaries, func(b domain.Beneficiary) []any {
				return []any{b.ID, b.Name, b.BankID, b.AccountNumber, b.Email, b.Country, string(b.Status), b.CreatedAt}
			})},
		{"fee_structures", []string{"id", "name", "transaction_type", "rate", "flat_fee", "minimum", "maximum", "currency", "effective_from"},
			mapRows(ds.FeeStructures, func(f domain.FeeStructure) []any {
				return []any{f.ID, f.Name, string(f.TransactionType), toNumeric(f.Rate), toNumeric(f.FlatFee),
					toNumeric(f.Minimum), toNullNumeric(f.Maximum), f.Currency, f.EffectiveFrom}
			})},
		{"transactions", []string{"id", "reference", "type", "description", "counterparty", "amount", "fee", "currency", "status", "booked_at", "archived"},
			mapRows(ds.Transactions, func(t domain.Transaction) []any {
				return []any{t.ID, t.Reference, string(t.Type), t.Description, t.Counterparty, toNumeric(t.Amount),
					toNumeric(t.Fee), t.Currency, string(t.Status), t.BookedAt, t.Archived}
			})},
		{"deposits", []string{"id", "reference", "payer", "amount", "currency", "bank_id", "received_at", "status", "allocated_to", "notes"},
			mapRows(ds.Deposits, func(d domain.Deposit) []any {
				return []any{d.ID, d.Reference, d.Payer, toNumeric(d.Amount), d.Currency, d.BankID, d.ReceivedAt,
					string(d.Status), d.AllocatedTo, d.Notes}
			})},
		{"withdrawal_batches", []string{"id", "batch_number", "beneficiary_count", "gross_amount", "fees", "currency", "status", "scheduled_for", "notes"},
			mapRows(ds.WithdrawalBatches, func(b domain.WithdrawalBatch) []any {
				return []any{b.ID, b.BatchNumber, b.BeneficiaryCount, toNumeric(b.GrossAmount), toNumeric(b.Fees),
					b.Currency, string(b.Status), b.ScheduledFor, b.Notes}
			})},
	}
	for _, c := range copies {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.cols, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("copy %s: %w", c.table, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func mapRows[T any](items []T, fn func(T) []any) [][]any {
	out := make([][]any, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

func (p *Postgres) Banks(ctx context.Context) ([]domain.Bank, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, swift, country, currency, active, created_at
		FROM banks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query banks: %w", err)
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Bank, error) {
		var b domain.Bank
		err := r.Scan(&b.ID, &b.Name, &b.Swift, &b.Country, &b.Currency, &b.Active, &b.CreatedAt)
		return b, err
	})
}

func (p *Postgres) Beneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT b.id, b.name, b.bank_id, k.name, b.account_number, b.email, b.country, b.status, b.created_at
		FROM beneficiaries b JOIN banks k ON k.id = b.bank_id
		ORDER BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("query beneficiaries: %w", err)
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Beneficiary, error) {
		var (
			b      domain.Beneficiary
			email  pgtype.Text
			status string
		)
		err := r.Scan(&b.ID, &b.Name, &b.BankID, &b.BankName, &b.AccountNumber, &email, &b.Country, &status, &b.CreatedAt)
		if email.Valid {
			b.Email = &email.String
		}
		b.Status = domain.BeneficiaryStatus(status)
		return b, err
	})
}

func (p *Postgres) FeeStructures(ctx context.Context) ([]domain.FeeStructure, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, transaction_type, rate, flat_fee, minimum, maximum, currency, effective_from
		FROM fee_structures ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query fee structures: %w", err)
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.FeeStructure, error) {
		var (
			f                          domain.FeeStructure
			txType                     string
			rate, flat, minimum, maxim pgtype.Numeric
		)
		err := r.Scan(&f.ID, &f.Name, &txType, &rate, &flat, &minimum, &maxim, &f.Currency, &f.EffectiveFrom)
		f.TransactionType = domain.TransactionType(txType)
		f.Rate = fromNumeric(rate)
		f.FlatFee = fromNumeric(flat)
		f.Minimum = fromNumeric(minimum)
		if maxim.Valid {
			m := fromNumeric(maxim)
			f.Maximum = &m
		}
		return f, err
	})
}

func (p *Postgres) Transactions(ctx context.Context, archived bool) ([]domain.Transaction, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, reference, type, description, counterparty, amount, fee, currency, status, booked_at, archived
		FROM transactions WHERE archived = $1 ORDER BY id`, archived)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Transaction, error) {
		var (
			t              domain.Transaction
			txType, status string
			amount, fee    pgtype.Numeric
		)
		err := r.Scan(&t.ID, &t.Reference, &txType, &t.Description, &t.Counterparty, &amount, &fee,
			&t.Currency, &status, &t.BookedAt, &t.Archived)
		t.Type = domain.TransactionType(txType)
		t.Status = domain.TransactionStatus(status)
		t.Amount = fromNumeric(amount)
		t.Fee = fromNumeric(fee)
		return t, err
	})
}

// Deposits lists deposits with the given status; an empty status lists all.
func (p *Postgres) Deposits(ctx context.Context, status domain.DepositStatus) ([]domain.Deposit, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT d.id, d.reference, d.payer, d.amount, d.currency, d.bank_id, k.name,
		       d.received_at, d.status, d.allocated_to, d.notes
		FROM deposits d JOIN banks k ON k.id = d.bank_id
		WHERE $1 = '' OR d.status = $1
		ORDER BY d.id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("query deposits: %w", err)
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Deposit, error) {
		var (
			d         domain.Deposit
			amount    pgtype.Numeric
			st        string
			allocated pgtype.Text
		)
		err := r.Scan(&d.ID, &d.Reference, &d.Payer, &amount, &d.Currency, &d.BankID, &d.BankName,
			&d.ReceivedAt, &st, &allocated, &d.Notes)
		d.Amount = fromNumeric(amount)
		d.Status = domain.DepositStatus(st)
		if allocated.Valid {
			d.AllocatedTo = &allocated.String
		}
		return d, err
	})
}

func (p *Postgres) WithdrawalBatches(ctx context.Context) ([]domain.WithdrawalBatch, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, batch_number, beneficiary_count, gross_amount, fees, currency, status, scheduled_for, notes
		FROM withdrawal_batches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query withdrawal batches: %w", err)
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.WithdrawalBatch, error) {
		var (
			b           domain.WithdrawalBatch
			gross, fees pgtype.Numeric
			status      string
		)
		err := r.Scan(&b.ID, &b.BatchNumber, &b.BeneficiaryCount, &gross, &fees, &b.Currency, &status,
			&b.ScheduledFor, &b.Notes)
		b.GrossAmount = fromNumeric(gross)
		b.Fees = fromNumeric(fees)
		b.Status = domain.BatchStatus(status)
		return b, err
	})
}

// column maps an updatable field to its table column and value kind.
type column struct {
	name     string
	numeric  bool
	nullable bool
}

var updatable = map[domain.Entity]map[string]column{
	domain.EntityBank: {
		"name":    {name: "name"},
		"swift":   {name: "swift"},
		"country": {name: "country"},
	},
	domain.EntityBeneficiary: {
		"name":          {name: "name"},
		"accountNumber": {name: "account_number"},
		"email":         {name: "email", nullable: true},
		"status":        {name: "status"},
	},
	domain.EntityFeeStructure: {
		"rate":    {name: "rate", numeric: true},
		"flatFee": {name: "flat_fee", numeric: true},
		"minimum": {name: "minimum", numeric: true},
	},
	domain.EntityTransaction: {
		"description": {name: "description"},
		"status":      {name: "status"},
	},
	domain.EntityDeposit: {
		"reference":   {name: "reference"},
		"notes":       {name: "notes"},
		"status":      {name: "status"},
		"allocatedTo": {name: "allocated_to", nullable: true},
	},
	domain.EntityWithdrawalBatch: {
		"grossAmount": {name: "gross_amount", numeric: true},
		"notes":       {name: "notes"},
		"status":      {name: "status"},
	},
}

// UpdateField sets one column inside a transaction and returns the
// previous value as text.
func (p *Postgres) UpdateField(ctx context.Context, entity domain.Entity, id int, field string, value any) (string, error) {
	col, ok := updatable[entity][field]
	if !ok {
		return "", fmt.Errorf("%s %s: %w", entity, field, ErrUnknownField)
	}

	var arg any
	if col.numeric {
		d, err := asDecimal(field, value)
		if err != nil {
			return "", err
		}
		arg = toNumeric(d)
	} else {
		s, err := asString(field, value)
		if err != nil {
			return "", err
		}
		arg = s
		if col.nullable {
			arg = optional(s)
		}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Identifiers come from the updatable allowlist above.
	table := pgx.Identifier{string(entity)}.Sanitize()
	colName := pgx.Identifier{col.name}.Sanitize()

	var old pgtype.Text
	err = tx.QueryRow(ctx,
		fmt.Sprintf("SELECT %s::text FROM %s WHERE id = $1 FOR UPDATE", colName, table), id,
	).Scan(&old)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s.%s: %w", entity, field, err)
	}

	if _, err := tx.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET %s = $1 WHERE id = $2", table, colName), arg, id,
	); err != nil {
		return "", fmt.Errorf("update %s.%s: %w", entity, field, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit update: %w", err)
	}
	return old.String, nil
}

// SetStatus updates the status column of a record.
func (p *Postgres) SetStatus(ctx context.Context, entity domain.Entity, id int, status string) (string, error) {
	return p.UpdateField(ctx, entity, id, "status", status)
}

// Ping checks the pool can reach the server.
func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.pool.Ping(ctx)
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func toNullNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return toNumeric(*d)
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
