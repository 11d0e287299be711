package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/JonMunkholm/backoffice/internal/domain"
)

// Memory is an in-process Store. All methods are safe for concurrent use;
// list methods return copies.
type Memory struct {
	mu   sync.RWMutex
	data Dataset
}

// NewMemory returns a store holding a copy of ds.
func NewMemory(ds Dataset) *Memory {
	return &Memory{data: cloneDataset(ds)}
}

func cloneDataset(ds Dataset) Dataset {
	return Dataset{
		Banks:             slices.Clone(ds.Banks),
		Beneficiaries:     slices.Clone(ds.Beneficiaries),
		FeeStructures:     slices.Clone(ds.FeeStructures),
		Transactions:      slices.Clone(ds.Transactions),
		Deposits:          slices.Clone(ds.Deposits),
		WithdrawalBatches: slices.Clone(ds.WithdrawalBatches),
	}
}

// Clear drops every record.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = Dataset{}
	return ctx.Err()
}

// Load adds a copy of ds to the records held.
func (m *Memory) Load(ctx context.Context, ds Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	add := cloneDataset(ds)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Banks = append(m.data.Banks, add.Banks...)
	m.data.Beneficiaries = append(m.data.Beneficiaries, add.Beneficiaries...)
	m.data.FeeStructures = append(m.data.FeeStructures, add.FeeStructures...)
	m.data.Transactions = append(m.data.Transactions, add.Transactions...)
	m.data.Deposits = append(m.data.Deposits, add.Deposits...)
	m.data.WithdrawalBatches = append(m.data.WithdrawalBatches, add.WithdrawalBatches...)
	return nil
}

func (m *Memory) Banks(ctx context.Context) ([]domain.Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.data.Banks), ctx.Err()
}

func (m *Memory) Beneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.data.Beneficiaries), ctx.Err()
}

func (m *Memory) FeeStructures(ctx context.Context) ([]domain.FeeStructure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.data.FeeStructures), ctx.Err()
}

func (m *Memory) Transactions(ctx context.Context, archived bool) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range m.data.Transactions {
		if t.Archived == archived {
			out = append(out, t)
		}
	}
	return out, ctx.Err()
}

// Deposits lists deposits with the given status; an empty status lists all.
func (m *Memory) Deposits(ctx context.Context, status domain.DepositStatus) ([]domain.Deposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Deposit
	for _, d := range m.data.Deposits {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	return out, ctx.Err()
}

func (m *Memory) WithdrawalBatches(ctx context.Context) ([]domain.WithdrawalBatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.data.WithdrawalBatches), ctx.Err()
}

// UpdateField sets one field and returns its previous display value.
func (m *Memory) UpdateField(ctx context.Context, entity domain.Entity, id int, field string, value any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	switch entity {
	case domain.EntityBank:
		b, err := find(m.data.Banks, id, func(b domain.Bank) int { return b.ID })
		if err != nil {
			return "", err
		}
		return setBankField(b, field, value)
	case domain.EntityBeneficiary:
		b, err := find(m.data.Beneficiaries, id, func(b domain.Beneficiary) int { return b.ID })
		if err != nil {
			return "", err
		}
		return setBeneficiaryField(b, field, value)
	case domain.EntityFeeStructure:
		f, err := find(m.data.FeeStructures, id, func(f domain.FeeStructure) int { return f.ID })
		if err != nil {
			return "", err
		}
		return setFeeField(f, field, value)
	case domain.EntityTransaction:
		t, err := find(m.data.Transactions, id, func(t domain.Transaction) int { return t.ID })
		if err != nil {
			return "", err
		}
		return setTransactionField(t, field, value)
	case domain.EntityDeposit:
		d, err := find(m.data.Deposits, id, func(d domain.Deposit) int { return d.ID })
		if err != nil {
			return "", err
		}
		return setDepositField(d, field, value)
	case domain.EntityWithdrawalBatch:
		b, err := find(m.data.WithdrawalBatches, id, func(b domain.WithdrawalBatch) int { return b.ID })
		if err != nil {
			return "", err
		}
		return setBatchField(b, field, value)
	}
	return "", fmt.Errorf("%s: %w", entity, ErrUnknownField)
}

// SetStatus updates the status field of a record.
func (m *Memory) SetStatus(ctx context.Context, entity domain.Entity, id int, status string) (string, error) {
	return m.UpdateField(ctx, entity, id, "status", status)
}

func find[T any](items []T, id int, key func(T) int) (*T, error) {
	for i := range items {
		if key(items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

func setBankField(b *domain.Bank, field string, v any) (string, error) {
	s, err := asString(field, v)
	if err != nil {
		return "", err
	}
	var old string
	switch field {
	case "name":
		old, b.Name = b.Name, s
	case "swift":
		old, b.Swift = b.Swift, s
	case "country":
		old, b.Country = b.Country, s
	default:
		return "", fmt.Errorf("bank %s: %w", field, ErrUnknownField)
	}
	return old, nil
}

func setBeneficiaryField(b *domain.Beneficiary, field string, v any) (string, error) {
	s, err := asString(field, v)
	if err != nil {
		return "", err
	}
	var old string
	switch field {
	case "name":
		old, b.Name = b.Name, s
	case "accountNumber":
		old, b.AccountNumber = b.AccountNumber, s
	case "email":
		old, b.Email = deref(b.Email), optional(s)
	case "status":
		old, b.Status = string(b.Status), domain.BeneficiaryStatus(s)
	default:
		return "", fmt.Errorf("beneficiary %s: %w", field, ErrUnknownField)
	}
	return old, nil
}

func setFeeField(f *domain.FeeStructure, field string, v any) (string, error) {
	d, err := asDecimal(field, v)
	if err != nil {
		return "", err
	}
	var old string
	switch field {
	case "rate":
		old, f.Rate = f.Rate.String(), d
	case "flatFee":
		old, f.FlatFee = f.FlatFee.String(), d
	case "minimum":
		old, f.Minimum = f.Minimum.String(), d
	default:
		return "", fmt.Errorf("fee structure %s: %w", field, ErrUnknownField)
	}
	return old, nil
}

func setTransactionField(t *domain.Transaction, field string, v any) (string, error) {
	s, err := asString(field, v)
	if err != nil {
		return "", err
	}
	var old string
	switch field {
	case "description":
		old, t.Description = t.Description, s
	case "status":
		old, t.Status = string(t.Status), domain.TransactionStatus(s)
	default:
		return "", fmt.Errorf("transaction %s: %w", field, ErrUnknownField)
	}
	return old, nil
}

func setDepositField(d *domain.Deposit, field string, v any) (string, error) {
	s, err := asString(field, v)
	if err != nil {
		return "", err
	}
	var old string
	switch field {
	case "reference":
		old, d.Reference = d.Reference, s
	case "notes":
		old, d.Notes = d.Notes, s
	case "status":
		old, d.Status = string(d.Status), domain.DepositStatus(s)
	case "allocatedTo":
		old, d.AllocatedTo = deref(d.AllocatedTo), optional(s)
	default:
		return "", fmt.Errorf("deposit %s: %w", field, ErrUnknownField)
	}
	return old, nil
}

func setBatchField(b *domain.WithdrawalBatch, field string, v any) (string, error) {
	var old string
	switch field {
	case "grossAmount":
		d, err := asDecimal(field, v)
		if err != nil {
			return "", err
		}
		old, b.GrossAmount = b.GrossAmount.String(), d
	case "notes", "status":
		s, err := asString(field, v)
		if err != nil {
			return "", err
		}
		if field == "notes" {
			old, b.Notes = b.Notes, s
		} else {
			old, b.Status = string(b.Status), domain.BatchStatus(s)
		}
	default:
		return "", fmt.Errorf("withdrawal batch %s: %w", field, ErrUnknownField)
	}
	return old, nil
}
