// Package store provides the data sources behind the console tables.
//
// Two implementations satisfy [Store]: [Memory], seeded with deterministic
// mock data and used by default, and [Postgres], backed by a pgx pool.
package store

import (
	"context"
	"errors"

	"github.com/JonMunkholm/backoffice/internal/domain"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownField is returned when a field cannot be updated.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue is returned when a value has the wrong type for a field.
	ErrInvalidValue = errors.New("invalid value type")
)

// Store lists entities and applies single-field updates.
//
// UpdateField values are typed by the caller: string for text and enum
// fields, decimal.Decimal for money and rates. An empty string clears an
// optional field. The previous value is returned in display form.
type Store interface {
	Banks(ctx context.Context) ([]domain.Bank, error)
	Beneficiaries(ctx context.Context) ([]domain.Beneficiary, error)
	FeeStructures(ctx context.Context) ([]domain.FeeStructure, error)
	Transactions(ctx context.Context, archived bool) ([]domain.Transaction, error)
	Deposits(ctx context.Context, status domain.DepositStatus) ([]domain.Deposit, error)
	WithdrawalBatches(ctx context.Context) ([]domain.WithdrawalBatch, error)

	UpdateField(ctx context.Context, entity domain.Entity, id int, field string, value any) (string, error)
	SetStatus(ctx context.Context, entity domain.Entity, id int, status string) (string, error)
}
