// Package domain defines the typed back-office entities shown in the
// console tables. Money is held as decimal.Decimal; optional fields are
// pointers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity names a stored collection.
type Entity string

const (
	EntityBank            Entity = "banks"
	EntityBeneficiary     Entity = "beneficiaries"
	EntityFeeStructure    Entity = "fee_structures"
	EntityTransaction     Entity = "transactions"
	EntityDeposit         Entity = "deposits"
	EntityWithdrawalBatch Entity = "withdrawal_batches"
)

// DateLayout is the textual date form used in rows. ISO dates collate in
// chronological order.
const DateLayout = "2006-01-02"

// Bank is a settlement bank.
type Bank struct {
	ID        int
	Name      string
	Swift     string
	Country   string
	Currency  string
	Active    bool
	CreatedAt time.Time
}

// BeneficiaryStatus is the lifecycle state of a beneficiary.
type BeneficiaryStatus string

const (
	BeneficiaryActive   BeneficiaryStatus = "active"
	BeneficiaryInactive BeneficiaryStatus = "inactive"
)

// Beneficiary is a payout recipient held at a bank.
type Beneficiary struct {
	ID            int
	Name          string
	BankID        int
	BankName      string
	AccountNumber string
	Email         *string
	Country       string
	Status        BeneficiaryStatus
	CreatedAt     time.Time
}

// FeeStructure is one row of the fee schedule. Rate is a percentage.
type FeeStructure struct {
	ID              int
	Name            string
	TransactionType TransactionType
	Rate            decimal.Decimal
	FlatFee         decimal.Decimal
	Minimum         decimal.Decimal
	Maximum         *decimal.Decimal
	Currency        string
	EffectiveFrom   time.Time
}

// Charge returns the fee for amount: rate percent plus the flat fee,
// raised to Minimum and capped at Maximum.
func (f FeeStructure) Charge(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(f.Rate).Div(decimal.NewFromInt(100)).Add(f.FlatFee)
	if fee.LessThan(f.Minimum) {
		fee = f.Minimum
	}
	if f.Maximum != nil && fee.GreaterThan(*f.Maximum) {
		fee = *f.Maximum
	}
	return fee.Round(2)
}

// TransactionType classifies a ledger transaction.
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxTransfer   TransactionType = "transfer"
	TxFee        TransactionType = "fee"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TxPending  TransactionStatus = "pending"
	TxCleared  TransactionStatus = "cleared"
	TxFailed   TransactionStatus = "failed"
	TxReversed TransactionStatus = "reversed"
)

// TransactionStatuses lists the valid transaction statuses.
var TransactionStatuses = []string{
	string(TxPending), string(TxCleared), string(TxFailed), string(TxReversed),
}

// Transaction is a ledger movement. Archived transactions only appear in
// the archive search.
type Transaction struct {
	ID           int
	Reference    string
	Type         TransactionType
	Description  string
	Counterparty string
	Amount       decimal.Decimal
	Fee          decimal.Decimal
	Currency     string
	Status       TransactionStatus
	BookedAt     time.Time
	Archived     bool
}

// DepositStatus is the allocation state of an incoming deposit.
type DepositStatus string

const (
	DepositUnallocated DepositStatus = "unallocated"
	DepositAllocated   DepositStatus = "allocated"
)

// Deposit is an incoming payment awaiting allocation to a client.
type Deposit struct {
	ID          int
	Reference   string
	Payer       string
	Amount      decimal.Decimal
	Currency    string
	BankID      int
	BankName    string
	ReceivedAt  time.Time
	Status      DepositStatus
	AllocatedTo *string
	Notes       string
}

// BatchStatus is the state of a withdrawal batch.
type BatchStatus string

const (
	BatchPending  BatchStatus = "pending"
	BatchReleased BatchStatus = "released"
	BatchFailed   BatchStatus = "failed"
)

// WithdrawalBatch groups payouts released together.
type WithdrawalBatch struct {
	ID               int
	BatchNumber      string
	BeneficiaryCount int
	GrossAmount      decimal.Decimal
	Fees             decimal.Decimal
	Currency         string
	Status           BatchStatus
	ScheduledFor     time.Time
	Notes            string
}

// NetAmount is the gross amount less fees.
func (b WithdrawalBatch) NetAmount() decimal.Decimal {
	return b.GrossAmount.Sub(b.Fees)
}
