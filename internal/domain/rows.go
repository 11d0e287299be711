package domain

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// RowID renders an integer primary key as a row id.
func RowID(id int) string {
	return strconv.Itoa(id)
}

// ParseRowID parses a row id produced by RowID.
func ParseRowID(s string) (int, error) {
	return strconv.Atoi(s)
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Row converts the bank into a table row.
func (b Bank) Row() tableview.Row {
	return tableview.Row{
		"id":        b.ID,
		"name":      b.Name,
		"swift":     b.Swift,
		"country":   b.Country,
		"currency":  b.Currency,
		"active":    b.Active,
		"createdAt": date(b.CreatedAt),
	}
}

// Row converts the beneficiary into a table row.
func (b Beneficiary) Row() tableview.Row {
	email := ""
	if b.Email != nil {
		email = *b.Email
	}
	return tableview.Row{
		"id":            b.ID,
		"name":          b.Name,
		"bank":          b.BankName,
		"accountNumber": b.AccountNumber,
		"email":         email,
		"country":       b.Country,
		"status":        string(b.Status),
		"createdAt":     date(b.CreatedAt),
	}
}

// Row converts the fee structure into a table row.
func (f FeeStructure) Row() tableview.Row {
	row := tableview.Row{
		"id":              f.ID,
		"name":            f.Name,
		"transactionType": string(f.TransactionType),
		"rate":            f.Rate,
		"flatFee":         f.FlatFee,
		"minimum":         f.Minimum,
		"maximum":         nil,
		"currency":        f.Currency,
		"effectiveFrom":   date(f.EffectiveFrom),
	}
	if f.Maximum != nil {
		row["maximum"] = *f.Maximum
	}
	return row
}

// Row converts the transaction into a table row.
func (t Transaction) Row() tableview.Row {
	return tableview.Row{
		"id":           t.ID,
		"reference":    t.Reference,
		"type":         string(t.Type),
		"description":  t.Description,
		"counterparty": t.Counterparty,
		"amount":       t.Amount,
		"fee":          t.Fee,
		"currency":     t.Currency,
		"status":       string(t.Status),
		"bookedAt":     date(t.BookedAt),
	}
}

// Row converts the deposit into a table row.
func (d Deposit) Row() tableview.Row {
	allocated := ""
	if d.AllocatedTo != nil {
		allocated = *d.AllocatedTo
	}
	return tableview.Row{
		"id":          d.ID,
		"reference":   d.Reference,
		"payer":       d.Payer,
		"amount":      d.Amount,
		"currency":    d.Currency,
		"bank":        d.BankName,
		"receivedAt":  date(d.ReceivedAt),
		"status":      string(d.Status),
		"allocatedTo": allocated,
		"notes":       d.Notes,
	}
}

// Row converts the batch into a table row.
func (b WithdrawalBatch) Row() tableview.Row {
	return tableview.Row{
		"id":               b.ID,
		"batchNumber":      b.BatchNumber,
		"beneficiaryCount": b.BeneficiaryCount,
		"grossAmount":      b.GrossAmount,
		"fees":             b.Fees,
		"netAmount":        b.NetAmount(),
		"currency":         b.Currency,
		"status":           string(b.Status),
		"scheduledFor":     date(b.ScheduledFor),
		"notes":            b.Notes,
	}
}
