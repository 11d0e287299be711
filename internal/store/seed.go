package store

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/backoffice/internal/domain"
)

// Dataset is a full set of records for seeding a store.
type Dataset struct {
	Banks             []domain.Bank
	Beneficiaries     []domain.Beneficiary
	FeeStructures     []domain.FeeStructure
	Transactions      []domain.Transaction
	Deposits          []domain.Deposit
	WithdrawalBatches []domain.WithdrawalBatch
}

var (
	seedBanks = []struct{ name, swift, country, currency string }{
		{"Nordic Trust Bank", "NTBKDKKK", "DK", "DKK"},
		{"Hanse Credit", "HNSCDEFF", "DE", "EUR"},
		{"Albion Savings", "ALBNGB2L", "GB", "GBP"},
		{"Liberty Federal", "LBFDUS33", "US", "USD"},
		{"Alpine Privatbank", "ALPICHZZ", "CH", "CHF"},
		{"Banco Ibérico", "BIBEESMM", "ES", "EUR"},
	}
	seedNames = []string{
		"Ørsted Holding", "Acme Logistics", "Zenith Partners", "Émile Dubois",
		"Bergmann GmbH", "Harbor Foods", "Kestrel Capital", "Northwind Traders",
		"Ångström Labs", "Blue Fjord AS", "Cobalt Mining", "Delta Freight",
		"Evergreen Farms", "Foxglove Media", "Granite Works", "Helix Pharma",
	}
	seedDescriptions = []string{
		"Invoice settlement", "Monthly payroll", "Supplier payment",
		"Card processing fee", "Client top-up", "Refund", "FX conversion",
		"Interest payout",
	}
	seedTypes    = []domain.TransactionType{domain.TxDeposit, domain.TxWithdrawal, domain.TxTransfer, domain.TxFee}
	seedStatuses = []domain.TransactionStatus{domain.TxCleared, domain.TxCleared, domain.TxPending, domain.TxFailed, domain.TxReversed}
)

// MockDataset builds a deterministic dataset anchored at now. The same
// seed and now always produce the same records.
func MockDataset(seed uint64, now time.Time) Dataset {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	day := now.UTC().Truncate(24 * time.Hour)
	var ds Dataset

	for i, b := range seedBanks {
		ds.Banks = append(ds.Banks, domain.Bank{
			ID:        i + 1,
			Name:      b.name,
			Swift:     b.swift,
			Country:   b.country,
			Currency:  b.currency,
			Active:    i != len(seedBanks)-1,
			CreatedAt: day.AddDate(-2, 0, -30*i),
		})
	}

	for i := range 24 {
		bank := ds.Banks[r.IntN(len(ds.Banks))]
		name := seedNames[i%len(seedNames)]
		if i >= len(seedNames) {
			name += fmt.Sprintf(" %d", i/len(seedNames)+1)
		}
		var email *string
		if i%4 != 3 {
			e := fmt.Sprintf("payments%d@example.com", i+1)
			email = &e
		}
		status := domain.BeneficiaryActive
		if i%7 == 6 {
			status = domain.BeneficiaryInactive
		}
		ds.Beneficiaries = append(ds.Beneficiaries, domain.Beneficiary{
			ID:            i + 1,
			Name:          name,
			BankID:        bank.ID,
			BankName:      bank.Name,
			AccountNumber: fmt.Sprintf("%s%02d%010d", bank.Country, 10+r.IntN(89), r.Int64N(1e10)),
			Email:         email,
			Country:       bank.Country,
			Status:        status,
			CreatedAt:     day.AddDate(0, -r.IntN(18), -r.IntN(28)),
		})
	}

	fees := []struct {
		name    string
		txType  domain.TransactionType
		rate    string
		flat    string
		min     string
		max     string
		cur     string
		ageDays int
	}{
		{"Standard deposit", domain.TxDeposit, "0.25", "0.00", "0.50", "", "EUR", 400},
		{"Standard withdrawal", domain.TxWithdrawal, "1.50", "0.30", "1.00", "25.00", "EUR", 400},
		{"Domestic transfer", domain.TxTransfer, "0.10", "0.20", "0.20", "10.00", "EUR", 200},
		{"International transfer", domain.TxTransfer, "0.75", "2.50", "5.00", "75.00", "USD", 120},
		{"Express withdrawal", domain.TxWithdrawal, "2.00", "1.00", "2.00", "", "GBP", 60},
		{"Card processing", domain.TxFee, "2.90", "0.25", "0.25", "", "USD", 30},
	}
	for i, f := range fees {
		fs := domain.FeeStructure{
			ID:              i + 1,
			Name:            f.name,
			TransactionType: f.txType,
			Rate:            decimal.RequireFromString(f.rate),
			FlatFee:         decimal.RequireFromString(f.flat),
			Minimum:         decimal.RequireFromString(f.min),
			Currency:        f.cur,
			EffectiveFrom:   day.AddDate(0, 0, -f.ageDays),
		}
		if f.max != "" {
			m := decimal.RequireFromString(f.max)
			fs.Maximum = &m
		}
		ds.FeeStructures = append(ds.FeeStructures, fs)
	}

	for i := range 120 {
		txType := seedTypes[r.IntN(len(seedTypes))]
		amount := money(r, 25, 250000)
		fee := decimal.Zero
		for _, f := range ds.FeeStructures {
			if f.TransactionType == txType {
				fee = f.Charge(amount)
				break
			}
		}
		booked := day.AddDate(0, 0, -r.IntN(365))
		ds.Transactions = append(ds.Transactions, domain.Transaction{
			ID:           i + 1,
			Reference:    fmt.Sprintf("TX-%06d", 100000+i*37),
			Type:         txType,
			Description:  seedDescriptions[r.IntN(len(seedDescriptions))],
			Counterparty: seedNames[r.IntN(len(seedNames))],
			Amount:       amount,
			Fee:          fee,
			Currency:     seedBanks[r.IntN(len(seedBanks))].currency,
			Status:       seedStatuses[r.IntN(len(seedStatuses))],
			BookedAt:     booked,
			Archived:     booked.Before(day.AddDate(0, 0, -180)),
		})
	}

	for i := range 32 {
		bank := ds.Banks[r.IntN(len(ds.Banks))]
		status := domain.DepositUnallocated
		var allocated *string
		if i%5 == 4 {
			status = domain.DepositAllocated
			a := seedNames[r.IntN(len(seedNames))]
			allocated = &a
		}
		ds.Deposits = append(ds.Deposits, domain.Deposit{
			ID:          i + 1,
			Reference:   fmt.Sprintf("DEP-%05d", 20000+i*13),
			Payer:       seedNames[r.IntN(len(seedNames))],
			Amount:      money(r, 100, 90000),
			Currency:    bank.Currency,
			BankID:      bank.ID,
			BankName:    bank.Name,
			ReceivedAt:  day.AddDate(0, 0, -r.IntN(30)),
			Status:      status,
			AllocatedTo: allocated,
		})
	}

	batchStatuses := []domain.BatchStatus{domain.BatchPending, domain.BatchReleased, domain.BatchReleased, domain.BatchFailed}
	for i := range 18 {
		gross := money(r, 5000, 750000)
		count := 3 + r.IntN(40)
		status := batchStatuses[r.IntN(len(batchStatuses))]
		scheduled := day.AddDate(0, 0, 14-r.IntN(60))
		if scheduled.After(day) {
			status = domain.BatchPending
		}
		ds.WithdrawalBatches = append(ds.WithdrawalBatches, domain.WithdrawalBatch{
			ID:               i + 1,
			BatchNumber:      fmt.Sprintf("WB-%s-%02d", scheduled.Format("0601"), i+1),
			BeneficiaryCount: count,
			GrossAmount:      gross,
			Fees:             decimal.NewFromFloat(0.30).Mul(decimal.NewFromInt(int64(count))),
			Currency:         seedBanks[r.IntN(len(seedBanks))].currency,
			Status:           status,
			ScheduledFor:     scheduled,
		})
	}

	return ds
}

// money returns a two-decimal amount in [lo, hi).
func money(r *rand.Rand, lo, hi int64) decimal.Decimal {
	cents := lo*100 + r.Int64N((hi-lo)*100)
	return decimal.New(cents, -2)
}
