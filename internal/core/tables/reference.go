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
	swiftPattern   = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)
	accountPattern = regexp.MustCompile(`^[A-Z0-9]{8,34}$`)

	beneficiaryTones = map[string]tableview.Tone{
		string(domain.BeneficiaryActive):   tableview.ToneSuccess,
		string(domain.BeneficiaryInactive): tableview.ToneMuted,
	}
)

func registerBanks() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "banks",
			Group:       GroupReference,
			Label:       "Banks",
			Description: "Settlement banks",
			Order:       1,
		},
		Entity: domain.EntityBank,
		Columns: []tableview.Column{
			{ID: "name", Label: "Name"},
			{ID: "swift", Label: "SWIFT"},
			{ID: "country", Label: "Country"},
			{ID: "currency", Label: "Currency"},
			{ID: "active", Label: "Active", Formatter: yesNo},
			{ID: "createdAt", Label: "Since"},
		},
		DefaultSort: tableview.SortState{ColumnID: "name", Direction: tableview.Asc},
		FieldSpecs: []core.FieldSpec{
			{Name: "name", Type: core.FieldText, Required: true, MaxLen: 80},
			{Name: "swift", Type: core.FieldText, Required: true, Normalizer: NormalizeCode,
				Pattern: swiftPattern, PatternMsg: "8 or 11 characters, e.g. NTBKDKKK"},
			{Name: "country", Type: core.FieldText, Required: true, Normalizer: NormalizeCountry,
				Pattern: countryPattern, PatternMsg: "2-letter country code"},
		},
		Load: func(ctx context.Context, src core.Sources) ([]tableview.Row, error) {
			banks, err := src.Store.Banks(ctx)
			return rowsOf(banks, err)
		},
	})
}

func registerBeneficiaries() {
	active := func(row tableview.Row) bool {
		return row["status"] == string(domain.BeneficiaryActive)
	}
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "beneficiaries",
			Group:       GroupReference,
			Label:       "Beneficiaries",
			Description: "Payout recipients",
			Order:       2,
			Searchable:  true,
		},
		Entity: domain.EntityBeneficiary,
		Columns: []tableview.Column{
			{ID: "name", Label: "Name"},
			{ID: "bank", Label: "Bank"},
			{ID: "accountNumber", Label: "Account"},
			{ID: "email", Label: "Email", Formatter: optional},
			{ID: "country", Label: "Country"},
			{ID: "status", Label: "Status", Formatter: badge(beneficiaryTones)},
			{ID: "createdAt", Label: "Added"},
		},
		DefaultSort: tableview.SortState{ColumnID: "name", Direction: tableview.Asc},
		FieldSpecs: []core.FieldSpec{
			{Name: "name", Type: core.FieldText, Required: true, MaxLen: 80},
			{Name: "accountNumber", Type: core.FieldText, Required: true, Normalizer: NormalizeCode,
				Pattern: accountPattern, PatternMsg: "8-34 letters and digits"},
			{Name: "email", Type: core.FieldEmail, Normalizer: NormalizeEmail},
		},
		Load: func(ctx context.Context, src core.Sources) ([]tableview.Row, error) {
			bs, err := src.Store.Beneficiaries(ctx)
			return rowsOf(bs, err)
		},
		Actions: []core.ActionDefinition{
			{
				ID:      "deactivate",
				Label:   "Deactivate",
				Tone:    tableview.ToneDanger,
				Applies: active,
				Run: func(ctx context.Context, st store.Store, id int, row tableview.Row) (string, error) {
					if _, err := st.SetStatus(ctx, domain.EntityBeneficiary, id, string(domain.BeneficiaryInactive)); err != nil {
						return "", err
					}
					return fmt.Sprintf("deactivated %s", tableview.FormatValue(row["name"])), nil
				},
			},
		},
	})
}

func registerFeeStructures() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "fee_structures",
			Group:       GroupReference,
			Label:       "Fee Structures",
			Description: "Fee schedule per transaction type",
			Order:       3,
		},
		Entity: domain.EntityFeeStructure,
		Columns: []tableview.Column{
			{ID: "name", Label: "Name"},
			{ID: "transactionType", Label: "Applies to"},
			{ID: "rate", Label: "Rate", Numeric: true, Formatter: percent},
			{ID: "flatFee", Label: "Flat fee", Numeric: true, Formatter: money("currency")},
			{ID: "minimum", Label: "Minimum", Numeric: true, Formatter: money("currency")},
			{ID: "maximum", Label: "Maximum", Numeric: true, Formatter: money("currency")},
			{ID: "effectiveFrom", Label: "Effective"},
		},
		DefaultSort: tableview.SortState{ColumnID: "name", Direction: tableview.Asc},
		FieldSpecs: []core.FieldSpec{
			{Name: "rate", Type: core.FieldPercent, Required: true},
			{Name: "flatFee", Type: core.FieldNumeric, Required: true, Min: "0"},
			{Name: "minimum", Type: core.FieldNumeric, Required: true, Min: "0"},
		},
		Load: func(ctx context.Context, src core.Sources) ([]tableview.Row, error) {
			fees, err := src.Store.FeeStructures(ctx)
			return rowsOf(fees, err)
		},
	})
}
