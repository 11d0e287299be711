// Package tables registers the console's table definitions with the core
// registry. Import it for side effects:
//
//	import _ "github.com/JonMunkholm/backoffice/internal/core/tables"
package tables

// Navigation groups.
const (
	GroupDashboard = "Dashboard"
	GroupReference = "Reference"
	GroupSystem    = "System"
)

func init() {
	registerUnallocatedDeposits()
	registerTransactions()
	registerWithdrawalBatches()
	registerArchive()

	registerBanks()
	registerBeneficiaries()
	registerFeeStructures()

	registerAuditLog()
}
