package models

// Spending categories. The set is closed: every categorized transaction
// carries exactly one of these values.
const (
	CategoryEngineering   = "engineering"
	CategoryTrading       = "trading"
	CategoryFood          = "food"
	CategoryBills         = "bills"
	CategoryEntertainment = "entertainment"
	CategoryAmazon        = "amazon"
	CategorySubscriptions = "subscriptions"
	CategoryTransfers     = "transfers"
	CategoryIncome        = "income"
	CategoryLoans         = "loans"
	CategoryTravel        = "travel"
	CategoryHealth        = "health"
	CategoryOther         = "other"
)

// Categories lists the closed category set in its canonical order.
var Categories = []string{
	CategoryEngineering,
	CategoryTrading,
	CategoryFood,
	CategoryBills,
	CategoryEntertainment,
	CategoryAmazon,
	CategorySubscriptions,
	CategoryTransfers,
	CategoryIncome,
	CategoryLoans,
	CategoryTravel,
	CategoryHealth,
	CategoryOther,
}

// IsValidCategory reports whether name belongs to the closed category set.
func IsValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// CanonicalHeader is the canonical CSV column order shared by every dataset
// the pipeline writes.
var CanonicalHeader = []string{
	"date", "description", "category", "deposit", "withdrawal", "balance", "account_name",
}

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionDataFile   = 0644
)
