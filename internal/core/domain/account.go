package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is an entry of the chart of accounts.
// It is reference data for this core: looked up by code, never mutated here.
type Account struct {
	AccountID   string      `json:"accountID"`   // Primary Key (e.g., UUID)
	Code        string      `json:"code"`        // Unique chart code, e.g. "411000"
	Name        string      `json:"name"`        // Display name
	AccountType AccountType `json:"accountType"` // ASSET, LIABILITY, etc.
	IsActive    bool        `json:"isActive"`
}
