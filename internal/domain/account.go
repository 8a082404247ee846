package domain

// AccountType enumerates the supported kinds of account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountCash, AccountInvestment:
		return true
	}
	return false
}

// Account is a user-owned account. Balance always equals the signed sum of
// the transactions currently stored against the account; only the balance
// consistency engine moves it during normal operation (direct edits through
// the repository update path are reserved for administrative correction).
type Account struct {
	Entity
	AccountName string      `dynamodbav:"accountName" json:"accountName"`
	AccountType AccountType `dynamodbav:"accountType" json:"accountType"`
	Balance     Money       `dynamodbav:"balance" json:"balance"`
	Currency    string      `dynamodbav:"currency" json:"currency"`
	IsActive    bool        `dynamodbav:"isActive" json:"isActive"`
}

// ID returns the account id portion of the sort key.
func (a Account) ID() string {
	return a.SortKey[len(AccountPrefix):]
}
