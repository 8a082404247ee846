package domain

import "time"

// All entities live in one table partitioned by owner. The partition key
// (UserId) is "USER#<userId>"; the sort key (EntityType) encodes the entity
// kind plus a disambiguator, e.g. "ACCOUNT#<id>" or "TX#<date>#<id>".
const (
	UserKeyPrefix         = "USER#"
	AccountPrefix         = "ACCOUNT#"
	TransactionPrefix     = "TX#"
	CategoryPrefix        = "CATEGORY#"
	BudgetPrefix          = "BUDGET#"
	ProfilePictureSortKey = "PROFILE_PICTURE"
)

// Entity holds the key and timestamp attributes shared by every item.
type Entity struct {
	UserID    string `dynamodbav:"UserId" json:"UserId"`
	SortKey   string `dynamodbav:"EntityType" json:"EntityType"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UserKey builds the partition key for a user.
func UserKey(userID string) string {
	return UserKeyPrefix + userID
}

// AccountKey builds the sort key for an account.
func AccountKey(accountID string) string {
	return AccountPrefix + accountID
}

// CategoryKey builds the sort key for a category.
func CategoryKey(categoryID string) string {
	return CategoryPrefix + categoryID
}

// BudgetKey builds the sort key for a budget.
func BudgetKey(budgetID string) string {
	return BudgetPrefix + budgetID
}

// TransactionKey builds the sort key for a transaction. The date comes first
// so a date-range query is a single key-range scan; the generated id breaks
// ties between same-day transactions.
func TransactionKey(transactionDate, transactionID string) string {
	return TransactionPrefix + transactionDate + "#" + transactionID
}

// NowISO returns the current UTC time as an ISO 8601 string, the timestamp
// format stored on every entity.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
