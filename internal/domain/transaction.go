package domain

// TransactionType carries the sign of a transaction; amounts themselves are
// always positive.
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionExpense || t == TransactionIncome
}

// Transaction is a single income or expense entry. It is created and deleted
// only through the balance consistency engine, never by a bare put or delete,
// so that the owning account's balance stays in step.
type Transaction struct {
	Entity
	AccountID       string          `dynamodbav:"accountId" json:"accountId"`
	CategoryID      string          `dynamodbav:"categoryId" json:"categoryId"`
	Type            TransactionType `dynamodbav:"type" json:"type"`
	Amount          Money           `dynamodbav:"amount" json:"amount"`
	Description     string          `dynamodbav:"description" json:"description"`
	TransactionDate string          `dynamodbav:"transactionDate" json:"transactionDate"`
	ReceiptURL      string          `dynamodbav:"receiptUrl,omitempty" json:"receiptUrl,omitempty"`
}

// SignedAmount is the transaction's effect on the account balance:
// +amount for income, -amount for expense.
func (t Transaction) SignedAmount() Money {
	if t.Type == TransactionIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
