package domain

// BudgetPeriod enumerates budget recurrence periods.
type BudgetPeriod string

const (
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetWeekly || p == BudgetMonthly || p == BudgetYearly
}

// Budget is a spending target for one category over a date range.
type Budget struct {
	Entity
	CategoryID string       `dynamodbav:"categoryId" json:"categoryId"`
	Amount     Money        `dynamodbav:"amount" json:"amount"`
	Period     BudgetPeriod `dynamodbav:"period" json:"period"`
	StartDate  string       `dynamodbav:"startDate" json:"startDate"`
	EndDate    string       `dynamodbav:"endDate" json:"endDate"`
}

// ID returns the budget id portion of the sort key.
func (b Budget) ID() string {
	return b.SortKey[len(BudgetPrefix):]
}
