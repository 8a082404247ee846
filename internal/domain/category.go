package domain

// Category is a user-owned transaction category.
type Category struct {
	Entity
	Name      string          `dynamodbav:"name" json:"name"`
	Type      TransactionType `dynamodbav:"type" json:"type"`
	Icon      string          `dynamodbav:"icon" json:"icon"`
	Color     string          `dynamodbav:"color" json:"color"`
	IsDefault bool            `dynamodbav:"isDefault" json:"isDefault"`
}

// ID returns the category id portion of the sort key.
func (c Category) ID() string {
	return c.SortKey[len(CategoryPrefix):]
}
