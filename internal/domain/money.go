package domain

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. It stores as a DynamoDB number attribute
// and serializes as a plain JSON number, so balances survive round-trips
// without float drift.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromString parses a decimal string such as "123.45".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing money %q: %w", s, err)
	}
	return Money{Decimal: d}, nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Decimal: m.Decimal.Neg()}
}

// Equal reports whether two amounts represent the same value.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// MarshalJSON emits the amount as a bare JSON number. Unmarshaling is
// inherited from decimal.Decimal, which accepts numbers and quoted strings.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// MarshalDynamoDBAttributeValue stores the amount as a number attribute.
func (m Money) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: m.String()}, nil
}

// UnmarshalDynamoDBAttributeValue reads a number attribute back into Money.
func (m *Money) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("money: expected number attribute, got %T", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("money: parsing number attribute %q: %w", n.Value, err)
	}
	m.Decimal = d
	return nil
}
