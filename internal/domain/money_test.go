package domain

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := MoneyFromString(s)
	if err != nil {
		t.Fatalf("MoneyFromString(%q): %v", s, err)
	}
	return m
}

func TestMoneyJSONBareNumber(t *testing.T) {
	raw, err := json.Marshal(mustMoney(t, "123.45"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != "123.45" {
		t.Errorf("Expected bare number 123.45, got %s", raw)
	}

	var m Money
	if err := json.Unmarshal([]byte("500"), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !m.Equal(mustMoney(t, "500")) {
		t.Errorf("Expected 500, got %s", m)
	}
}

func TestMoneyDynamoRoundTrip(t *testing.T) {
	av, err := mustMoney(t, "-200.10").MarshalDynamoDBAttributeValue()
	if err != nil {
		t.Fatalf("MarshalDynamoDBAttributeValue: %v", err)
	}
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		t.Fatalf("Expected number attribute, got %T", av)
	}
	if n.Value != "-200.1" {
		t.Errorf("Expected -200.1, got %s", n.Value)
	}

	var back Money
	if err := back.UnmarshalDynamoDBAttributeValue(n); err != nil {
		t.Fatalf("UnmarshalDynamoDBAttributeValue: %v", err)
	}
	if !back.Equal(mustMoney(t, "-200.1")) {
		t.Errorf("Round trip changed value: %s", back)
	}
}

func TestMoneyUnmarshalRejectsNonNumber(t *testing.T) {
	var m Money
	err := m.UnmarshalDynamoDBAttributeValue(&types.AttributeValueMemberS{Value: "100"})
	if err == nil {
		t.Error("Expected error for string attribute")
	}
}

func TestMoneyFromStringInvalid(t *testing.T) {
	if _, err := MoneyFromString("not-a-number"); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSignedAmount(t *testing.T) {
	amount := mustMoney(t, "500")

	income := Transaction{Type: TransactionIncome, Amount: amount}
	if !income.SignedAmount().Equal(amount) {
		t.Errorf("Income should keep its sign, got %s", income.SignedAmount())
	}

	expense := Transaction{Type: TransactionExpense, Amount: amount}
	if !expense.SignedAmount().Equal(NewMoney(decimal.NewFromInt(-500))) {
		t.Errorf("Expense should negate, got %s", expense.SignedAmount())
	}
}
