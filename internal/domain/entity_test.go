package domain

import (
	"testing"
	"time"
)

func TestKeyBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"user", UserKey("u1"), "USER#u1"},
		{"account", AccountKey("a1"), "ACCOUNT#a1"},
		{"category", CategoryKey("c1"), "CATEGORY#c1"},
		{"budget", BudgetKey("b1"), "BUDGET#b1"},
		{"transaction", TransactionKey("2024-01-15T10:00:00Z", "t1"), "TX#2024-01-15T10:00:00Z#t1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, tt.got)
			}
		})
	}
}

func TestTransactionKeysSortByDate(t *testing.T) {
	older := TransactionKey("2024-01-01T00:00:00Z", "zzz")
	newer := TransactionKey("2024-02-01T00:00:00Z", "aaa")
	if older >= newer {
		t.Errorf("Expected %q < %q", older, newer)
	}
}

func TestNowISO(t *testing.T) {
	now := NowISO()
	parsed, err := time.Parse(time.RFC3339, now)
	if err != nil {
		t.Fatalf("NowISO produced unparseable timestamp %q: %v", now, err)
	}
	if parsed.Location() != time.UTC {
		t.Errorf("Expected UTC timestamp, got %v", parsed.Location())
	}
}
