package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/trackmyexpense/backend/internal/store"
)

func item(owner, sort string, extra map[string]types.AttributeValue) store.Item {
	it := store.Item{
		store.OwnerAttr: &types.AttributeValueMemberS{Value: owner},
		store.SortAttr:  &types.AttributeValueMemberS{Value: sort},
	}
	for k, v := range extra {
		it[k] = v
	}
	return it
}

func numberAttr(t *testing.T, it store.Item, attr string) decimal.Decimal {
	t.Helper()
	n, ok := it[attr].(*types.AttributeValueMemberN)
	if !ok {
		t.Fatalf("Expected number attribute %s, got %T", attr, it[attr])
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		t.Fatalf("Parsing %s: %v", attr, err)
	}
	return d
}

func TestGetAbsentReturnsNil(t *testing.T) {
	s := New()
	got, err := s.Get(context.Background(), store.Key{Owner: "USER#u1", Sort: "ACCOUNT#a1"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for absent item, got %v", got)
	}
}

func TestPutGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#a1"}

	if err := s.Put(ctx, item(key.Owner, key.Sort, nil)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Expected stored item")
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = s.Get(ctx, key)
	if got != nil {
		t.Error("Expected item gone after delete")
	}

	// Deleting again is not an error.
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("Second delete: %v", err)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#a1"}

	if err := s.Put(ctx, item(key.Owner, key.Sort, map[string]types.AttributeValue{
		"accountName": &types.AttributeValueMemberS{Value: "Old"},
		"currency":    &types.AttributeValueMemberS{Value: "INR"},
	})); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Update(ctx, key, []store.Field{
		{Name: "accountName", Value: &types.AttributeValueMemberS{Value: "New"}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	name := got["accountName"].(*types.AttributeValueMemberS).Value
	if name != "New" {
		t.Errorf("Expected updated name, got %s", name)
	}
	currency := got["currency"].(*types.AttributeValueMemberS).Value
	if currency != "INR" {
		t.Errorf("Untouched field changed: %s", currency)
	}
}

func TestUpdateAbsentItemCreatesIt(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#ghost"}

	got, err := s.Update(ctx, key, []store.Field{
		{Name: "accountName", Value: &types.AttributeValueMemberS{Value: "Ghost"}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got[store.SortAttr].(*types.AttributeValueMemberS).Value != key.Sort {
		t.Error("Created item should carry its key")
	}
}

func seedTransactions(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	rows := []struct {
		sort    string
		account string
	}{
		{"TX#2024-01-01T09:00:00Z#t1", "a1"},
		{"TX#2024-01-15T12:00:00Z#t2", "a2"},
		{"TX#2024-01-31T23:30:00Z#t3", "a1"},
		{"TX#2024-02-10T08:00:00Z#t4", "a1"},
	}
	for _, row := range rows {
		err := s.Put(ctx, item("USER#u1", row.sort, map[string]types.AttributeValue{
			"accountId": &types.AttributeValueMemberS{Value: row.account},
		}))
		if err != nil {
			t.Fatalf("Put %s: %v", row.sort, err)
		}
	}
	// Another entity kind and another owner must never leak into TX scans.
	if err := s.Put(ctx, item("USER#u1", "ACCOUNT#a1", nil)); err != nil {
		t.Fatalf("Put account: %v", err)
	}
	if err := s.Put(ctx, item("USER#u2", "TX#2024-01-20T00:00:00Z#x", nil)); err != nil {
		t.Fatalf("Put other owner: %v", err)
	}
}

func TestQueryPrefix(t *testing.T) {
	s := New()
	seedTransactions(t, s)

	page, err := s.Query(context.Background(), store.Query{
		Owner:     "USER#u1",
		Sort:      store.SortCondition{Prefix: "TX#"},
		Ascending: true,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Items) != 4 {
		t.Fatalf("Expected 4 transactions, got %d", len(page.Items))
	}
	first, _ := store.ItemKey(page.Items[0])
	if first.Sort != "TX#2024-01-01T09:00:00Z#t1" {
		t.Errorf("Expected oldest first ascending, got %s", first.Sort)
	}
}

func TestQueryDescendingDefault(t *testing.T) {
	s := New()
	seedTransactions(t, s)

	page, err := s.Query(context.Background(), store.Query{
		Owner: "USER#u1",
		Sort:  store.SortCondition{Prefix: "TX#"},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	first, _ := store.ItemKey(page.Items[0])
	if first.Sort != "TX#2024-02-10T08:00:00Z#t4" {
		t.Errorf("Expected newest first descending, got %s", first.Sort)
	}
}

func TestQueryRangeInclusiveBothEnds(t *testing.T) {
	s := New()
	seedTransactions(t, s)

	// The trailing "Z" sorts after any timestamp on the end day, so the
	// 23:30 transaction on Jan 31 is included.
	page, err := s.Query(context.Background(), store.Query{
		Owner: "USER#u1",
		Sort: store.SortCondition{
			Lower: "TX#2024-01-01",
			Upper: "TX#2024-01-31Z",
		},
		Ascending: true,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("Expected 3 transactions in January, got %d", len(page.Items))
	}
	last, _ := store.ItemKey(page.Items[2])
	if last.Sort != "TX#2024-01-31T23:30:00Z#t3" {
		t.Errorf("End-of-day transaction missing, got %s", last.Sort)
	}
}

func TestQueryUpperOnly(t *testing.T) {
	s := New()
	seedTransactions(t, s)

	page, err := s.Query(context.Background(), store.Query{
		Owner:     "USER#u1",
		Sort:      store.SortCondition{Upper: "TX#2024-01-31Z"},
		Ascending: true,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	// A bare upper bound has no prefix constraint, so the ACCOUNT# row
	// sorts below "TX#..." and is swept in too.
	if len(page.Items) != 4 {
		t.Fatalf("Expected 4 items under bare upper bound, got %d", len(page.Items))
	}
}

func TestQueryCursorPagination(t *testing.T) {
	s := New()
	seedTransactions(t, s)
	ctx := context.Background()

	q := store.Query{
		Owner:     "USER#u1",
		Sort:      store.SortCondition{Prefix: "TX#"},
		Limit:     3,
		Ascending: true,
	}
	first, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(first.Items) != 3 {
		t.Fatalf("Expected full first page, got %d", len(first.Items))
	}
	if first.NextCursor == "" {
		t.Fatal("Expected a cursor with more items remaining")
	}

	q.Cursor = first.NextCursor
	second, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("Expected 1 remaining item, got %d", len(second.Items))
	}
	if second.NextCursor != "" {
		t.Errorf("Expected empty cursor on final page, got %q", second.NextCursor)
	}
	key, _ := store.ItemKey(second.Items[0])
	if key.Sort != "TX#2024-02-10T08:00:00Z#t4" {
		t.Errorf("Pagination skipped or repeated items, got %s", key.Sort)
	}
}

func TestQueryCursorPaginationDescending(t *testing.T) {
	s := New()
	seedTransactions(t, s)
	ctx := context.Background()

	q := store.Query{
		Owner: "USER#u1",
		Sort:  store.SortCondition{Prefix: "TX#"},
		Limit: 3,
	}
	first, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(first.Items) != 3 || first.NextCursor == "" {
		t.Fatalf("Expected full first page with cursor, got %d items", len(first.Items))
	}

	q.Cursor = first.NextCursor
	second, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("Expected 1 remaining item, got %d", len(second.Items))
	}
	key, _ := store.ItemKey(second.Items[0])
	if key.Sort != "TX#2024-01-01T09:00:00Z#t1" {
		t.Errorf("Expected oldest item on the last descending page, got %s", key.Sort)
	}
}

func TestQueryCursorSurvivesDeletedItem(t *testing.T) {
	s := New()
	seedTransactions(t, s)
	ctx := context.Background()

	q := store.Query{
		Owner:     "USER#u1",
		Sort:      store.SortCondition{Prefix: "TX#"},
		Limit:     2,
		Ascending: true,
	}
	first, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(first.Items) != 2 || first.NextCursor == "" {
		t.Fatalf("Expected full first page with cursor, got %d items", len(first.Items))
	}

	// The item the cursor points at disappears between pages; the resume
	// is positional, so the scan must not restart from the beginning.
	lastKey, _ := store.ItemKey(first.Items[1])
	if err := s.Delete(ctx, lastKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	q.Cursor = first.NextCursor
	second, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(second.Items) != 2 {
		t.Fatalf("Expected the 2 items past the cursor, got %d", len(second.Items))
	}
	key, _ := store.ItemKey(second.Items[0])
	if key.Sort != "TX#2024-01-31T23:30:00Z#t3" {
		t.Errorf("Resume restarted or skipped, got %s", key.Sort)
	}
}

func TestQueryExactlyFullPageStillReportsCursor(t *testing.T) {
	s := New()
	seedTransactions(t, s)
	ctx := context.Background()

	q := store.Query{
		Owner:     "USER#u1",
		Sort:      store.SortCondition{Prefix: "TX#"},
		Limit:     4,
		Ascending: true,
	}
	first, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(first.Items) != 4 {
		t.Fatalf("Expected 4 items, got %d", len(first.Items))
	}
	// The scan stopped at the limit, so a resume key is reported even
	// though nothing is left; the caller learns that from the next page.
	if first.NextCursor == "" {
		t.Fatal("Expected a cursor on an exactly-full page")
	}

	q.Cursor = first.NextCursor
	second, err := s.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(second.Items) != 0 {
		t.Fatalf("Expected an empty final page, got %d items", len(second.Items))
	}
	if second.NextCursor != "" {
		t.Errorf("Expected no cursor on the empty final page, got %q", second.NextCursor)
	}
}

func TestQueryFiltersRunAfterLimit(t *testing.T) {
	s := New()
	seedTransactions(t, s)

	// Three TX rows fall under the limit; the filter then drops the a2 row,
	// so the page under-returns even though a fourth a1 row exists beyond
	// the cursor.
	page, err := s.Query(context.Background(), store.Query{
		Owner:     "USER#u1",
		Sort:      store.SortCondition{Prefix: "TX#"},
		Filters:   []store.Filter{{Attr: "accountId", Equals: "a1"}},
		Limit:     3,
		Ascending: true,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("Expected 2 items after post-limit filtering, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Error("Expected cursor pointing past the sliced page")
	}
}

func TestAtomicWriteAppliesAll(t *testing.T) {
	s := New()
	ctx := context.Background()
	accountKey := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#a1"}

	if err := s.Put(ctx, item(accountKey.Owner, accountKey.Sort, map[string]types.AttributeValue{
		"balance": &types.AttributeValueMemberN{Value: "100"},
	})); err != nil {
		t.Fatalf("Put: %v", err)
	}

	txItem := item("USER#u1", "TX#2024-01-01T00:00:00Z#t1", nil)
	err := s.AtomicWrite(ctx, []store.WriteOp{
		{Put: &store.PutOp{Item: txItem}},
		{Add: &store.AddOp{Key: accountKey, Attr: "balance", Delta: decimal.NewFromInt(500), UpdatedAt: "2024-01-01T00:00:00Z"}},
	})
	if err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}

	account, _ := s.Get(ctx, accountKey)
	if got := numberAttr(t, account, "balance"); !got.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected balance 600, got %s", got)
	}
	if tx, _ := s.Get(ctx, store.Key{Owner: "USER#u1", Sort: "TX#2024-01-01T00:00:00Z#t1"}); tx == nil {
		t.Error("Expected transaction to be stored")
	}
}

func TestAtomicWriteAllOrNothing(t *testing.T) {
	s := New()
	ctx := context.Background()
	accountKey := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#a1"}

	if err := s.Put(ctx, item(accountKey.Owner, accountKey.Sort, map[string]types.AttributeValue{
		"balance": &types.AttributeValueMemberN{Value: "100"},
	})); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// The put is valid, the empty op is not; nothing may be applied.
	err := s.AtomicWrite(ctx, []store.WriteOp{
		{Put: &store.PutOp{Item: item("USER#u1", "TX#2024-01-01T00:00:00Z#t1", nil)}},
		{},
	})
	if err == nil {
		t.Fatal("Expected error for empty operation")
	}

	if tx, _ := s.Get(ctx, store.Key{Owner: "USER#u1", Sort: "TX#2024-01-01T00:00:00Z#t1"}); tx != nil {
		t.Error("Rejected batch must leave nothing behind")
	}
	account, _ := s.Get(ctx, accountKey)
	if got := numberAttr(t, account, "balance"); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Balance changed by rejected batch: %s", got)
	}
}

func TestAddCreatesAbsentItem(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#fresh"}

	err := s.AtomicWrite(ctx, []store.WriteOp{
		{Add: &store.AddOp{Key: key, Attr: "balance", Delta: decimal.NewFromInt(-50), UpdatedAt: "2024-01-01T00:00:00Z"}},
	})
	if err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}

	got, _ := s.Get(ctx, key)
	if got == nil {
		t.Fatal("ADD against an absent item should create it")
	}
	if balance := numberAttr(t, got, "balance"); !balance.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("Expected balance -50, got %s", balance)
	}
}

func TestConcurrentDeltasCommute(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#a1"}

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			delta := decimal.NewFromInt(int64(n + 1))
			if n%2 == 1 {
				delta = delta.Neg()
			}
			err := s.AtomicWrite(ctx, []store.WriteOp{
				{Add: &store.AddOp{Key: key, Attr: "balance", Delta: delta, UpdatedAt: "2024-01-01T00:00:00Z"}},
			})
			if err != nil {
				t.Errorf("AtomicWrite: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// +1 -2 +3 -4 ... +19 -20 = -10
	got, _ := s.Get(ctx, key)
	if balance := numberAttr(t, got, "balance"); !balance.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("Expected balance -10 regardless of ordering, got %s", balance)
	}
}

func TestAtomicWriteRejectsNonNumericTarget(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.Key{Owner: "USER#u1", Sort: "ACCOUNT#a1"}

	if err := s.Put(ctx, item(key.Owner, key.Sort, map[string]types.AttributeValue{
		"balance": &types.AttributeValueMemberS{Value: "oops"},
	})); err != nil {
		t.Fatalf("Put: %v", err)
	}

	err := s.AtomicWrite(ctx, []store.WriteOp{
		{Add: &store.AddOp{Key: key, Attr: "balance", Delta: decimal.NewFromInt(1), UpdatedAt: "2024-01-01T00:00:00Z"}},
	})
	if err == nil {
		t.Error("Expected error when the target attribute is not a number")
	}
}

func TestQueryIgnoresOtherOwners(t *testing.T) {
	s := New()
	ctx := context.Background()
	for u := 1; u <= 3; u++ {
		for i := 0; i < 2; i++ {
			err := s.Put(ctx, item(fmt.Sprintf("USER#u%d", u), fmt.Sprintf("TX#2024-01-0%dT00:00:00Z#t%d", i+1, i), nil))
			if err != nil {
				t.Fatalf("Put: %v", err)
			}
		}
	}

	page, err := s.Query(ctx, store.Query{Owner: "USER#u2", Sort: store.SortCondition{Prefix: "TX#"}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("Expected 2 items for u2, got %d", len(page.Items))
	}
	for _, it := range page.Items {
		key, _ := store.ItemKey(it)
		if key.Owner != "USER#u2" {
			t.Errorf("Leaked item from %s", key.Owner)
		}
	}
}
