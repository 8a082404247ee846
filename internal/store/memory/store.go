// Package memory implements the store contract in process memory. It mirrors
// the DynamoDB adapter's semantics - sort-key ordering, exclusive-start
// cursors, filters evaluated after the limit - so repository and service
// tests exercise the same behavior the real table has. It also backs the
// -store=memory local mode. Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/trackmyexpense/backend/internal/store"
)

// Store is an in-memory keyed store, safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[store.Key]store.Item
}

// New creates an empty Store.
func New() *Store {
	return &Store{items: make(map[store.Key]store.Item)}
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, key store.Key) (store.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	return maps.Clone(item), nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, item store.Item) error {
	key, err := store.ItemKey(item)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = maps.Clone(item)
	return nil
}

// Update implements store.Store. Like DynamoDB's UpdateItem, updating an
// absent item creates it with just the key and the given fields.
func (s *Store) Update(ctx context.Context, key store.Key, fields []store.Field) (store.Item, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("update %s/%s: no fields", key.Owner, key.Sort)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		item = key.AttributeValues()
	}
	for _, f := range fields {
		item[f.Name] = f.Value
	}
	s.items[key] = item
	return maps.Clone(item), nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, key store.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Query implements store.Store. The limit slices the key-ordered scan first;
// non-key filters are applied to the already-sliced page, reproducing the
// under-returning pages the real store produces.
func (s *Store) Query(ctx context.Context, q store.Query) (store.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []store.Key
	for key := range s.items {
		if key.Owner != q.Owner || !matchSort(q.Sort, key.Sort) {
			continue
		}
		matched = append(matched, key)
	}
	sort.Slice(matched, func(i, j int) bool {
		if q.Ascending {
			return matched[i].Sort < matched[j].Sort
		}
		return matched[i].Sort > matched[j].Sort
	})

	if q.Cursor != "" {
		start, err := store.DecodeCursor(q.Cursor)
		if err != nil {
			return store.Page{}, err
		}
		// Resume strictly past the cursor position, like ExclusiveStartKey:
		// the cursor item itself may have been deleted between pages.
		idx := sort.Search(len(matched), func(i int) bool {
			if q.Ascending {
				return matched[i].Sort > start.Sort
			}
			return matched[i].Sort < start.Sort
		})
		matched = matched[idx:]
	}

	page := store.Page{}
	limit := int(q.Limit)
	if limit > 0 && len(matched) >= limit {
		// A resume key is reported whenever the scan stops at the limit,
		// even when the page turns out to be the last one.
		page.NextCursor = store.EncodeCursor(matched[limit-1])
		matched = matched[:limit]
	}

	for _, key := range matched {
		item := s.items[key]
		if !matchFilters(q.Filters, item) {
			continue
		}
		page.Items = append(page.Items, maps.Clone(item))
	}
	return page, nil
}

// AtomicWrite implements store.Store. Operations are validated up front and
// then applied under one lock, so a rejected batch leaves nothing behind.
func (s *Store) AtomicWrite(ctx context.Context, ops []store.WriteOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything before touching state: all-or-nothing.
	for _, op := range ops {
		switch {
		case op.Put != nil:
			if _, err := store.ItemKey(op.Put.Item); err != nil {
				return err
			}
		case op.Delete != nil:
		case op.Add != nil:
			if _, err := s.currentNumber(op.Add.Key, op.Add.Attr); err != nil {
				return err
			}
		default:
			return fmt.Errorf("atomic write: empty operation")
		}
	}

	for _, op := range ops {
		switch {
		case op.Put != nil:
			key, _ := store.ItemKey(op.Put.Item)
			s.items[key] = maps.Clone(op.Put.Item)
		case op.Delete != nil:
			delete(s.items, op.Delete.Key)
		case op.Add != nil:
			s.applyAdd(op.Add)
		}
	}
	return nil
}

// currentNumber reads the numeric attribute an AddOp targets, zero when the
// item or attribute is absent (DynamoDB ADD semantics).
func (s *Store) currentNumber(key store.Key, attr string) (decimal.Decimal, error) {
	item, ok := s.items[key]
	if !ok {
		return decimal.Zero, nil
	}
	av, ok := item[attr]
	if !ok {
		return decimal.Zero, nil
	}
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return decimal.Zero, fmt.Errorf("attribute %s of %s/%s is not a number", attr, key.Owner, key.Sort)
	}
	cur, err := decimal.NewFromString(n.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("attribute %s of %s/%s: %w", attr, key.Owner, key.Sort, err)
	}
	return cur, nil
}

func (s *Store) applyAdd(op *store.AddOp) {
	item, ok := s.items[op.Key]
	if !ok {
		item = op.Key.AttributeValues()
		s.items[op.Key] = item
	}
	cur, _ := s.currentNumber(op.Key, op.Attr)
	item[op.Attr] = &types.AttributeValueMemberN{Value: cur.Add(op.Delta).String()}
	item[store.UpdatedAtAttr] = &types.AttributeValueMemberS{Value: op.UpdatedAt}
}

func matchSort(cond store.SortCondition, sortKey string) bool {
	switch {
	case cond.Lower != "" && cond.Upper != "":
		return sortKey >= cond.Lower && sortKey <= cond.Upper
	case cond.Lower != "":
		return sortKey >= cond.Lower
	case cond.Upper != "":
		return sortKey <= cond.Upper
	case cond.Prefix != "":
		return len(sortKey) >= len(cond.Prefix) && sortKey[:len(cond.Prefix)] == cond.Prefix
	}
	return true
}

func matchFilters(filters []store.Filter, item store.Item) bool {
	for _, f := range filters {
		s, ok := item[f.Attr].(*types.AttributeValueMemberS)
		if !ok || s.Value != f.Equals {
			return false
		}
	}
	return true
}

var _ store.Store = (*Store)(nil)
