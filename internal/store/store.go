// Package store defines the contract for the partitioned key-value table all
// entities live in: get/put/update/delete/query primitives plus an
// all-or-nothing multi-item write. The DynamoDB adapter in store/dynamo is
// the production implementation; store/memory mirrors its semantics for tests
// and local runs.
package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Attribute names of the table's composite primary key and the shared
// modification timestamp.
const (
	OwnerAttr     = "UserId"
	SortAttr      = "EntityType"
	UpdatedAtAttr = "updatedAt"
)

// Key is the composite primary key of one item.
type Key struct {
	Owner string
	Sort  string
}

// AttributeValues renders the key in wire form.
func (k Key) AttributeValues() Item {
	return Item{
		OwnerAttr: &types.AttributeValueMemberS{Value: k.Owner},
		SortAttr:  &types.AttributeValueMemberS{Value: k.Sort},
	}
}

// Item is one marshaled table row.
type Item = map[string]types.AttributeValue

// ItemKey extracts the primary key from an item.
func ItemKey(item Item) (Key, error) {
	owner, ok := item[OwnerAttr].(*types.AttributeValueMemberS)
	if !ok {
		return Key{}, fmt.Errorf("item has no string %s attribute", OwnerAttr)
	}
	sort, ok := item[SortAttr].(*types.AttributeValueMemberS)
	if !ok {
		return Key{}, fmt.Errorf("item has no string %s attribute", SortAttr)
	}
	return Key{Owner: owner.Value, Sort: sort.Value}, nil
}

// Field is one attribute assignment in a partial update. Repositories build
// these from typed per-entity update structs; nothing assembles them from
// arbitrary maps.
type Field struct {
	Name  string
	Value types.AttributeValue
}

// PutOp is an idempotent upsert of a full item.
type PutOp struct {
	Item Item
}

// DeleteOp removes one item.
type DeleteOp struct {
	Key Key
}

// AddOp adds Delta to the numeric attribute Attr and refreshes updatedAt.
// Being a relative adjustment rather than an absolute set, concurrent AddOps
// against the same item commute, which is what makes lock-free balance
// maintenance possible.
type AddOp struct {
	Key       Key
	Attr      string
	Delta     decimal.Decimal
	UpdatedAt string
}

// WriteOp is exactly one of Put, Delete or Add.
type WriteOp struct {
	Put    *PutOp
	Delete *DeleteOp
	Add    *AddOp
}

// SortCondition restricts the sort key of a query. The zero value matches
// the whole partition. Prefix is mutually exclusive with the range bounds;
// Lower and Upper are inclusive and may be combined into a BETWEEN.
type SortCondition struct {
	Prefix string
	Lower  string
	Upper  string
}

// Filter is an equality predicate on a non-key attribute. Filters run after
// the key-range scan has been sliced to the limit, so a filtered page may
// hold fewer than Limit items even when more matches exist past the cursor.
type Filter struct {
	Attr   string
	Equals string
}

// Query describes one page of a key-range scan.
type Query struct {
	Owner     string
	Sort      SortCondition
	Filters   []Filter
	Limit     int32
	Cursor    string
	Ascending bool
}

// Page is a query result plus the cursor for the next page, empty when the
// scan is exhausted.
type Page struct {
	Items      []Item
	NextCursor string
}

// Store is the keyed store contract.
type Store interface {
	// Get returns the item or nil when absent.
	Get(ctx context.Context, key Key) (Item, error)
	// Put upserts a full item.
	Put(ctx context.Context, item Item) error
	// Update merges the given fields into the item and returns the new
	// image. Last writer wins.
	Update(ctx context.Context, key Key, fields []Field) (Item, error)
	// Delete removes the item; deleting an absent item is not an error.
	Delete(ctx context.Context, key Key) error
	// Query runs one page of a key-range scan.
	Query(ctx context.Context, q Query) (Page, error)
	// AtomicWrite applies every operation or none of them. Failures of kind
	// Conflict or Throughput may be retried by rerunning the whole calling
	// operation; a confirmed error guarantees nothing was applied.
	AtomicWrite(ctx context.Context, ops []WriteOp) error
}

type cursorToken struct {
	Owner string `json:"o"`
	Sort  string `json:"s"`
}

// EncodeCursor renders the last evaluated key as an opaque token.
func EncodeCursor(k Key) string {
	raw, _ := json.Marshal(cursorToken{Owner: k.Owner, Sort: k.Sort})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(s string) (Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("decoding cursor: %w", err)
	}
	var t cursorToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return Key{}, fmt.Errorf("decoding cursor: %w", err)
	}
	return Key{Owner: t.Owner, Sort: t.Sort}, nil
}
