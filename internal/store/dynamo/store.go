// Package dynamo implements the store contract on DynamoDB. One table holds
// every entity; AtomicWrite maps to TransactWriteItems, which is what gives
// the balance consistency engine its all-or-nothing guarantee.
package dynamo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/trackmyexpense/backend/internal/store"
)

// Store is a DynamoDB-backed keyed store. The client is constructed once at
// process start and injected; Store itself holds no other state.
type Store struct {
	client *dynamodb.Client
	table  string
}

// New creates a Store for the given table.
func New(client *dynamodb.Client, table string) *Store {
	return &Store{client: client, table: table}
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, key store.Key) (store.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key.AttributeValues(),
	})
	if err != nil {
		return nil, translate("get", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, item store.Item) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return translate("put", err)
	}
	return nil
}

// Update implements store.Store. Fields come from a typed per-entity update
// struct, so the assembled expression only ever names known attributes.
func (s *Store) Update(ctx context.Context, key store.Key, fields []store.Field) (store.Item, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("update %s/%s: no fields", key.Owner, key.Sort)
	}

	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	assignments := make([]string, 0, len(fields))
	for i, f := range fields {
		namePlaceholder := fmt.Sprintf("#f%d", i)
		valuePlaceholder := fmt.Sprintf(":v%d", i)
		names[namePlaceholder] = f.Name
		values[valuePlaceholder] = f.Value
		assignments = append(assignments, namePlaceholder+" = "+valuePlaceholder)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       key.AttributeValues(),
		UpdateExpression:          aws.String("SET " + strings.Join(assignments, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, translate("update", err)
	}
	return out.Attributes, nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, key store.Key) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       key.AttributeValues(),
	})
	if err != nil {
		return translate("delete", err)
	}
	return nil
}

// Query implements store.Store. Non-key filters become a FilterExpression,
// which DynamoDB evaluates after the limit has been applied to the key-range
// scan; pages can therefore under-fill relative to the limit.
func (s *Store) Query(ctx context.Context, q store.Query) (store.Page, error) {
	keyCond := expression.Key(store.OwnerAttr).Equal(expression.Value(q.Owner))
	switch {
	case q.Sort.Lower != "" && q.Sort.Upper != "":
		keyCond = keyCond.And(expression.Key(store.SortAttr).
			Between(expression.Value(q.Sort.Lower), expression.Value(q.Sort.Upper)))
	case q.Sort.Lower != "":
		keyCond = keyCond.And(expression.Key(store.SortAttr).
			GreaterThanEqual(expression.Value(q.Sort.Lower)))
	case q.Sort.Upper != "":
		keyCond = keyCond.And(expression.Key(store.SortAttr).
			LessThanEqual(expression.Value(q.Sort.Upper)))
	case q.Sort.Prefix != "":
		keyCond = keyCond.And(expression.Key(store.SortAttr).BeginsWith(q.Sort.Prefix))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if len(q.Filters) > 0 {
		var cond expression.ConditionBuilder
		for i, f := range q.Filters {
			c := expression.Name(f.Attr).Equal(expression.Value(f.Equals))
			if i == 0 {
				cond = c
			} else {
				cond = cond.And(c)
			}
		}
		builder = builder.WithFilter(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return store.Page{}, fmt.Errorf("building query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(q.Ascending),
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}
	if q.Cursor != "" {
		start, err := store.DecodeCursor(q.Cursor)
		if err != nil {
			return store.Page{}, err
		}
		input.ExclusiveStartKey = start.AttributeValues()
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return store.Page{}, translate("query", err)
	}

	page := store.Page{Items: out.Items}
	if len(out.LastEvaluatedKey) > 0 {
		last, err := store.ItemKey(out.LastEvaluatedKey)
		if err != nil {
			return store.Page{}, fmt.Errorf("reading last evaluated key: %w", err)
		}
		page.NextCursor = store.EncodeCursor(last)
	}
	return page, nil
}

// AtomicWrite implements store.Store via TransactWriteItems: every operation
// is durably applied or none are. It must never be decomposed into
// independent calls.
func (s *Store) AtomicWrite(ctx context.Context, ops []store.WriteOp) error {
	if len(ops) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		switch {
		case op.Put != nil:
			items = append(items, types.TransactWriteItem{
				Put: &types.Put{
					TableName: aws.String(s.table),
					Item:      op.Put.Item,
				},
			})
		case op.Delete != nil:
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{
					TableName: aws.String(s.table),
					Key:       op.Delete.Key.AttributeValues(),
				},
			})
		case op.Add != nil:
			items = append(items, types.TransactWriteItem{
				Update: &types.Update{
					TableName:        aws.String(s.table),
					Key:              op.Add.Key.AttributeValues(),
					UpdateExpression: aws.String("ADD #a :d SET #u = :now"),
					ExpressionAttributeNames: map[string]string{
						"#a": op.Add.Attr,
						"#u": store.UpdatedAtAttr,
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":d":   &types.AttributeValueMemberN{Value: op.Add.Delta.String()},
						":now": &types.AttributeValueMemberS{Value: op.Add.UpdatedAt},
					},
				},
			})
		default:
			return fmt.Errorf("atomic write: empty operation")
		}
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return translate("atomic write", err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
