package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"

	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/store"
)

// DefaultPageLimit applies when a list request names no limit.
const DefaultPageLimit = 50

// TransactionFilters narrows a transaction listing. StartDate and EndDate
// select a sort-key range; AccountID, CategoryID and Type are non-key
// filters evaluated after pagination, so a page may return fewer than Limit
// items even when more matches exist beyond the cursor.
type TransactionFilters struct {
	StartDate  string
	EndDate    string
	AccountID  string
	CategoryID string
	Type       domain.TransactionType
	Limit      int32
	Cursor     string
	Ascending  bool
}

// TransactionPage is one page of transactions plus the resume cursor.
type TransactionPage struct {
	Items      []domain.Transaction `json:"items"`
	NextCursor string               `json:"lastEvaluatedKey,omitempty"`
}

// CreateTransactionInput carries the caller-supplied fields of a new
// transaction. Amount is always positive; the sign lives in Type.
type CreateTransactionInput struct {
	AccountID       string
	CategoryID      string
	Type            domain.TransactionType
	Amount          domain.Money
	Description     string
	TransactionDate string
	ReceiptURL      string
}

// Transactions is the store-backed TransactionRepository.
type Transactions struct {
	db store.Store
}

// NewTransactions creates a transaction repository on the given store.
func NewTransactions(db store.Store) *Transactions {
	return &Transactions{db: db}
}

// List queries one page of transactions, newest first unless Ascending is
// set. The date bounds become sort-key conditions; the trailing "Z" on the
// end bound sorts after any same-day timestamp, making the end date
// inclusive.
func (r *Transactions) List(ctx context.Context, userID string, f TransactionFilters) (*TransactionPage, error) {
	var cond store.SortCondition
	switch {
	case f.StartDate != "" && f.EndDate != "":
		cond.Lower = domain.TransactionPrefix + f.StartDate
		cond.Upper = domain.TransactionPrefix + f.EndDate + "Z"
	case f.StartDate != "":
		cond.Lower = domain.TransactionPrefix + f.StartDate
	case f.EndDate != "":
		cond.Upper = domain.TransactionPrefix + f.EndDate + "Z"
	default:
		cond.Prefix = domain.TransactionPrefix
	}

	var filters []store.Filter
	if f.AccountID != "" {
		filters = append(filters, store.Filter{Attr: "accountId", Equals: f.AccountID})
	}
	if f.CategoryID != "" {
		filters = append(filters, store.Filter{Attr: "categoryId", Equals: f.CategoryID})
	}
	if f.Type != "" {
		filters = append(filters, store.Filter{Attr: "type", Equals: string(f.Type)})
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	page, err := r.db.Query(ctx, store.Query{
		Owner:     domain.UserKey(userID),
		Sort:      cond,
		Filters:   filters,
		Limit:     limit,
		Cursor:    f.Cursor,
		Ascending: f.Ascending,
	})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	result := &TransactionPage{
		Items:      make([]domain.Transaction, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for _, item := range page.Items {
		var t domain.Transaction
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return nil, fmt.Errorf("unmarshaling transaction: %w", err)
		}
		result.Items = append(result.Items, t)
	}
	return result, nil
}

// Get returns the transaction for a full composite sort key ("TX#date#id"),
// or nil when absent. There is no lookup by id alone.
func (r *Transactions) Get(ctx context.Context, userID, sortKey string) (*domain.Transaction, error) {
	item, err := r.db.Get(ctx, store.Key{Owner: domain.UserKey(userID), Sort: sortKey})
	if err != nil {
		return nil, fmt.Errorf("getting transaction %s: %w", sortKey, err)
	}
	if item == nil {
		return nil, nil
	}
	var t domain.Transaction
	if err := attributevalue.UnmarshalMap(item, &t); err != nil {
		return nil, fmt.Errorf("unmarshaling transaction %s: %w", sortKey, err)
	}
	return &t, nil
}

// BuildCreateOp mints the transaction entity and returns it together with
// the put operation for atomic batching. Nothing is persisted here.
func (r *Transactions) BuildCreateOp(userID string, in CreateTransactionInput) (*domain.Transaction, store.WriteOp, error) {
	now := domain.NowISO()
	tx := domain.Transaction{
		Entity: domain.Entity{
			UserID:    domain.UserKey(userID),
			SortKey:   domain.TransactionKey(in.TransactionDate, uuid.NewString()),
			CreatedAt: now,
			UpdatedAt: now,
		},
		AccountID:       in.AccountID,
		CategoryID:      in.CategoryID,
		Type:            in.Type,
		Amount:          in.Amount,
		Description:     in.Description,
		TransactionDate: in.TransactionDate,
		ReceiptURL:      in.ReceiptURL,
	}

	item, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, store.WriteOp{}, fmt.Errorf("marshaling transaction: %w", err)
	}
	return &tx, store.WriteOp{Put: &store.PutOp{Item: item}}, nil
}

// BuildDeleteOp returns the delete operation for atomic batching.
func (r *Transactions) BuildDeleteOp(userID, sortKey string) store.WriteOp {
	return store.WriteOp{Delete: &store.DeleteOp{
		Key: store.Key{Owner: domain.UserKey(userID), Sort: sortKey},
	}}
}

var _ TransactionRepository = (*Transactions)(nil)
