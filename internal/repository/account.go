package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/store"
)

const balanceAttr = "balance"

// CreateAccountInput carries the caller-supplied fields of a new account.
// A zero Balance opens the account empty.
type CreateAccountInput struct {
	AccountName string
	AccountType domain.AccountType
	Balance     domain.Money
	Currency    string
	IsActive    bool
}

// AccountUpdate enumerates the mutable account fields; nil means "leave
// unchanged". Balance edits through this path are administrative corrections
// only - the engine never uses it.
type AccountUpdate struct {
	AccountName *string
	AccountType *domain.AccountType
	Balance     *domain.Money
	Currency    *string
	IsActive    *bool
}

func (u AccountUpdate) fields() []store.Field {
	var fields []store.Field
	if u.AccountName != nil {
		fields = append(fields, store.Field{Name: "accountName", Value: &types.AttributeValueMemberS{Value: *u.AccountName}})
	}
	if u.AccountType != nil {
		fields = append(fields, store.Field{Name: "accountType", Value: &types.AttributeValueMemberS{Value: string(*u.AccountType)}})
	}
	if u.Balance != nil {
		fields = append(fields, store.Field{Name: balanceAttr, Value: &types.AttributeValueMemberN{Value: u.Balance.String()}})
	}
	if u.Currency != nil {
		fields = append(fields, store.Field{Name: "currency", Value: &types.AttributeValueMemberS{Value: *u.Currency}})
	}
	if u.IsActive != nil {
		fields = append(fields, store.Field{Name: "isActive", Value: &types.AttributeValueMemberBOOL{Value: *u.IsActive}})
	}
	return fields
}

// Accounts is the store-backed AccountRepository.
type Accounts struct {
	db store.Store
}

// NewAccounts creates an account repository on the given store.
func NewAccounts(db store.Store) *Accounts {
	return &Accounts{db: db}
}

// List returns every account under the owner.
func (r *Accounts) List(ctx context.Context, userID string) ([]domain.Account, error) {
	page, err := r.db.Query(ctx, store.Query{
		Owner:     domain.UserKey(userID),
		Sort:      store.SortCondition{Prefix: domain.AccountPrefix},
		Ascending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(page.Items))
	for _, item := range page.Items {
		var a domain.Account
		if err := attributevalue.UnmarshalMap(item, &a); err != nil {
			return nil, fmt.Errorf("unmarshaling account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// Get returns the account, or nil when absent or owned by someone else.
func (r *Accounts) Get(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	item, err := r.db.Get(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.AccountKey(accountID)})
	if err != nil {
		return nil, fmt.Errorf("getting account %s: %w", accountID, err)
	}
	if item == nil {
		return nil, nil
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(item, &a); err != nil {
		return nil, fmt.Errorf("unmarshaling account %s: %w", accountID, err)
	}
	return &a, nil
}

// Create stores a new account with a fresh id and timestamps.
func (r *Accounts) Create(ctx context.Context, userID string, in CreateAccountInput) (*domain.Account, error) {
	now := domain.NowISO()
	account := domain.Account{
		Entity: domain.Entity{
			UserID:    domain.UserKey(userID),
			SortKey:   domain.AccountKey(uuid.NewString()),
			CreatedAt: now,
			UpdatedAt: now,
		},
		AccountName: in.AccountName,
		AccountType: in.AccountType,
		Balance:     in.Balance,
		Currency:    in.Currency,
		IsActive:    in.IsActive,
	}

	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return nil, fmt.Errorf("marshaling account: %w", err)
	}
	if err := r.db.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return &account, nil
}

// Update merges the provided fields and refreshes updatedAt.
func (r *Accounts) Update(ctx context.Context, userID, accountID string, upd AccountUpdate) (*domain.Account, error) {
	fields := append(upd.fields(), store.Field{
		Name:  store.UpdatedAtAttr,
		Value: &types.AttributeValueMemberS{Value: domain.NowISO()},
	})

	item, err := r.db.Update(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.AccountKey(accountID)}, fields)
	if err != nil {
		return nil, fmt.Errorf("updating account %s: %w", accountID, err)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(item, &a); err != nil {
		return nil, fmt.Errorf("unmarshaling updated account %s: %w", accountID, err)
	}
	return &a, nil
}

// Delete removes the account.
func (r *Accounts) Delete(ctx context.Context, userID, accountID string) error {
	if err := r.db.Delete(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.AccountKey(accountID)}); err != nil {
		return fmt.Errorf("deleting account %s: %w", accountID, err)
	}
	return nil
}

// BalanceDeltaOp builds (without executing) the relative balance adjustment
// "balance := balance + delta" for batching into an atomic multi-write.
func (r *Accounts) BalanceDeltaOp(userID, accountID string, delta domain.Money) store.WriteOp {
	return store.WriteOp{Add: &store.AddOp{
		Key:       store.Key{Owner: domain.UserKey(userID), Sort: domain.AccountKey(accountID)},
		Attr:      balanceAttr,
		Delta:     delta.Decimal,
		UpdatedAt: domain.NowISO(),
	}}
}

var _ AccountRepository = (*Accounts)(nil)
