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

// CreateBudgetInput carries the caller-supplied fields of a new budget.
type CreateBudgetInput struct {
	CategoryID string
	Amount     domain.Money
	Period     domain.BudgetPeriod
	StartDate  string
	EndDate    string
}

// BudgetUpdate enumerates the mutable budget fields; nil leaves a field
// unchanged.
type BudgetUpdate struct {
	Amount    *domain.Money
	Period    *domain.BudgetPeriod
	StartDate *string
	EndDate   *string
}

func (u BudgetUpdate) fields() []store.Field {
	var fields []store.Field
	if u.Amount != nil {
		fields = append(fields, store.Field{Name: "amount", Value: &types.AttributeValueMemberN{Value: u.Amount.String()}})
	}
	if u.Period != nil {
		fields = append(fields, store.Field{Name: "period", Value: &types.AttributeValueMemberS{Value: string(*u.Period)}})
	}
	if u.StartDate != nil {
		fields = append(fields, store.Field{Name: "startDate", Value: &types.AttributeValueMemberS{Value: *u.StartDate}})
	}
	if u.EndDate != nil {
		fields = append(fields, store.Field{Name: "endDate", Value: &types.AttributeValueMemberS{Value: *u.EndDate}})
	}
	return fields
}

// Budgets is the store-backed BudgetRepository.
type Budgets struct {
	db store.Store
}

// NewBudgets creates a budget repository on the given store.
func NewBudgets(db store.Store) *Budgets {
	return &Budgets{db: db}
}

// List returns every budget under the owner.
func (r *Budgets) List(ctx context.Context, userID string) ([]domain.Budget, error) {
	page, err := r.db.Query(ctx, store.Query{
		Owner:     domain.UserKey(userID),
		Sort:      store.SortCondition{Prefix: domain.BudgetPrefix},
		Ascending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	budgets := make([]domain.Budget, 0, len(page.Items))
	for _, item := range page.Items {
		var b domain.Budget
		if err := attributevalue.UnmarshalMap(item, &b); err != nil {
			return nil, fmt.Errorf("unmarshaling budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

// Get returns the budget, or nil when absent or owned by someone else.
func (r *Budgets) Get(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	item, err := r.db.Get(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.BudgetKey(budgetID)})
	if err != nil {
		return nil, fmt.Errorf("getting budget %s: %w", budgetID, err)
	}
	if item == nil {
		return nil, nil
	}
	var b domain.Budget
	if err := attributevalue.UnmarshalMap(item, &b); err != nil {
		return nil, fmt.Errorf("unmarshaling budget %s: %w", budgetID, err)
	}
	return &b, nil
}

// Create stores a new budget with a fresh id and timestamps.
func (r *Budgets) Create(ctx context.Context, userID string, in CreateBudgetInput) (*domain.Budget, error) {
	now := domain.NowISO()
	budget := domain.Budget{
		Entity: domain.Entity{
			UserID:    domain.UserKey(userID),
			SortKey:   domain.BudgetKey(uuid.NewString()),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Period:     in.Period,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	}

	item, err := attributevalue.MarshalMap(budget)
	if err != nil {
		return nil, fmt.Errorf("marshaling budget: %w", err)
	}
	if err := r.db.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}
	return &budget, nil
}

// Update merges the provided fields and refreshes updatedAt.
func (r *Budgets) Update(ctx context.Context, userID, budgetID string, upd BudgetUpdate) (*domain.Budget, error) {
	fields := append(upd.fields(), store.Field{
		Name:  store.UpdatedAtAttr,
		Value: &types.AttributeValueMemberS{Value: domain.NowISO()},
	})

	item, err := r.db.Update(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.BudgetKey(budgetID)}, fields)
	if err != nil {
		return nil, fmt.Errorf("updating budget %s: %w", budgetID, err)
	}
	var b domain.Budget
	if err := attributevalue.UnmarshalMap(item, &b); err != nil {
		return nil, fmt.Errorf("unmarshaling updated budget %s: %w", budgetID, err)
	}
	return &b, nil
}

// Delete removes the budget.
func (r *Budgets) Delete(ctx context.Context, userID, budgetID string) error {
	if err := r.db.Delete(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.BudgetKey(budgetID)}); err != nil {
		return fmt.Errorf("deleting budget %s: %w", budgetID, err)
	}
	return nil
}

var _ BudgetRepository = (*Budgets)(nil)
