// Package repository maps domain entities onto the keyed store. Each
// repository is a capability set over one entity kind, implemented by a
// concrete store-backed type; services depend on the interfaces.
package repository

import (
	"context"

	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/store"
)

// AccountRepository manages accounts under one owner. BalanceDeltaOp is a
// pure builder with no side effect so the balance consistency engine can
// batch it with transaction writes.
type AccountRepository interface {
	List(ctx context.Context, userID string) ([]domain.Account, error)
	Get(ctx context.Context, userID, accountID string) (*domain.Account, error)
	Create(ctx context.Context, userID string, in CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, userID, accountID string, upd AccountUpdate) (*domain.Account, error)
	Delete(ctx context.Context, userID, accountID string) error
	BalanceDeltaOp(userID, accountID string, delta domain.Money) store.WriteOp
}

// TransactionRepository reads transactions and builds the write operations
// the engine submits atomically. There is deliberately no plain Create or
// Delete: every transaction mutation goes through the engine.
type TransactionRepository interface {
	List(ctx context.Context, userID string, f TransactionFilters) (*TransactionPage, error)
	Get(ctx context.Context, userID, sortKey string) (*domain.Transaction, error)
	BuildCreateOp(userID string, in CreateTransactionInput) (*domain.Transaction, store.WriteOp, error)
	BuildDeleteOp(userID, sortKey string) store.WriteOp
}

// CategoryRepository manages categories under one owner.
type CategoryRepository interface {
	List(ctx context.Context, userID string) ([]domain.Category, error)
	Get(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	Create(ctx context.Context, userID string, in CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, userID, categoryID string, upd CategoryUpdate) (*domain.Category, error)
	Delete(ctx context.Context, userID, categoryID string) error
}

// BudgetRepository manages budgets under one owner.
type BudgetRepository interface {
	List(ctx context.Context, userID string) ([]domain.Budget, error)
	Get(ctx context.Context, userID, budgetID string) (*domain.Budget, error)
	Create(ctx context.Context, userID string, in CreateBudgetInput) (*domain.Budget, error)
	Update(ctx context.Context, userID, budgetID string, upd BudgetUpdate) (*domain.Budget, error)
	Delete(ctx context.Context, userID, budgetID string) error
}

// ProfileRepository manages the single profile-picture record per owner.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.ProfilePicture, error)
	Put(ctx context.Context, userID, pictureKey string) (*domain.ProfilePicture, error)
	Delete(ctx context.Context, userID string) error
}
