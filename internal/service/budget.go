package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/apperr"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
)

// BudgetService handles budget CRUD.
type BudgetService struct {
	budgets repository.BudgetRepository
	log     zerolog.Logger
}

// NewBudgetService creates the budget service.
func NewBudgetService(budgets repository.BudgetRepository, log zerolog.Logger) *BudgetService {
	return &BudgetService{budgets: budgets, log: log}
}

// List returns all of the user's budgets.
func (s *BudgetService) List(ctx context.Context, userID string) ([]domain.Budget, error) {
	return s.budgets.List(ctx, userID)
}

// Get returns one budget or NotFound.
func (s *BudgetService) Get(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgets.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperr.New(apperr.NotFound, "budget not found")
	}
	return budget, nil
}

// Create stores a new budget.
func (s *BudgetService) Create(ctx context.Context, userID string, in repository.CreateBudgetInput) (*domain.Budget, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.New(apperr.InvalidInput, "amount must be positive")
	}
	if !in.Period.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, "unknown budget period %q", in.Period)
	}
	if in.StartDate >= in.EndDate {
		return nil, apperr.New(apperr.InvalidInput, "endDate must be after startDate")
	}
	return s.budgets.Create(ctx, userID, in)
}

// Update merges the provided fields after verifying ownership.
func (s *BudgetService) Update(ctx context.Context, userID, budgetID string, upd repository.BudgetUpdate) (*domain.Budget, error) {
	if upd.Amount != nil && !upd.Amount.IsPositive() {
		return nil, apperr.New(apperr.InvalidInput, "amount must be positive")
	}
	if upd.Period != nil && !upd.Period.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, "unknown budget period %q", *upd.Period)
	}
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}
	return s.budgets.Update(ctx, userID, budgetID, upd)
}

// Delete removes a budget after verifying ownership.
func (s *BudgetService) Delete(ctx context.Context, userID, budgetID string) error {
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return err
	}
	return s.budgets.Delete(ctx, userID, budgetID)
}
