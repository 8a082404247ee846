package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/apperr"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
)

// AccountService handles account CRUD. Balance changes during normal
// operation come only from the transaction engine; the update path here can
// set balance directly for administrative correction.
type AccountService struct {
	accounts repository.AccountRepository
	log      zerolog.Logger
}

// NewAccountService creates the account service.
func NewAccountService(accounts repository.AccountRepository, log zerolog.Logger) *AccountService {
	return &AccountService{accounts: accounts, log: log}
}

// List returns all of the user's accounts.
func (s *AccountService) List(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accounts.List(ctx, userID)
}

// Get returns one account or NotFound.
func (s *AccountService) Get(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperr.New(apperr.NotFound, "account not found")
	}
	return account, nil
}

// Create opens a new account.
func (s *AccountService) Create(ctx context.Context, userID string, in repository.CreateAccountInput) (*domain.Account, error) {
	if !in.AccountType.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, "unknown account type %q", in.AccountType)
	}
	account, err := s.accounts.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("sk", account.SortKey).Msg("Account created")
	return account, nil
}

// Update merges the provided fields after verifying ownership.
func (s *AccountService) Update(ctx context.Context, userID, accountID string, upd repository.AccountUpdate) (*domain.Account, error) {
	if upd.AccountType != nil && !upd.AccountType.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, "unknown account type %q", *upd.AccountType)
	}
	if _, err := s.Get(ctx, userID, accountID); err != nil {
		return nil, err
	}
	return s.accounts.Update(ctx, userID, accountID, upd)
}

// Delete removes an account after verifying ownership.
// TODO: block deletion while transactions still reference the account.
func (s *AccountService) Delete(ctx context.Context, userID, accountID string) error {
	if _, err := s.Get(ctx, userID, accountID); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, userID, accountID)
}
