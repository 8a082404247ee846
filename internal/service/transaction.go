// Package service holds the business logic on top of the repositories. The
// transaction service is the balance consistency engine: the only code path
// that creates or deletes transactions, always coupled with the owning
// account's balance adjustment in a single atomic write.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/apperr"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
	"github.com/trackmyexpense/backend/internal/store"
)

// TransactionService orchestrates atomic transaction/balance mutations
// across the transaction and account repositories.
type TransactionService struct {
	db           store.Store
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	log          zerolog.Logger
}

// NewTransactionService wires the engine.
func NewTransactionService(db store.Store, transactions repository.TransactionRepository, accounts repository.AccountRepository, log zerolog.Logger) *TransactionService {
	return &TransactionService{
		db:           db,
		transactions: transactions,
		accounts:     accounts,
		log:          log,
	}
}

// List returns one page of the user's transactions.
func (s *TransactionService) List(ctx context.Context, userID string, f repository.TransactionFilters) (*repository.TransactionPage, error) {
	return s.transactions.List(ctx, userID, f)
}

// Get returns the transaction for its full composite sort key.
func (s *TransactionService) Get(ctx context.Context, userID, sortKey string) (*domain.Transaction, error) {
	tx, err := s.transactions.Get(ctx, userID, sortKey)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperr.New(apperr.NotFound, "transaction not found")
	}
	return tx, nil
}

// Create records a transaction and applies its signed amount to the owning
// account's balance in one atomic write. On a retryable failure the caller
// reruns the whole call - including the account re-read - from scratch; each
// attempt mints a fresh transaction id, so Create is not idempotent.
func (s *TransactionService) Create(ctx context.Context, userID string, in repository.CreateTransactionInput) (*domain.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.New(apperr.InvalidInput, "amount must be positive")
	}
	if !in.Type.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, "unknown transaction type %q", in.Type)
	}
	if _, err := time.Parse(time.RFC3339, in.TransactionDate); err != nil {
		return nil, apperr.New(apperr.InvalidInput, "transactionDate must be an ISO 8601 datetime")
	}

	account, err := s.accounts.Get(ctx, userID, in.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperr.New(apperr.NotFound, "account not found")
	}

	tx, putOp, err := s.transactions.BuildCreateOp(userID, in)
	if err != nil {
		return nil, err
	}
	balanceOp := s.accounts.BalanceDeltaOp(userID, in.AccountID, tx.SignedAmount())

	if err := s.db.AtomicWrite(ctx, []store.WriteOp{putOp, balanceOp}); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID).
		Str("account_id", in.AccountID).
		Str("sk", tx.SortKey).
		Str("type", string(in.Type)).
		Msg("Transaction created")

	// The atomic write succeeded, so the stored balance already reflects
	// this entity exactly.
	return tx, nil
}

// Delete removes a transaction and reverses its balance effect in one atomic
// write. The reversal targets the transaction's own account, never one named
// by the caller.
func (s *TransactionService) Delete(ctx context.Context, userID, sortKey string) error {
	tx, err := s.Get(ctx, userID, sortKey)
	if err != nil {
		return err
	}

	deleteOp := s.transactions.BuildDeleteOp(userID, sortKey)
	balanceOp := s.accounts.BalanceDeltaOp(userID, tx.AccountID, tx.SignedAmount().Neg())

	if err := s.db.AtomicWrite(ctx, []store.WriteOp{deleteOp, balanceOp}); err != nil {
		return err
	}

	s.log.Info().
		Str("user_id", userID).
		Str("account_id", tx.AccountID).
		Str("sk", sortKey).
		Msg("Transaction deleted")
	return nil
}

// Update is deliberately unsupported: an in-place change of amount, type or
// account would need a combined reversal-and-reapply delta. Callers edit by
// deleting and recreating.
func (s *TransactionService) Update(ctx context.Context, userID, sortKey string) error {
	return apperr.New(apperr.NotImplemented, "transaction update is not implemented; delete and recreate instead")
}
