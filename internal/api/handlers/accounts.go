package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/api/middleware"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
	"github.com/trackmyexpense/backend/internal/service"
)

// AccountsHandler handles account endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
	log      zerolog.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(accounts *service.AccountService, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{accounts: accounts, log: log}
}

type createAccountRequest struct {
	AccountName string        `json:"accountName" validate:"required"`
	AccountType string        `json:"accountType" validate:"required"`
	Balance     *domain.Money `json:"balance"`
	Currency    string        `json:"currency"`
	IsActive    *bool         `json:"isActive"`
}

type updateAccountRequest struct {
	AccountName *string       `json:"accountName"`
	AccountType *string       `json:"accountType"`
	Balance     *domain.Money `json:"balance"`
	Currency    *string       `json:"currency"`
	IsActive    *bool         `json:"isActive"`
}

// List handles GET /api/accounts
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	accounts, err := h.accounts.List(r.Context(), p.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, accounts)
}

// Get handles GET /api/accounts/{id}
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request, accountID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	account, err := h.accounts.Get(r.Context(), p.UserID, accountID)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, account)
}

// Create handles POST /api/accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if !bind(w, r, &req) {
		return
	}

	in := repository.CreateAccountInput{
		AccountName: req.AccountName,
		AccountType: domain.AccountType(req.AccountType),
		Currency:    "INR",
		IsActive:    true,
	}
	if req.Balance != nil {
		in.Balance = *req.Balance
	}
	if req.Currency != "" {
		in.Currency = req.Currency
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}

	account, err := h.accounts.Create(r.Context(), p.UserID, in)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusCreated, account)
}

// Update handles PUT /api/accounts/{id}
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request, accountID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req updateAccountRequest
	if !bind(w, r, &req) {
		return
	}

	upd := repository.AccountUpdate{
		AccountName: req.AccountName,
		Balance:     req.Balance,
		Currency:    req.Currency,
		IsActive:    req.IsActive,
	}
	if req.AccountType != nil {
		t := domain.AccountType(*req.AccountType)
		upd.AccountType = &t
	}

	account, err := h.accounts.Update(r.Context(), p.UserID, accountID, upd)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, account)
}

// Delete handles DELETE /api/accounts/{id}
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request, accountID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := h.accounts.Delete(r.Context(), p.UserID, accountID); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
