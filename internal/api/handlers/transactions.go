package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/api/middleware"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
	"github.com/trackmyexpense/backend/internal/service"
)

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	transactions *service.TransactionService
	log          zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(transactions *service.TransactionService, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions, log: log}
}

type createTransactionRequest struct {
	AccountID       string       `json:"accountId" validate:"required"`
	CategoryID      string       `json:"categoryId" validate:"required"`
	Type            string       `json:"type" validate:"required"`
	Amount          domain.Money `json:"amount" validate:"required"`
	Description     string       `json:"description"`
	TransactionDate string       `json:"transactionDate" validate:"required"`
	ReceiptURL      string       `json:"receiptUrl"`
}

// List handles GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := repository.TransactionFilters{
		StartDate:  query.Get("startDate"),
		EndDate:    query.Get("endDate"),
		AccountID:  query.Get("accountId"),
		CategoryID: query.Get("categoryId"),
		Type:       domain.TransactionType(query.Get("type")),
		Cursor:     query.Get("nextToken"),
		Ascending:  query.Get("order") == "asc",
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || limit < 1 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filters.Limit = int32(limit)
	}

	page, err := h.transactions.List(r.Context(), p.UserID, filters)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, page)
}

// Get handles GET /api/transactions/detail?sk=...
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	sortKey := r.URL.Query().Get("sk")
	if sortKey == "" {
		middleware.WriteError(w, http.StatusBadRequest, `Missing "sk" query parameter`)
		return
	}
	tx, err := h.transactions.Get(r.Context(), p.UserID, sortKey)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, tx)
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req createTransactionRequest
	if !bind(w, r, &req) {
		return
	}

	tx, err := h.transactions.Create(r.Context(), p.UserID, repository.CreateTransactionInput{
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Type:            domain.TransactionType(req.Type),
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
		ReceiptURL:      req.ReceiptURL,
	})
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusCreated, tx)
}

// Update handles PUT /api/transactions; always 501.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	sortKey := r.URL.Query().Get("sk")
	if err := h.transactions.Update(r.Context(), p.UserID, sortKey); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
}

// Delete handles DELETE /api/transactions?sk=...
// The full composite sort key is required to address the item directly.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	sortKey := r.URL.Query().Get("sk")
	if sortKey == "" {
		middleware.WriteError(w, http.StatusBadRequest, `Missing "sk" query parameter`)
		return
	}
	if err := h.transactions.Delete(r.Context(), p.UserID, sortKey); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
