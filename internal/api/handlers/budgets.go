package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/api/middleware"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
	"github.com/trackmyexpense/backend/internal/service"
)

// BudgetsHandler handles budget endpoints.
type BudgetsHandler struct {
	budgets *service.BudgetService
	log     zerolog.Logger
}

// NewBudgetsHandler creates a new budgets handler.
func NewBudgetsHandler(budgets *service.BudgetService, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{budgets: budgets, log: log}
}

type createBudgetRequest struct {
	CategoryID string       `json:"categoryId" validate:"required"`
	Amount     domain.Money `json:"amount" validate:"required"`
	Period     string       `json:"period" validate:"required"`
	StartDate  string       `json:"startDate" validate:"required"`
	EndDate    string       `json:"endDate" validate:"required"`
}

type updateBudgetRequest struct {
	Amount    *domain.Money `json:"amount"`
	Period    *string       `json:"period"`
	StartDate *string       `json:"startDate"`
	EndDate   *string       `json:"endDate"`
}

// List handles GET /api/budgets
func (h *BudgetsHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	budgets, err := h.budgets.List(r.Context(), p.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list budgets")
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, budgets)
}

// Get handles GET /api/budgets/{id}
func (h *BudgetsHandler) Get(w http.ResponseWriter, r *http.Request, budgetID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	budget, err := h.budgets.Get(r.Context(), p.UserID, budgetID)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, budget)
}

// Create handles POST /api/budgets
func (h *BudgetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req createBudgetRequest
	if !bind(w, r, &req) {
		return
	}

	budget, err := h.budgets.Create(r.Context(), p.UserID, repository.CreateBudgetInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Period:     domain.BudgetPeriod(req.Period),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusCreated, budget)
}

// Update handles PUT /api/budgets/{id}
func (h *BudgetsHandler) Update(w http.ResponseWriter, r *http.Request, budgetID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req updateBudgetRequest
	if !bind(w, r, &req) {
		return
	}

	upd := repository.BudgetUpdate{
		Amount:    req.Amount,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Period != nil {
		period := domain.BudgetPeriod(*req.Period)
		upd.Period = &period
	}

	budget, err := h.budgets.Update(r.Context(), p.UserID, budgetID, upd)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, budget)
}

// Delete handles DELETE /api/budgets/{id}
func (h *BudgetsHandler) Delete(w http.ResponseWriter, r *http.Request, budgetID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := h.budgets.Delete(r.Context(), p.UserID, budgetID); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, map[string]string{"message": "Budget deleted"})
}
