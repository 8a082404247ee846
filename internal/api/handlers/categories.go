package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/api/middleware"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
	"github.com/trackmyexpense/backend/internal/service"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	categories *service.CategoryService
	log        zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(categories *service.CategoryService, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, log: log}
}

type createCategoryRequest struct {
	Name      string `json:"name" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
}

type updateCategoryRequest struct {
	Name      *string `json:"name"`
	Type      *string `json:"type"`
	Icon      *string `json:"icon"`
	Color     *string `json:"color"`
	IsDefault *bool   `json:"isDefault"`
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	categories, err := h.categories.List(r.Context(), p.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request, categoryID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	category, err := h.categories.Get(r.Context(), p.UserID, categoryID)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, category)
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req createCategoryRequest
	if !bind(w, r, &req) {
		return
	}

	category, err := h.categories.Create(r.Context(), p.UserID, repository.CreateCategoryInput{
		Name:      req.Name,
		Type:      domain.TransactionType(req.Type),
		Icon:      req.Icon,
		Color:     req.Color,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request, categoryID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req updateCategoryRequest
	if !bind(w, r, &req) {
		return
	}

	upd := repository.CategoryUpdate{
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
		IsDefault: req.IsDefault,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		upd.Type = &t
	}

	category, err := h.categories.Update(r.Context(), p.UserID, categoryID, upd)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request, categoryID string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := h.categories.Delete(r.Context(), p.UserID, categoryID); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
