package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/api/middleware"
	"github.com/trackmyexpense/backend/internal/service"
)

// ProfileHandler handles profile picture endpoints.
type ProfileHandler struct {
	profile *service.ProfileService
	log     zerolog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profile *service.ProfileService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profile: profile, log: log}
}

type pictureUploadURLRequest struct {
	ContentType string `json:"contentType" validate:"required"`
}

type confirmPictureRequest struct {
	PictureKey string `json:"pictureKey" validate:"required"`
}

// CreateUploadURL handles POST /api/profile/picture/upload-url
func (h *ProfileHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req pictureUploadURLRequest
	if !bind(w, r, &req) {
		return
	}
	result, err := h.profile.RequestUploadURL(r.Context(), p.UserID, req.ContentType)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, result)
}

// Confirm handles POST /api/profile/picture
func (h *ProfileHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req confirmPictureRequest
	if !bind(w, r, &req) {
		return
	}
	result, err := h.profile.Confirm(r.Context(), p.UserID, req.PictureKey)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, result)
}

// Get handles GET /api/profile/picture
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	result, err := h.profile.Get(r.Context(), p.UserID)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, result)
}

// Delete handles DELETE /api/profile/picture
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := h.profile.Delete(r.Context(), p.UserID); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteSuccess(w, http.StatusOK, map[string]string{"message": "Profile picture deleted"})
}
