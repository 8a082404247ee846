package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/api/middleware"
	"github.com/trackmyexpense/backend/internal/receipts"
	"github.com/trackmyexpense/backend/internal/service"
)

const receiptUploadExpiry = 5 * time.Minute

// ReceiptsHandler issues signed upload URLs for transaction receipts. The
// returned object name is what callers put in a transaction's receiptUrl.
type ReceiptsHandler struct {
	signer service.MediaSigner
	log    zerolog.Logger
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(signer service.MediaSigner, log zerolog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{signer: signer, log: log}
}

type receiptUploadURLRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

// CreateUploadURL handles POST /api/receipts/upload-url
func (h *ReceiptsHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req receiptUploadURLRequest
	if !bind(w, r, &req) {
		return
	}

	// Strip any path component the client sent along.
	object := receipts.ObjectName(p.UserID, filepath.Base(req.Filename))
	url, err := h.signer.UploadURL(object, req.ContentType, receiptUploadExpiry)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", p.UserID).Msg("Failed to sign receipt upload URL")
		middleware.WriteAppError(w, err)
		return
	}

	middleware.WriteSuccess(w, http.StatusOK, map[string]string{
		"uploadUrl":  url,
		"receiptKey": object,
	})
}
