// Package handlers holds the HTTP handlers for the REST API. Each handler
// decodes and validates the request, resolves the principal, and delegates to
// its service; error kinds map to status codes in the middleware package.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trackmyexpense/backend/internal/api/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bind decodes the JSON body into dst and validates it. On failure it writes
// the error response and returns false.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var details []map[string]string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				details = append(details, map[string]string{
					"field": fe.Field(),
					"rule":  fe.Tag(),
				})
			}
		}
		middleware.WriteErrorDetails(w, http.StatusUnprocessableEntity, "Validation failed", details)
		return false
	}
	return true
}

// principal resolves the authenticated user or writes a 401.
func principal(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
	}
	return p, ok
}
