// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/response"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/validation"
)

// ValidateUUIDParam returns a middleware that checks that the named URL
// parameter is present and is a valid UUID.
// Returns 400 Bad Request if the parameter is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/{instrumentId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDParam("instrumentId"))
//	    r.Get("/", handler.Lots)
//	})
func ValidateUUIDParam(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)

			if id == "" {
				response.RespondError(w, http.StatusBadRequest, "valid UUID is required", param+" is missing")
				return
			}

			if err := validation.ValidateUUID(id); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
