package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/response"
)

// APIKeyHeader carries the key that protects write endpoints.
const APIKeyHeader = "X-API-Key"

// APIKey returns a middleware that rejects requests whose X-API-Key header does
// not match key. When no key is configured every protected request is refused.
//
// Example usage in router:
//
//	r.With(middleware.APIKey(cfg.Security.APIKey)).Post("/", handler.CreateMovement)
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				response.RespondError(w, http.StatusInternalServerError, "server misconfigured", "API key is not configured")
				return
			}

			provided := r.Header.Get(APIKeyHeader)
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
