package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/statsboard/statsboard/internal/api/response"
)

// AdminKey is middleware that compares the X-API-Key header against a bcrypt
// hash. Missing or mismatched keys return 401.
func AdminKey(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get("X-API-Key")
			if rawKey == "" {
				response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "API key is required", requestID)
				return
			}

			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawKey)) != nil {
				response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid API key", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
