package middleware

import (
	"net/http"

	"github.com/lildude/fitpal/internal/app"
)

// RequireProfile rejects requests with 409 Conflict until a profile has been saved.
func RequireProfile(st *app.State) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if st.Snapshot().Profile == nil {
				http.Error(w, "profile required", http.StatusConflict)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
