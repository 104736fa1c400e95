package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"route-backend/pkg/utils"
)

// Recover catches panics from downstream handlers, logs the stack, and
// answers 500 with the standard error body instead of dropping the
// connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Recover] %s %s panicked: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
