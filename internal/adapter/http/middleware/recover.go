package middleware

import (
	"fmt"
	"net/http"

	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
)

// Recover turns handler panics into a 500 response instead of killing the
// connection goroutine silently.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				err := fmt.Errorf("%v", p)
				m.log.Error(wrap.ErrorCtx(r.Context(), err), "recovered from panic", err, "path", r.URL.Path)

				w.Header().Set("Connection", "close")
				errorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
