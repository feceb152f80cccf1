package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"agentready/internal/log"
	"agentready/pkg/response"
)

// RecoverPanic turns a panicking handler into a 500 response and logs the stack.
func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				w.Header().Set("Connection", "close")

				log.Logger.Error("panic recovered",
					zap.Any("error", rec),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", r.Method),
					zap.String("url", r.URL.String()),
					zap.String("request_id", w.Header().Get(RequestIDHeader)),
				)

				response.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
