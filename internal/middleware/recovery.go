package middleware

import (
	"fmt"
	"net/http"

	"lab-reception/internal/logging"

	"go.uber.org/zap"
)

func PanicRecovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logging.For(r.Context(), logger).Error("panic recovered",
						zap.Any("panic", err),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `{"error": "Error interno del servidor"}`)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
