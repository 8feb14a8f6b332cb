package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"log/slog"

	"perfhub/internal/apperror"
	"perfhub/internal/platform/requestctx"
	"perfhub/internal/transport/http/api"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
					"requestId", requestctx.GetRequestID(r.Context()),
				)
				api.Error(r.Context(), w, apperror.Internal(fmt.Errorf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
