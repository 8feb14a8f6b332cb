// Package api is the single boundary where service results become HTTP
// responses: JSON encoding plus the error-kind to status-code mapping.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"perfhub/internal/apperror"
	"perfhub/internal/platform/requestctx"
)

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Error maps a typed error to its status code. Internal failures are logged
// with their cause and rendered as a generic message.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: "internal server error"}

	if appErr, ok := apperror.As(err); ok {
		switch appErr.Kind {
		case apperror.KindValidation:
			status = http.StatusBadRequest
		case apperror.KindAuthentication:
			status = http.StatusUnauthorized
		case apperror.KindAuthorization:
			status = http.StatusForbidden
		case apperror.KindNotFound:
			status = http.StatusNotFound
		case apperror.KindInternal:
			status = http.StatusInternalServerError
		}
		if appErr.Kind != apperror.KindInternal {
			body = errorBody{Error: appErr.Message, Fields: appErr.Fields}
		}
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "err", err, "requestId", requestctx.GetRequestID(ctx))
	}
	WriteJSON(w, status, body)
}
