// Package handler exposes the transport over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/telemetry"
	"github.com/rs/zerolog"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	case domain.EUPSTREAM:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse logs err and writes it as a JSON error body. Server-side
// failures are also reported to Sentry.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := zerolog.Ctx(r.Context())
	ev := logger.Info()
	if status >= http.StatusInternalServerError {
		ev = logger.Error()
		telemetry.CaptureError(r.Context(), err, map[string]any{
			"code": code,
			"op":   domain.ErrorOp(err),
			"path": r.URL.Path,
		})
	}
	ev.Err(err).
		Str("code", code).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: domain.ErrorMessage(err),
		Fields:  domain.GetValidationFields(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
