package response

import (
	"errors"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

type ErrorBody struct {
	Success bool         `json:"success"`
	Error   ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Kind      string            `json:"kind"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// FailureBody is the short form used when an admin operation fails server side.
type FailureBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteError converts a domain error into a consistent JSON HTTP error response.
// Non-domain errors are treated as internal errors (500) without leaking details.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	payload := ErrorPayload{
		Kind:    string(domain.KindInternal),
		Code:    "internal_error",
		Message: "internal error",
	}

	var de *domain.Error
	if errors.As(err, &de) {
		status = StatusFromKind(de.Kind)
		payload.Kind = string(de.Kind)
		payload.Code = de.Code
		payload.Message = de.Message
		payload.Meta = de.Meta
	}
	if status >= http.StatusInternalServerError {
		// causes stay in logs only
		zlog.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("request failed")
	}

	payload.RequestID = RequestIDFromContext(r.Context())
	WriteJSON(w, status, ErrorBody{Success: false, Error: payload})
}

// WriteFailure writes {success:false, message} with the given status.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, FailureBody{Success: false, Message: message})
}

// StatusFromKind maps domain error kinds to HTTP status codes.
func StatusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
