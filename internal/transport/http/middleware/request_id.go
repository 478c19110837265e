package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID propagates the caller's X-Request-Id or mints a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(response.WithRequestID(r.Context(), reqID)))
	})
}
