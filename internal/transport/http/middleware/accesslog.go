package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

// wrap records status and size; a handler that never writes counts as 200.
func wrap(w http.ResponseWriter, r *http.Request) chimw.WrapResponseWriter {
	return chimw.NewWrapResponseWriter(w, r.ProtoMajor)
}

func statusOf(ww chimw.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

// AccessLog writes one line per request. 5xx responses are logged at warn.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		ww := wrap(w, r)
		next.ServeHTTP(ww, r)

		status := statusOf(ww)
		ev := zlog.Info()
		if status >= http.StatusInternalServerError {
			ev = zlog.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("latency", time.Since(began)).
			Str("remote_ip", r.RemoteAddr).
			Str("request_id", response.RequestIDFromContext(r.Context())).
			Msg("http_request")
	})
}
