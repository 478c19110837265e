package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

// OriginCheck rejects state-changing requests whose Origin (or Referer) host
// is not in allowedOrigins. Safe methods pass through.
func OriginCheck(allowedOrigins []string) func(http.Handler) http.Handler {
	allowedHosts := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			allowedHosts[strings.ToLower(u.Host)] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = r.Header.Get("Referer")
			}
			if origin == "" {
				response.WriteError(w, r, domain.ErrOriginRejected("missing_origin"))
				return
			}

			u, err := url.Parse(origin)
			if err != nil {
				response.WriteError(w, r, domain.ErrOriginRejected("invalid_origin"))
				return
			}
			if _, ok := allowedHosts[strings.ToLower(u.Host)]; !ok {
				response.WriteError(w, r, domain.ErrOriginRejected("origin_not_allowed"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
