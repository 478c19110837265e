package handlers

import (
	"context"
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

// WithCache adds the stats cache to the report.
func (h *HealthHandler) WithCache(cache Pinger) *HealthHandler {
	h.cache = cache
	return h
}

// Healthz reports ok only while the database answers. The cache is optional:
// when configured its state is reported but never fails the check.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		response.WriteError(w, r, domain.ErrDBUnavailable(err))
		return
	}

	body := map[string]string{"status": "ok"}
	if h.cache != nil {
		body["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			zlog.Warn().Err(err).Msg("stats cache ping failed")
			body["cache"] = "unavailable"
		}
	}
	response.WriteJSON(w, http.StatusOK, body)
}

