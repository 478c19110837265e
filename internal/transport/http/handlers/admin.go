package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/dto"
	authmw "github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

type AdminHandler struct {
	stats     StatsReader
	retention RetentionService
	nonces    NonceIssuer
	now       func() time.Time
}

func NewAdminHandler(stats StatsReader, retention RetentionService, nonces NonceIssuer) *AdminHandler {
	return &AdminHandler{stats: stats, retention: retention, nonces: nonces, now: time.Now}
}

// RemoveOldSessions deletes sessions older than ?days= (default 7).
func (h *AdminHandler) RemoveOldSessions(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.WriteError(w, r, domain.ErrValidation("invalid_days", "days", "positive_integer", "days must be a positive integer"))
			return
		}
		days = n
	}

	deleted, err := h.retention.RemoveSessionsOlderThan(r.Context(), days, h.now())
	if err != nil {
		writeAdminFailure(w, r, err)
		return
	}

	audit(r, "remove_old_sessions").Int64("deleted", deleted).Int("days", days).Msg("admin action")
	response.WriteJSON(w, http.StatusOK, dto.RemoveOldSessionsResponse{
		Success:      true,
		Message:      fmt.Sprintf("Successfully removed %d old sessions.", deleted),
		DeletedCount: deleted,
	})
}

func (h *AdminHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.retention.PurgeAllData(r.Context()); err != nil {
		writeAdminFailure(w, r, err)
		return
	}
	audit(r, "clear_data").Msg("admin action")
	response.WriteJSON(w, http.StatusOK, dto.ClearDataResponse{
		Success: true,
		Message: "Analytics data has been cleared successfully.",
	})
}

// Nonce hands the admin UI a token for X-WP-Nonce.
func (h *AdminHandler) Nonce(w http.ResponseWriter, r *http.Request) {
	nonce, exp := h.nonces.Issue(authmw.UserID(r))
	response.WriteJSON(w, http.StatusOK, dto.NonceResponse{Success: true, Nonce: nonce, ExpiresAt: exp.UTC()})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.stats.Dashboard(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, d)
}

func (h *AdminHandler) SessionLinks(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "session_id"), 10, 64)
	if err != nil || id <= 0 {
		response.WriteError(w, r, domain.ErrInvalidSessionID())
		return
	}

	links, err := h.stats.LinksForSession(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, links)
}

// audit starts a log event naming the admin behind a destructive call.
func audit(r *http.Request, action string) *zerolog.Event {
	return zlog.Info().
		Str("action", action).
		Str("uid", authmw.UserID(r)).
		Str("role", authmw.Role(r)).
		Str("request_id", response.RequestIDFromContext(r.Context()))
}

// writeAdminFailure keeps the short {success:false, message} body for storage
// failures; anything else uses the regular error envelope.
func writeAdminFailure(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindPersistence {
		zlog.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", response.RequestIDFromContext(r.Context())).
			Msg("admin operation failed")
		response.WriteFailure(w, http.StatusInternalServerError, de.Message)
		return
	}
	response.WriteError(w, r, err)
}
