package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantCode   string
	}{
		{"validation", domain.ErrLinkItem("empty_link_text", 2, "text", "not_empty", "x"), http.StatusBadRequest, "validation", "empty_link_text"},
		{"auth", domain.ErrTokenMissing(), http.StatusUnauthorized, "auth", "token_missing"},
		{"nonce", domain.ErrInvalidNonce(), http.StatusForbidden, "forbidden", "invalid_nonce"},
		{"not_found", domain.ErrSessionNotFound(9), http.StatusNotFound, "not_found", "session_not_found"},
		{"rate_limited", domain.ErrRateLimited("ip"), http.StatusTooManyRequests, "rate_limited", "rate_limited"},
		{"persistence", domain.ErrPersistence("data_insertion_failed", "failed to save page view data", errors.New("pq: boom")), http.StatusInternalServerError, "persistence", "data_insertion_failed"},
		{"infrastructure", domain.ErrDBUnavailable(errors.New("refused")), http.StatusServiceUnavailable, "infrastructure", "db_unavailable"},
		{"plain_error", errors.New("db crash"), http.StatusInternalServerError, "internal", "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithRequestID(req.Context(), "req-1"))

			WriteError(rr, req, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantKind, body.Error.Kind)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, "req-1", body.Error.RequestID)
			assert.NotContains(t, rr.Body.String(), "pq: boom")
		})
	}
}

func TestWriteError_Meta(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodPost, "/", nil),
		domain.ErrLinkItem("invalid_link_href_format", 1, "href", "url", "bad"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"field": "href", "index": "1", "rule": "url"}, body.Error.Meta)
}

func TestWriteFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteFailure(rr, http.StatusInternalServerError, "Failed to remove old sessions.")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to remove old sessions."}`, rr.Body.String())
}

func TestOK(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, map[string]int{"n": 1})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"n":1}}`, rr.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		A int `json:"a"`
	}

	t.Run("ok", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":3}`))
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &p))
		assert.Equal(t, 3, p.A)
	})

	for name, body := range map[string]string{
		"malformed": `{"a":`,
		"trailing":  `{"a":1}{"a":2}`,
		"empty":     ``,
		"oversized": `{"a":"` + strings.Repeat("x", MaxBodyBytes) + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			var p payload
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			err := DecodeJSON(httptest.NewRecorder(), req, &p)
			assert.True(t, domain.Is(err, "invalid_json"))
		})
	}
}
