package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:          "127.0.0.1:0",
		TablePrefix:       "wp_",
		JWTSecret:         "test-secret",
		JWTIssuer:         "test-issuer",
		NonceSecret:       "nonce-secret",
		NonceTTL:          time.Hour,
		StatsCacheTTL:     30 * time.Second,
		RLEnabled:         true,
		RLLimit:           60,
		RLWindow:          time.Minute,
		RetentionDays:     7,
		RetentionSchedule: "0 0 3 * * *",
		ShutdownTimeout:   time.Second,
	}
}

func TestNewApp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()

	t.Run("should_correctly_wire_dependencies", func(t *testing.T) {
		app, err := NewApp(cfg, db)
		require.NoError(t, err)

		assert.Equal(t, cfg.HTTPAddr, app.Server.Addr)
		assert.NotNil(t, app.Server.Handler, "HTTP Handler should be initialized")
		assert.Nil(t, app.Cache)
		assert.Nil(t, app.Executor)
		assert.Equal(t, "wp_linkanalyzer_sessions", app.Repo.Tables().Sessions)
	})

	t.Run("healthz_reaches_db", func(t *testing.T) {
		app, err := NewApp(cfg, db)
		require.NoError(t, err)

		mock.ExpectPing()
		rec := httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewApp_WithRedisAndRetention(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.RetentionEnabled = true

	app, err := NewApp(cfg, db)
	require.NoError(t, err)
	defer func() { _ = app.Cache.Close() }()

	assert.NotNil(t, app.Cache)
	assert.NotNil(t, app.Executor)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.RedisURL = "redis://" + addr

	_, err = NewApp(cfg, db)
	assert.ErrorContains(t, err, "redis")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.RetentionEnabled = true
	app, err := NewApp(cfg, db)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_RunListenFailureStopsJobs(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "info", "json")

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.HTTPAddr = busy.Addr().String()
	cfg.RetentionEnabled = true
	app, err := NewApp(cfg, db)
	require.NoError(t, err)

	err = app.Run(context.Background())
	assert.ErrorContains(t, err, "server crashed")
	assert.Contains(t, buf.String(), "stopping scheduled jobs")
}

func TestRun_MigrationFailureExitsNonZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.DBAutoMigrate = true
	app, err := NewApp(cfg, db)
	require.NoError(t, err)

	mock.ExpectBegin().WillReturnError(errors.New("permission denied"))
	mock.ExpectClose()

	assert.Equal(t, 1, run(app))
	assert.NoError(t, mock.ExpectationsWereMet())
}
