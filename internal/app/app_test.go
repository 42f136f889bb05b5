package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBBackend:             "sqlite",
		DBPath:                filepath.Join(t.TempDir(), "app.db"),
		JWTKey:                []byte("app-test-secret-0123456789abcdefghij"),
		AccessTTL:             time.Minute,
		RefreshTTL:            time.Hour,
		AdminWhatsApp:         "919876543210",
		ReminderTime:          "09:30",
		Location:              time.UTC,
		ReminderOffsetDays:    30,
		ReminderRetentionDays: 90,
		AddOnPolicy:           "skip",
		RateLimit:             5,
		RateLimitWindow:       time.Minute,
		UploadDir:             filepath.Join(t.TempDir(), "uploads"),
	}
}

func TestNewWiresSQLite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(context.Background(), testConfig(t), logger)
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	api, err := a.API()
	require.NoError(t, err)
	assert.DirExists(t, a.Config.UploadDir)

	rec := httptest.NewRecorder()
	api.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	sched, err := a.Scheduler()
	require.NoError(t, err)
	assert.NotNil(t, sched)
}

func TestNewRejectsUnknownAddOnPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.AddOnPolicy = "sometimes"
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
