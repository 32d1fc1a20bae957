package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/auth"
	"github.com/Totarae/ArrearsLetters/internal/config"
	"github.com/Totarae/ArrearsLetters/internal/model"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		ServerAddress:   "localhost:0",
		BaseURL:         "http://letters.test",
		ShortBaseURL:    "http://s.test",
		FileStoragePath: filepath.Join(dir, "url_mappings.json"),
		LettersDir:      filepath.Join(dir, "letter_links"),
		Mode:            config.ModeFile,
		AuthSecret:      "secret",
		RateRPS:         100,
		RateBurst:       100,
		LetterMaxAccess: 10,
	}
}

func TestNewServerRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	srv, backends, err := newServer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer backends.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(`{"longUrl":"https://example.com/x"}`))
	req.Header.Set("Authorization", "Bearer "+auth.New(cfg.AuthSecret).Token("op"))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var out model.ShortenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out.ShortURL, "http://s.test/"))

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+out.ID, nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://example.com/x", rec.Header().Get("Location"))
	assert.FileExists(t, cfg.FileStoragePath)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = config.ModeMemory

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, run(ctx, cfg, zap.NewNop()))
}
