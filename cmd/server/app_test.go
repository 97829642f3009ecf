package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/complyloop/extract-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
		Jobs: config.JobsConfig{
			WorkerCount:   1,
			QueueSize:     10,
			TTLMinutes:    30,
			SweepSchedule: "@every 5m",
		},
		LLM: config.LLMConfig{
			GeminiAPIKey:       "test-api-key",
			StandardModel:      "gemini-2.0-flash",
			AdvancedModel:      "gemini-2.5-pro",
			MaxRetries:         1,
			RetryDelaySeconds:  1,
			ContinuationRounds: 2,
		},
	}
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.store)
	assert.NotNil(t, app.sweeper)
	assert.NotNil(t, app.modelClient)
	assert.NotNil(t, app.orchestrator)
	assert.NotNil(t, app.consolidator)
	assert.NotNil(t, app.taskQueue)
	assert.NotNil(t, app.workerPool)
	assert.NotNil(t, app.eventEmitter)
	assert.NotNil(t, app.extractionService)
}

func TestRouterHealthEndpoint(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouterRejectsMalformedSubmission(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/extractions",
		strings.NewReader("{not json"),
	)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterUnknownJobReturns404(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/extractions/0b0b44a5-4a4f-4b56-b441-430bd49b3bbb",
		nil,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
