package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/b2b-quotes/pkg/config"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	resp := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": ok, "redis": nil})(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get(envHeader))

	resp = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": ok, "redis": down})(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "connection refused")
}

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(&config.Config{})(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}
