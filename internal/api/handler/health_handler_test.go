package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func readiness(t *testing.T, p Pinger) (int, readinessResponse) {
	t.Helper()
	c, rec := newContext(http.MethodGet, "/health/ready", nil, "", nil)
	if err := NewHealthDependenciesHandler(p).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", nil, "", nil)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	wantStatus(t, rec, http.StatusOK)
}

func TestHealthHandler_Readiness(t *testing.T) {
	code, resp := readiness(t, nil)
	if code != http.StatusOK || resp.Dependencies["redis"].Status != "disabled" {
		t.Fatalf("expected ok with redis disabled, got %d %+v", code, resp)
	}

	code, resp = readiness(t, stubPinger{})
	if code != http.StatusOK || resp.Dependencies["redis"].Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", code, resp)
	}

	code, resp = readiness(t, stubPinger{err: errors.New("connection refused")})
	if code != http.StatusServiceUnavailable || resp.Status != "degraded" {
		t.Fatalf("expected degraded, got %d %+v", code, resp)
	}
	if resp.Dependencies["redis"].Error != "connection refused" {
		t.Fatalf("expected ping error to be reported, got %+v", resp.Dependencies["redis"])
	}
}
