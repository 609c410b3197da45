package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/relayctl/internal/testutil/testlog"
)

func TestAdminHealthRoute(t *testing.T) {
	testlog.Start(t)
	svc := NewServiceWithConfig(ServiceConfig{NodeID: "relay.test"})
	r := svc.adminRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" || body["node"] != "relay.test" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestAdminStatsRoute(t *testing.T) {
	testlog.Start(t)
	svc := NewServiceWithConfig(ServiceConfig{NodeID: "relay.test"})
	r := svc.adminRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode stats body: %v", err)
	}
	if _, ok := body["active_connections"]; !ok {
		t.Fatalf("missing active_connections: %v", body)
	}
}

func TestAdminMetricsRoute(t *testing.T) {
	testlog.Start(t)
	svc := NewServiceWithConfig(ServiceConfig{NodeID: "relay.test"})
	r := svc.adminRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("expected prometheus exposition output")
	}
}
