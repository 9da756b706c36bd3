package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

func lokiServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestLogBackend_QueryRange(t *testing.T) {
	body := `{"data":{"result":[{"stream":{},"values":[["1700000000000000000","ERROR pod crashed"],["1700000001000000000","INFO healthy again"]]}]}}`
	server := lokiServer(t, body, http.StatusOK)
	defer server.Close()

	backend := NewLogBackend(server.URL, 5*time.Second)
	logs, err := backend.QueryRange(context.Background(), "prod", "web-0", 5*time.Minute, 100)
	if err != nil {
		t.Fatalf("QueryRange() returned error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	if logs[0].Level != domain.LogLevelError {
		t.Errorf("logs[0].Level = %v, want Error", logs[0].Level)
	}
	if logs[0].PodName != "web-0" {
		t.Errorf("logs[0].PodName = %q, want web-0", logs[0].PodName)
	}
	if logs[1].Level != domain.LogLevelInfo {
		t.Errorf("logs[1].Level = %v, want Info", logs[1].Level)
	}
}

func TestLogBackend_QueryRange_CapsAtMaxLines(t *testing.T) {
	body := `{"data":{"result":[{"stream":{},"values":[["1","line one"],["2","line two"],["3","line three"]]}]}}`
	server := lokiServer(t, body, http.StatusOK)
	defer server.Close()

	backend := NewLogBackend(server.URL, 5*time.Second)
	logs, err := backend.QueryRange(context.Background(), "prod", "web-0", time.Minute, 2)
	if err != nil {
		t.Fatalf("QueryRange() returned error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2 (capped by maxLines)", len(logs))
	}
}

func TestLogBackend_QueryRange_NonOKStatusIsAnError(t *testing.T) {
	server := lokiServer(t, `{"error":"boom"}`, http.StatusInternalServerError)
	defer server.Close()

	backend := NewLogBackend(server.URL, 5*time.Second)
	_, err := backend.QueryRange(context.Background(), "prod", "web-0", time.Minute, 10)
	if err == nil {
		t.Fatal("expected an error for a non-200 loki response")
	}
	if !apierrors.IsKind(err, apierrors.KindLogBackend) {
		t.Errorf("expected a LogBackend-kind error, got %v", err)
	}
}

func TestLogBackend_QueryRange_InvalidJSONIsAnError(t *testing.T) {
	server := lokiServer(t, `not json`, http.StatusOK)
	defer server.Close()

	backend := NewLogBackend(server.URL, 5*time.Second)
	_, err := backend.QueryRange(context.Background(), "prod", "web-0", time.Minute, 10)
	if err == nil {
		t.Fatal("expected an error for a malformed loki response body")
	}
}

func TestClassifyLevel(t *testing.T) {
	tests := []struct {
		line string
		want domain.LogLevel
	}{
		{"ERROR something broke", domain.LogLevelError},
		{"error lowercase", domain.LogLevelError},
		{"WARN disk filling up", domain.LogLevelWarn},
		{"warn lowercase", domain.LogLevelWarn},
		{"DEBUG verbose detail", domain.LogLevelDebug},
		{"TRACE deep detail", domain.LogLevelTrace},
		{"all systems nominal", domain.LogLevelInfo},
	}
	for _, tt := range tests {
		if got := classifyLevel(tt.line); got != tt.want {
			t.Errorf("classifyLevel(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	if !contains("hello world", "wor") {
		t.Error("contains() should find an embedded substring")
	}
	if contains("hello", "xyz") {
		t.Error("contains() should not find an absent substring")
	}
	if !contains("exact", "exact") {
		t.Error("contains() should match an identical string")
	}
}
