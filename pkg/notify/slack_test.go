package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
)

func TestNotify_NilConfigIsANoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer server.Close()

	n := NewSlackNotifier(logr.Discard())
	if err := n.Notify(context.Background(), nil, Outcome{}); err != nil {
		t.Fatalf("Notify() returned error: %v", err)
	}
	if called {
		t.Error("expected no request for a nil config")
	}
}

func TestNotify_DisabledConfigIsANoop(t *testing.T) {
	webhook := "http://example.invalid/webhook"
	cfg := &v1alpha1.NotificationConfig{Enabled: false, SlackWebhook: &webhook}

	n := NewSlackNotifier(logr.Discard())
	if err := n.Notify(context.Background(), cfg, Outcome{}); err != nil {
		t.Fatalf("Notify() returned error: %v", err)
	}
}

func TestNotify_EmptyWebhookIsANoop(t *testing.T) {
	empty := ""
	cfg := &v1alpha1.NotificationConfig{Enabled: true, SlackWebhook: &empty}

	n := NewSlackNotifier(logr.Discard())
	if err := n.Notify(context.Background(), cfg, Outcome{}); err != nil {
		t.Fatalf("Notify() returned error: %v", err)
	}
}

func TestNotify_NilWebhookIsANoop(t *testing.T) {
	cfg := &v1alpha1.NotificationConfig{Enabled: true}

	n := NewSlackNotifier(logr.Discard())
	if err := n.Notify(context.Background(), cfg, Outcome{}); err != nil {
		t.Fatalf("Notify() returned error: %v", err)
	}
}

func TestNotify_PostsToConfiguredWebhook(t *testing.T) {
	received := make(chan *http.Request, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	webhook := server.URL
	cfg := &v1alpha1.NotificationConfig{Enabled: true, SlackWebhook: &webhook}

	n := NewSlackNotifier(logr.Discard())
	outcome := Outcome{Namespace: "prod", PodName: "web-0", Success: true, RootCause: "OOMKilled", Message: "healing verified successful", DurationMs: 1500}
	if err := n.Notify(context.Background(), cfg, outcome); err != nil {
		t.Fatalf("Notify() returned error: %v", err)
	}

	select {
	case r := <-received:
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
	default:
		t.Fatal("expected a request to reach the webhook server")
	}
}

func TestNotify_WebhookErrorIsPropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	webhook := server.URL
	cfg := &v1alpha1.NotificationConfig{Enabled: true, SlackWebhook: &webhook}

	n := NewSlackNotifier(logr.Discard())
	if err := n.Notify(context.Background(), cfg, Outcome{}); err == nil {
		t.Fatal("expected an error for a non-2xx webhook response")
	}
}

func TestResultEmoji(t *testing.T) {
	if got := resultEmoji(true); got != ":white_check_mark:" {
		t.Errorf("resultEmoji(true) = %q", got)
	}
	if got := resultEmoji(false); got != ":x:" {
		t.Errorf("resultEmoji(false) = %q", got)
	}
}

func TestResultColor(t *testing.T) {
	if got := resultColor(true); got != "good" {
		t.Errorf("resultColor(true) = %q", got)
	}
	if got := resultColor(false); got != "danger" {
		t.Errorf("resultColor(false) = %q", got)
	}
}
