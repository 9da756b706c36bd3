package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
)

func TestStore_Upsert(t *testing.T) {
	var captured upsertRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	store := New(server.URL, "healing_events", 5*time.Second)
	id := uuid.New()
	err := store.Upsert(context.Background(), []Point{{ID: id, Vector: []float32{0.1, 0.2}, Payload: map[string]any{"topic": "memory_issues"}}})
	if err != nil {
		t.Fatalf("Upsert() returned error: %v", err)
	}
	if len(captured.Points) != 1 {
		t.Fatalf("len(captured.Points) = %d, want 1", len(captured.Points))
	}
	if captured.Points[0].ID != id.String() {
		t.Errorf("captured point ID = %q, want %q", captured.Points[0].ID, id.String())
	}
}

func TestStore_Upsert_NonOKStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error"}`))
	}))
	defer server.Close()

	store := New(server.URL, "healing_events", 5*time.Second)
	err := store.Upsert(context.Background(), []Point{{ID: uuid.New(), Vector: []float32{0.1}}})
	if err == nil {
		t.Fatal("expected an error for a non-2xx qdrant response")
	}
	if !apierrors.IsKind(err, apierrors.KindVectorStore) {
		t.Errorf("expected a VectorStore-kind error, got %v", err)
	}
}

func TestStore_Search(t *testing.T) {
	id := uuid.New()
	response := `{"result":[{"id":"` + id.String() + `","score":0.92,"payload":{"topic":"memory_issues"}}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	}))
	defer server.Close()

	store := New(server.URL, "healing_events", 5*time.Second)
	results, err := store.Search(context.Background(), []float32{0.1, 0.2}, 5, nil)
	if err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].ID != id {
		t.Errorf("results[0].ID = %v, want %v", results[0].ID, id)
	}
	if results[0].Score != 0.92 {
		t.Errorf("results[0].Score = %v, want 0.92", results[0].Score)
	}
}

func TestStore_Search_SkipsUnparseableIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result":[{"id":"not-a-uuid","score":0.5,"payload":{}}]}`))
	}))
	defer server.Close()

	store := New(server.URL, "healing_events", 5*time.Second)
	results, err := store.Search(context.Background(), []float32{0.1}, 5, nil)
	if err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 since the only result has an unparseable ID", len(results))
	}
}
