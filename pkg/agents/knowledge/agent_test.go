package knowledge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/internal/eventbus"
	"github.com/ErdemAslans/ReCiSt/pkg/ai/llm"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
	"github.com/ErdemAslans/ReCiSt/pkg/storage/cache"
	"github.com/ErdemAslans/ReCiSt/pkg/storage/vector"
)

type stubEmbeddingClient struct {
	embedding []float32
	err       error
}

func (s *stubEmbeddingClient) Complete(ctx context.Context, prompt string) (string, error) { return "", nil }
func (s *stubEmbeddingClient) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return "", nil
}
func (s *stubEmbeddingClient) Diagnose(ctx context.Context, request llm.DiagnosisRequest) (domain.LlmDiagnosisResponse, error) {
	return domain.LlmDiagnosisResponse{}, nil
}
func (s *stubEmbeddingClient) EvaluateStrategy(ctx context.Context, request llm.StrategyEvaluationRequest) (domain.StrategyEvaluation, error) {
	return domain.StrategyEvaluation{}, nil
}
func (s *stubEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return s.embedding, s.err
}
func (s *stubEmbeddingClient) ProviderName() string { return "stub" }
func (s *stubEmbeddingClient) ModelName() string    { return "stub-model" }

func newTestVectorStore(t *testing.T, handler http.HandlerFunc) (*vector.Store, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	return vector.New(server.URL, "healing_events", 5*time.Second), server.Close
}

func TestRecordHealingEvent_EmbedsAndUpsertsAndCaches(t *testing.T) {
	store, closeServer := newTestVectorStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	defer closeServer()

	recency := cache.NewMemoryCache()
	bus := eventbus.New(logr.Discard())
	client := &stubEmbeddingClient{embedding: []float32{0.1, 0.2}}

	agent := New(client, store, recency, bus, logr.Discard(), v1alpha1.KnowledgeConfig{KnowledgeTTLDays: 90})

	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "web-0", RootCause: "OOMKilled", Explanation: "exceeded memory limit"}
	strategy := domain.SolutionStrategy{Type: domain.StrategyVerticalScale, PlannedActions: []domain.PlannedAction{{Description: "bump memory limit"}}}
	result := domain.ActionResult{Success: true, DurationMs: 1200}

	entry, err := agent.RecordHealingEvent(context.Background(), uuid.New(), hypothesis, strategy, result)
	if err != nil {
		t.Fatalf("RecordHealingEvent() returned error: %v", err)
	}
	if entry.Topic != domain.TopicMemoryIssues {
		t.Errorf("Topic = %v, want TopicMemoryIssues", entry.Topic)
	}
	if entry.Solution.Description != "bump memory limit" {
		t.Errorf("Solution.Description = %q, want %q", entry.Solution.Description, "bump memory limit")
	}

	cached, err := recency.Get(context.Background(), entry.ID.String())
	if err != nil {
		t.Fatalf("expected the entry to be cached: %v", err)
	}
	if cached.Namespace != "prod" {
		t.Errorf("cached.Namespace = %q, want prod", cached.Namespace)
	}
}

func TestRecordHealingEvent_EmbeddingFailureStillCaches(t *testing.T) {
	store, closeServer := newTestVectorStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("the vector store should not be called when embedding fails")
	})
	defer closeServer()

	recency := cache.NewMemoryCache()
	bus := eventbus.New(logr.Discard())
	client := &stubEmbeddingClient{err: context.DeadlineExceeded}

	agent := New(client, store, recency, bus, logr.Discard(), v1alpha1.KnowledgeConfig{KnowledgeTTLDays: 90})

	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "web-0", RootCause: "Unknown"}
	entry, err := agent.RecordHealingEvent(context.Background(), uuid.New(), hypothesis, domain.SolutionStrategy{}, domain.ActionResult{})
	if err != nil {
		t.Fatalf("RecordHealingEvent() returned error: %v", err)
	}

	if _, err := recency.Get(context.Background(), entry.ID.String()); err != nil {
		t.Errorf("expected the entry to still be cached when embedding fails: %v", err)
	}
}

func TestFindSimilarEvents_PrefersCacheOverVectorSearch(t *testing.T) {
	store, closeServer := newTestVectorStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("vector search should not run when the cache already has entries")
	})
	defer closeServer()

	recency := cache.NewMemoryCache()
	cachedEntry := domain.KnowledgeEntry{ID: uuid.New(), Namespace: "prod"}
	recency.Put(context.Background(), cachedEntry, time.Hour)

	bus := eventbus.New(logr.Discard())
	agent := New(&stubEmbeddingClient{}, store, recency, bus, logr.Discard(), v1alpha1.KnowledgeConfig{SimilarityThreshold: 0.8})

	results, err := agent.FindSimilarEvents(context.Background(), "prod", "irrelevant query")
	if err != nil {
		t.Fatalf("FindSimilarEvents() returned error: %v", err)
	}
	if len(results) != 1 || results[0].Entry.ID != cachedEntry.ID {
		t.Errorf("results = %+v, want the single cached entry", results)
	}
}

func TestFindSimilarEvents_FallsBackToVectorSearchWhenCacheEmpty(t *testing.T) {
	matchID := uuid.New()
	store, closeServer := newTestVectorStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result":[{"id":"` + matchID.String() + `","score":0.9,"payload":{"namespace":"prod","root_cause":"OOMKilled"}}]}`))
	})
	defer closeServer()

	recency := cache.NewMemoryCache()
	bus := eventbus.New(logr.Discard())
	client := &stubEmbeddingClient{embedding: []float32{0.1, 0.2}}
	agent := New(client, store, recency, bus, logr.Discard(), v1alpha1.KnowledgeConfig{SimilarityThreshold: 0.8})

	results, err := agent.FindSimilarEvents(context.Background(), "prod", "pod keeps restarting")
	if err != nil {
		t.Fatalf("FindSimilarEvents() returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Entry.Diagnosis.RootCause != "OOMKilled" {
		t.Errorf("RootCause = %q, want OOMKilled", results[0].Entry.Diagnosis.RootCause)
	}
}

func TestFindSimilarEvents_NoEmbeddingReturnsNilWithoutError(t *testing.T) {
	store, closeServer := newTestVectorStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("vector search should not run when embedding the query fails")
	})
	defer closeServer()

	recency := cache.NewMemoryCache()
	bus := eventbus.New(logr.Discard())
	client := &stubEmbeddingClient{err: context.DeadlineExceeded}
	agent := New(client, store, recency, bus, logr.Discard(), v1alpha1.KnowledgeConfig{})

	results, err := agent.FindSimilarEvents(context.Background(), "prod", "query")
	if err != nil {
		t.Fatalf("FindSimilarEvents() returned error: %v", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}

func TestGetRecommendedStrategy_PicksHighestSuccessRateAmongSuccesses(t *testing.T) {
	recency := cache.NewMemoryCache()
	successA := domain.KnowledgeEntry{ID: uuid.New(), Namespace: "prod", SuccessRate: 0.6, Outcome: domain.OutcomeSummary{Success: true}, Solution: domain.SolutionSummary{Description: "restart pod"}}
	successB := domain.KnowledgeEntry{ID: uuid.New(), Namespace: "prod", SuccessRate: 0.9, Outcome: domain.OutcomeSummary{Success: true}, Solution: domain.SolutionSummary{Description: "scale up"}}
	failure := domain.KnowledgeEntry{ID: uuid.New(), Namespace: "prod", SuccessRate: 0.99, Outcome: domain.OutcomeSummary{Success: false}, Solution: domain.SolutionSummary{Description: "should be ignored"}}
	recency.Put(context.Background(), successA, time.Hour)
	recency.Put(context.Background(), successB, time.Hour)
	recency.Put(context.Background(), failure, time.Hour)

	bus := eventbus.New(logr.Discard())
	agent := New(&stubEmbeddingClient{}, nil, recency, bus, logr.Discard(), v1alpha1.KnowledgeConfig{})

	best, err := agent.GetRecommendedStrategy(context.Background(), "prod", "query")
	if err != nil {
		t.Fatalf("GetRecommendedStrategy() returned error: %v", err)
	}
	if best == nil {
		t.Fatal("expected a recommended strategy")
	}
	if best.Description != "scale up" {
		t.Errorf("Description = %q, want %q", best.Description, "scale up")
	}
}

func TestGetRecommendedStrategy_NoSuccessfulEntriesReturnsNil(t *testing.T) {
	recency := cache.NewMemoryCache()
	failure := domain.KnowledgeEntry{ID: uuid.New(), Namespace: "prod", Outcome: domain.OutcomeSummary{Success: false}}
	recency.Put(context.Background(), failure, time.Hour)

	bus := eventbus.New(logr.Discard())
	agent := New(&stubEmbeddingClient{}, nil, recency, bus, logr.Discard(), v1alpha1.KnowledgeConfig{})

	best, err := agent.GetRecommendedStrategy(context.Background(), "prod", "query")
	if err != nil {
		t.Fatalf("GetRecommendedStrategy() returned error: %v", err)
	}
	if best != nil {
		t.Errorf("best = %+v, want nil", best)
	}
}

func TestPredictProactively_IncreasingTrendAboveThresholdPublishesWarning(t *testing.T) {
	bus := eventbus.New(logr.Discard())
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	agent := New(&stubEmbeddingClient{}, nil, cache.NewMemoryCache(), bus, logr.Discard(), v1alpha1.KnowledgeConfig{SimilarityThreshold: 0.1})

	now := time.Now()
	samples := []domain.TimedValue{
		{Timestamp: now, Value: 0.1},
		{Timestamp: now, Value: 0.3},
		{Timestamp: now, Value: 0.6},
		{Timestamp: now, Value: 0.9},
	}
	pod := "web-0"
	prediction, err := agent.PredictProactively(context.Background(), uuid.New(), "prod", &pod, domain.TopicMemoryIssues, samples)
	if err != nil {
		t.Fatalf("PredictProactively() returned error: %v", err)
	}
	if prediction == nil {
		t.Fatal("expected a non-nil prediction for an increasing trend")
	}

	select {
	case e := <-events:
		if e.Kind != domain.EventProactiveWarning {
			t.Errorf("event kind = %v, want ProactiveWarning", e.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a ProactiveWarning event to be published")
	}
}

func TestPredictProactively_StableTrendReturnsNil(t *testing.T) {
	bus := eventbus.New(logr.Discard())
	agent := New(&stubEmbeddingClient{}, nil, cache.NewMemoryCache(), bus, logr.Discard(), v1alpha1.KnowledgeConfig{})

	now := time.Now()
	samples := []domain.TimedValue{{Timestamp: now, Value: 0.5}, {Timestamp: now, Value: 0.5}}
	prediction, err := agent.PredictProactively(context.Background(), uuid.New(), "prod", nil, domain.TopicGeneral, samples)
	if err != nil {
		t.Fatalf("PredictProactively() returned error: %v", err)
	}
	if prediction != nil {
		t.Errorf("prediction = %+v, want nil for a stable trend", prediction)
	}
}

func TestCleanupExpiredEntries_IsANoop(t *testing.T) {
	agent := New(&stubEmbeddingClient{}, nil, cache.NewMemoryCache(), eventbus.New(logr.Discard()), logr.Discard(), v1alpha1.KnowledgeConfig{})
	count, err := agent.CleanupExpiredEntries(context.Background())
	if err != nil || count != 0 {
		t.Errorf("CleanupExpiredEntries() = (%d, %v), want (0, nil)", count, err)
	}
}
