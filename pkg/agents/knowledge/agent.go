// Package knowledge implements the fifth healing phase: recording each
// closed-loop incident as a post-mortem embedding, keeping a recency
// cache warm for fast lookups, and retrieving similar past incidents to
// recommend a strategy or raise a proactive warning before a fault is
// even detected.
package knowledge

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/internal/eventbus"
	obsmetrics "github.com/ErdemAslans/ReCiSt/internal/metrics"
	"github.com/ErdemAslans/ReCiSt/pkg/ai/llm"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
	"github.com/ErdemAslans/ReCiSt/pkg/storage/cache"
	"github.com/ErdemAslans/ReCiSt/pkg/storage/vector"
)

// Agent records and retrieves closed-loop healing knowledge.
type Agent struct {
	client llm.Client
	store  *vector.Store
	cache  cache.RecencyCache
	bus    *eventbus.Bus
	log    logr.Logger
	config v1alpha1.KnowledgeConfig
}

// New builds a Knowledge agent against its collaborators and the
// policy-level retrieval/retention configuration.
func New(client llm.Client, store *vector.Store, recency cache.RecencyCache, bus *eventbus.Bus, log logr.Logger, config v1alpha1.KnowledgeConfig) *Agent {
	return &Agent{client: client, store: store, cache: recency, bus: bus, log: log.WithName("knowledge"), config: config}
}

// RecordHealingEvent builds a post-mortem KnowledgeEntry from a
// diagnosis, the strategy that was applied, and its outcome, attempts to
// embed it for vector search, and unconditionally caches it for fast
// recency lookups even when embedding fails.
func (a *Agent) RecordHealingEvent(ctx context.Context, correlationID uuid.UUID, hypothesis domain.DiagnosisHypothesis, strategy domain.SolutionStrategy, result domain.ActionResult) (domain.KnowledgeEntry, error) {
	topic := domain.ClassifyTopic(hypothesis.RootCause + " " + hypothesis.Explanation)

	entry := domain.KnowledgeEntry{
		ID:        uuid.New(),
		Namespace: hypothesis.Namespace,
		Topic:     topic,
		Diagnosis: domain.DiagnosisSummary{RootCause: hypothesis.RootCause, Confidence: hypothesis.Confidence},
		Solution:  domain.SolutionSummary{StrategyType: strategy.Type, Description: describeStrategy(strategy)},
		Outcome:   domain.OutcomeSummary{Success: result.Success, DurationMs: result.DurationMs},
		CreatedAt: time.Now(),
		LastUsedAt: time.Now(),
	}

	embedding, err := a.client.GenerateEmbedding(ctx, entry.Diagnosis.RootCause+" "+hypothesis.Explanation)
	if err != nil {
		a.log.Info("embedding unavailable, recording entry cache-only", "reason", err.Error())
	} else {
		entry.Embedding = embedding
		if err := a.store.Upsert(ctx, []vector.Point{{
			ID:     entry.ID,
			Vector: embedding,
			Payload: map[string]any{
				"namespace":    entry.Namespace,
				"topic":        string(entry.Topic),
				"root_cause":   entry.Diagnosis.RootCause,
				"strategy":     string(entry.Solution.StrategyType),
				"success":      entry.Outcome.Success,
				"success_rate": entry.SuccessRate,
			},
		}}); err != nil {
			a.log.Error(err, "failed to upsert knowledge entry into vector store", "entry", entry.ID)
		}
	}

	ttl := time.Duration(a.config.KnowledgeTTLDays) * 24 * time.Hour
	if err := a.cache.Put(ctx, entry, ttl); err != nil {
		a.log.Error(err, "failed to cache knowledge entry", "entry", entry.ID)
	}

	obsmetrics.KnowledgeEntriesTotal.WithLabelValues(hypothesis.Namespace).Inc()
	if _, err := a.bus.Publish(domain.NewKnowledgeUpdatedEvent(correlationID, hypothesis.Namespace, hypothesis.PodName, entry)); err != nil {
		a.log.Error(err, "failed to publish knowledge updated event", "entry", entry.ID)
	}
	return entry, nil
}

func describeStrategy(strategy domain.SolutionStrategy) string {
	if len(strategy.PlannedActions) == 0 {
		return string(strategy.Type)
	}
	return strategy.PlannedActions[0].Description
}

// FindSimilarEvents returns past entries likely related to a new
// diagnosis: a cache-scoped namespace lookup first (cheap, always
// fresh), falling back to a vector similarity search when the query
// embeds successfully, filtered to results at or above
// SimilarityThreshold.
func (a *Agent) FindSimilarEvents(ctx context.Context, namespace, queryText string) ([]domain.SimilaritySearchResult, error) {
	cached, err := a.cache.List(ctx, namespace)
	if err == nil && len(cached) > 0 {
		results := make([]domain.SimilaritySearchResult, 0, len(cached))
		for _, e := range cached {
			results = append(results, domain.SimilaritySearchResult{Entry: e, Score: 1.0})
		}
		return results, nil
	}

	embedding, err := a.client.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return nil, nil
	}

	matches, err := a.store.Search(ctx, embedding, 10, map[string]any{
		"must": []map[string]any{{"key": "namespace", "match": map[string]any{"value": namespace}}},
	})
	if err != nil {
		return nil, err
	}

	results := make([]domain.SimilaritySearchResult, 0, len(matches))
	for _, m := range matches {
		if m.Score < a.config.SimilarityThreshold {
			continue
		}
		results = append(results, domain.SimilaritySearchResult{
			Entry: entryFromPayload(m),
			Score: m.Score,
		})
	}
	return results, nil
}

func entryFromPayload(m vector.SearchResult) domain.KnowledgeEntry {
	entry := domain.KnowledgeEntry{ID: m.ID}
	if ns, ok := m.Payload["namespace"].(string); ok {
		entry.Namespace = ns
	}
	if topic, ok := m.Payload["topic"].(string); ok {
		entry.Topic = domain.Topic(topic)
	}
	if rootCause, ok := m.Payload["root_cause"].(string); ok {
		entry.Diagnosis.RootCause = rootCause
	}
	if strategy, ok := m.Payload["strategy"].(string); ok {
		entry.Solution.StrategyType = domain.StrategyType(strategy)
	}
	if success, ok := m.Payload["success"].(bool); ok {
		entry.Outcome.Success = success
	}
	return entry
}

// GetRecommendedStrategy searches the namespace-scoped top-5 similar
// entries, keeps only those with a successful outcome, and returns the
// one with the highest recorded success rate.
func (a *Agent) GetRecommendedStrategy(ctx context.Context, namespace, queryText string) (*domain.SolutionSummary, error) {
	results, err := a.FindSimilarEvents(ctx, namespace, queryText)
	if err != nil {
		return nil, err
	}

	var best *domain.KnowledgeEntry
	count := 0
	for i := range results {
		if count >= 5 {
			break
		}
		count++
		entry := results[i].Entry
		if !entry.Outcome.Success {
			continue
		}
		if best == nil || entry.SuccessRate > best.SuccessRate {
			best = &entry
		}
	}
	if best == nil {
		return nil, nil
	}
	return &best.Solution, nil
}

// PredictProactively looks at the recent trend of a metric leading into
// a topic's known failure pattern. Only an increasing trend yields a
// prediction: its probability is ten times the trend slope, clamped to
// [0, 1], and a ProactiveWarning event is raised when that probability
// is at or above SimilarityThreshold. Historical success data is not
// consulted.
func (a *Agent) PredictProactively(ctx context.Context, correlationID uuid.UUID, namespace string, podName *string, topic domain.Topic, samples []domain.TimedValue) (*domain.ProactivePrediction, error) {
	trend := domain.AnalyzeTrend(samples)
	if trend.Direction != domain.TrendIncreasing {
		return nil, nil
	}

	probability := clampProbability(trend.Slope * 10)
	prediction := domain.ProactivePrediction{
		Namespace:   namespace,
		PodName:     podName,
		Topic:       topic,
		Probability: probability,
		Trend:       trend,
		Rationale:   "recent metric trend is increasing toward a known failure pattern for this topic",
	}

	if probability >= a.config.SimilarityThreshold {
		pod := ""
		if podName != nil {
			pod = *podName
		}
		if _, err := a.bus.Publish(domain.NewProactiveWarningEvent(correlationID, namespace, pod, prediction)); err != nil {
			a.log.Error(err, "failed to publish proactive warning event", "pod", pod)
		}
	}
	return &prediction, nil
}

func clampProbability(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CleanupExpiredEntries deletes nothing and always returns (0, nil);
// expiry of knowledge entries is left to the cache TTL and to Qdrant's
// own collection TTL. The original implementation left this as an
// unimplemented stub, so this preserves that behavior rather than
// inventing a sweep that the original never had.
func (a *Agent) CleanupExpiredEntries(ctx context.Context) (int, error) {
	return 0, nil
}
