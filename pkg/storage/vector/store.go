// Package vector implements the VectorStore collaborator the Knowledge
// agent uses to persist and retrieve post-mortem embeddings. No Qdrant
// client library exists anywhere in the retrieval pack this module is
// grounded on, so this is a justified plain net/http implementation of
// Qdrant's REST API (points upsert/search) — see DESIGN.md.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
)

// Store is a thin client over one Qdrant collection.
type Store struct {
	baseURL    string
	collection string
	client     *http.Client
}

// New builds a vector store client against the given Qdrant base URL and
// collection name.
func New(baseURL, collection string, timeout time.Duration) *Store {
	return &Store{baseURL: baseURL, collection: collection, client: &http.Client{Timeout: timeout}}
}

// Point is one upserted vector plus its retrievable payload.
type Point struct {
	ID      uuid.UUID
	Vector  []float32
	Payload map[string]any
}

type upsertRequest struct {
	Points []pointDTO `json:"points"`
}

type pointDTO struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert writes a batch of points to the collection.
func (s *Store) Upsert(ctx context.Context, points []Point) error {
	dtos := make([]pointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, pointDTO{ID: p.ID.String(), Vector: p.Vector, Payload: p.Payload})
	}
	body, err := json.Marshal(upsertRequest{Points: dtos})
	if err != nil {
		return apierrors.WrapJSON(err, "failed to marshal qdrant upsert request")
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.baseURL, s.collection)
	return s.do(ctx, http.MethodPut, url, body, nil)
}

// SearchResult is one scored match returned by Search.
type SearchResult struct {
	ID      uuid.UUID
	Score   float64
	Payload map[string]any
}

type searchRequest struct {
	Vector      []float32      `json:"vector"`
	Limit       int            `json:"limit"`
	WithPayload bool           `json:"with_payload"`
	Filter      map[string]any `json:"filter,omitempty"`
}

type searchResponse struct {
	Result []struct {
		ID      string         `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the top-limit nearest neighbors to query, optionally
// scoped by a Qdrant filter (e.g. namespace match).
func (s *Store) Search(ctx context.Context, query []float32, limit int, filter map[string]any) ([]SearchResult, error) {
	body, err := json.Marshal(searchRequest{Vector: query, Limit: limit, WithPayload: true, Filter: filter})
	if err != nil {
		return nil, apierrors.WrapJSON(err, "failed to marshal qdrant search request")
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, s.collection)
	var parsed searchResponse
	if err := s.do(ctx, http.MethodPost, url, body, &parsed); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			continue
		}
		results = append(results, SearchResult{ID: id, Score: r.Score, Payload: r.Payload})
	}
	return results, nil
}

func (s *Store) do(ctx context.Context, method, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return apierrors.WrapVectorStore(err, "failed to build qdrant request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apierrors.WrapVectorStore(err, "qdrant request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierrors.WrapVectorStore(err, "failed to read qdrant response")
	}
	if resp.StatusCode >= 300 {
		return apierrors.VectorStore("qdrant returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return apierrors.WrapJSON(err, "failed to parse qdrant response")
		}
	}
	return nil
}
