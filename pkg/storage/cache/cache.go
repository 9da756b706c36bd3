// Package cache implements the RecencyCache collaborator the Knowledge
// agent uses to keep its most-recently-seen entries warm without a round
// trip to the vector store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// RecencyCache is the interface agents depend on, so the Redis-backed
// implementation and the in-memory test double are interchangeable.
type RecencyCache interface {
	Put(ctx context.Context, entry domain.KnowledgeEntry, ttl time.Duration) error
	List(ctx context.Context, namespace string) ([]domain.KnowledgeEntry, error)
	Get(ctx context.Context, id string) (*domain.KnowledgeEntry, error)
}

// RedisCache is the production RecencyCache backed by Redis, grounded on
// the teacher's direct go-redis/v9 dependency.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache builds a cache client against the given Redis URL (e.g.
// "redis://redis:6379").
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, apierrors.WrapCache(err, "invalid redis url %s", redisURL)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func entryKey(id string) string {
	return "recist:knowledge:" + id
}

func namespaceSetKey(namespace string) string {
	return "recist:knowledge:ns:" + namespace
}

// Put stores entry with the given TTL and indexes its ID under the
// entry's namespace so List can scope lookups without a full scan.
func (c *RedisCache) Put(ctx context.Context, entry domain.KnowledgeEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return apierrors.WrapJSON(err, "failed to marshal knowledge entry")
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, entryKey(entry.ID.String()), data, ttl)
	pipe.SAdd(ctx, namespaceSetKey(entry.Namespace), entry.ID.String())
	pipe.Expire(ctx, namespaceSetKey(entry.Namespace), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apierrors.WrapCache(err, "failed to write knowledge entry %s", entry.ID)
	}
	return nil
}

// Get fetches a single entry by ID, returning apierrors.NotFound if it
// has expired or was never cached.
func (c *RedisCache) Get(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	data, err := c.client.Get(ctx, entryKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apierrors.NotFound("knowledge entry %s not cached", id)
		}
		return nil, apierrors.WrapCache(err, "failed to read knowledge entry %s", id)
	}
	var entry domain.KnowledgeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, apierrors.WrapJSON(err, "failed to unmarshal knowledge entry %s", id)
	}
	return &entry, nil
}

// List returns every live entry cached for a namespace.
func (c *RedisCache) List(ctx context.Context, namespace string) ([]domain.KnowledgeEntry, error) {
	ids, err := c.client.SMembers(ctx, namespaceSetKey(namespace)).Result()
	if err != nil {
		return nil, apierrors.WrapCache(err, "failed to list knowledge entries for %s", namespace)
	}

	var entries []domain.KnowledgeEntry
	for _, id := range ids {
		entry, err := c.Get(ctx, id)
		if err != nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}
