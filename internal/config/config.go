// Package config loads process-level ReCiSt configuration from the
// environment, optionally layered with a static YAML file for
// controller-wide settings such as the metrics bind address and log
// level. Per-incident tunables (thresholds, agent behavior) live on the
// SelfHealingPolicy custom resource instead.
package config

import (
	"os"
	"strconv"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
)

// PrometheusConfig points the metrics collaborator at a Prometheus-
// compatible query endpoint.
type PrometheusConfig struct {
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
}

// LokiConfig points the log collaborator at a Loki query-range endpoint.
type LokiConfig struct {
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
}

// QdrantConfig points the vector store collaborator at a Qdrant
// collection.
type QdrantConfig struct {
	URL            string        `json:"url"`
	CollectionName string        `json:"collectionName"`
	Timeout        time.Duration `json:"timeout"`
}

// RedisConfig points the recency cache collaborator at a Redis instance.
type RedisConfig struct {
	URL            string        `json:"url"`
	DefaultTTL     time.Duration `json:"defaultTtl"`
}

// MetricsConfig configures the controller's own Prometheus /metrics
// endpoint (distinct from PrometheusConfig, which is the *upstream*
// metrics source the metrics collaborator queries).
type MetricsConfig struct {
	Port int    `json:"port"`
	Path string `json:"path"`
}

// LoggingConfig controls the zap logger's level and encoding.
type LoggingConfig struct {
	Level      string `json:"level"`
	JSONFormat bool   `json:"jsonFormat"`
}

// AppConfig is the fully resolved process configuration.
type AppConfig struct {
	Namespace  string           `json:"namespace"`
	Prometheus PrometheusConfig `json:"prometheus"`
	Loki       LokiConfig       `json:"loki"`
	Qdrant     QdrantConfig     `json:"qdrant"`
	Redis      RedisConfig      `json:"redis"`
	Metrics    MetricsConfig    `json:"metrics"`
	Logging    LoggingConfig    `json:"logging"`
}

const (
	defaultNamespace        = "recist-system"
	defaultPrometheusURL    = "http://prometheus:9090"
	defaultLokiURL          = "http://loki:3100"
	defaultQdrantURL        = "http://qdrant:6334"
	defaultRedisURL         = "redis://redis:6379"
	defaultQdrantCollection = "healing_events"
	defaultTimeoutSeconds   = 10
	defaultRedisTTLSeconds  = 3600
	defaultMetricsPort      = 9090
	defaultMetricsPath      = "/metrics"
	defaultLogLevel         = "info"
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envSecondsOr(key string, fallback int) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}

// FromEnv builds an AppConfig from environment variables, matching the
// original's defaults exactly: PROMETHEUS_URL/LOKI_URL/QDRANT_URL/
// REDIS_URL/NAMESPACE and the per-backend *_TIMEOUT/QDRANT_COLLECTION/
// REDIS_TTL overrides.
func FromEnv() (*AppConfig, error) {
	return &AppConfig{
		Namespace: envOr("NAMESPACE", defaultNamespace),
		Prometheus: PrometheusConfig{
			URL:     envOr("PROMETHEUS_URL", defaultPrometheusURL),
			Timeout: envSecondsOr("PROMETHEUS_TIMEOUT", defaultTimeoutSeconds),
		},
		Loki: LokiConfig{
			URL:     envOr("LOKI_URL", defaultLokiURL),
			Timeout: envSecondsOr("LOKI_TIMEOUT", defaultTimeoutSeconds),
		},
		Qdrant: QdrantConfig{
			URL:            envOr("QDRANT_URL", defaultQdrantURL),
			CollectionName: envOr("QDRANT_COLLECTION", defaultQdrantCollection),
			Timeout:        envSecondsOr("QDRANT_TIMEOUT", defaultTimeoutSeconds),
		},
		Redis: RedisConfig{
			URL:        envOr("REDIS_URL", defaultRedisURL),
			DefaultTTL: envSecondsOr("REDIS_TTL", defaultRedisTTLSeconds),
		},
		Metrics: MetricsConfig{
			Port: defaultMetricsPort,
			Path: defaultMetricsPath,
		},
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			JSONFormat: false,
		},
	}, nil
}

// FromFile loads an AppConfig from a YAML file layered over the FromEnv
// result, used to override the Metrics/Logging sections that FromEnv
// does not expose as env vars.
func FromFile(path string) (*AppConfig, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, apierrors.WrapConfig(err, "failed to read config file %s", path)
	}
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, apierrors.WrapConfig(err, "failed to parse config file %s", path)
	}
	return cfg, nil
}
