// Command controller runs the ReCiSt manager: it watches
// SelfHealingPolicy and HealingEvent objects and drives each incident
// through containment, diagnosis, meta-cognitive healing, and knowledge
// recording.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	internalcontroller "github.com/ErdemAslans/ReCiSt/internal/controller"
	"github.com/ErdemAslans/ReCiSt/internal/config"
	"github.com/ErdemAslans/ReCiSt/internal/eventbus"
	internalmetrics "github.com/ErdemAslans/ReCiSt/internal/metrics"
	"github.com/ErdemAslans/ReCiSt/pkg/agents/containment"
	"github.com/ErdemAslans/ReCiSt/pkg/agents/diagnosis"
	"github.com/ErdemAslans/ReCiSt/pkg/agents/knowledge"
	"github.com/ErdemAslans/ReCiSt/pkg/agents/metacognitive"
	"github.com/ErdemAslans/ReCiSt/pkg/ai/llm"
	"github.com/ErdemAslans/ReCiSt/pkg/notify"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/k8s"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/monitoring"
	"github.com/ErdemAslans/ReCiSt/pkg/storage/cache"
	"github.com/ErdemAslans/ReCiSt/pkg/storage/vector"
)

var scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
}

// defaultThresholds/*Config mirror the CRD's kubebuilder defaults so the
// controller has something sane to run with before any SelfHealingPolicy
// overrides them.
var (
	defaultThresholds = v1alpha1.Thresholds{CPU: 0.9, Memory: 0.85, LatencyMs: 500, ErrorRate: 0.05}

	defaultContainmentConfig = v1alpha1.ContainmentConfig{
		CheckIntervalSeconds:      10,
		IsolationStrategy:         v1alpha1.IsolationStrategySoft,
		NeighborCapacityThreshold: 0.7,
	}
	defaultDiagnosisConfig = v1alpha1.DiagnosisConfig{
		LogLookbackMinutes:  5,
		MaxLogLines:         1000,
		ConfidenceThreshold: 0.7,
	}
	defaultMetaCognitiveConfig = v1alpha1.MetaCognitiveConfig{
		MaxMicroAgents:          5,
		MaxReasoningDepth:       10,
		ActionTimeoutSeconds:    60,
		VerificationWaitSeconds: 30,
		DecisionThreshold:       0.7,
	}
	defaultKnowledgeConfig = v1alpha1.KnowledgeConfig{
		SimilarityThreshold: 0.8,
		MaxLocalEvents:      100,
		KnowledgeTTLDays:    90,
		EmbeddingDimensions: 1536,
	}
)

func main() {
	var metricsAddr string
	var probeAddr string
	var enableLeaderElection bool
	var zapLogLevel string

	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metrics endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager.")
	flag.StringVar(&zapLogLevel, "zap-log-level", "info", "Zap log level (debug, info, warn, error).")
	flag.Parse()

	log := buildLogger(zapLogLevel)
	ctrl.SetLogger(log)

	appConfig, err := config.FromEnv()
	if err != nil {
		log.Error(err, "failed to load configuration")
		os.Exit(1)
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics: metricsserver.Options{
			BindAddress:   metricsAddr,
			ExtraHandlers: map[string]http.Handler{"/recist-metrics": internalmetrics.Handler()},
		},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "recist-controller-leader",
	})
	if err != nil {
		log.Error(err, "unable to start manager")
		os.Exit(1)
	}

	coordinator, err := buildCoordinator(mgr, appConfig, log)
	if err != nil {
		log.Error(err, "failed to build agent coordinator")
		os.Exit(1)
	}

	policyReconciler := internalcontroller.NewPolicyReconciler(mgr.GetClient(), coordinator, log)
	if err := policyReconciler.SetupWithManager(mgr); err != nil {
		log.Error(err, "unable to create policy controller")
		os.Exit(1)
	}

	healingEventReconciler := &internalcontroller.HealingEventReconciler{
		Client:      mgr.GetClient(),
		Coordinator: coordinator,
		Log:         log,
		Notifier:    notify.NewSlackNotifier(log),
	}
	if err := healingEventReconciler.SetupWithManager(mgr); err != nil {
		log.Error(err, "unable to create healing event controller")
		os.Exit(1)
	}

	log.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		log.Error(err, "problem running manager")
		os.Exit(1)
	}
}

func buildLogger(level string) logr.Logger {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapLog, err := cfg.Build()
	if err != nil {
		zapLog = zap.NewNop()
	}
	return zapr.NewLogger(zapLog)
}

func buildCoordinator(mgr ctrl.Manager, appConfig *config.AppConfig, log logr.Logger) (*internalcontroller.Coordinator, error) {
	logrLog := log

	metricsCollector, err := monitoring.NewMetricsCollector(appConfig.Prometheus.URL, appConfig.Prometheus.Timeout)
	if err != nil {
		return nil, err
	}
	logBackend := monitoring.NewLogBackend(appConfig.Loki.URL, appConfig.Loki.Timeout)

	clusterAPI, err := k8s.NewClusterAPI(mgr.GetConfig())
	if err != nil {
		return nil, err
	}

	vectorStore := vector.New(appConfig.Qdrant.URL, appConfig.Qdrant.CollectionName, appConfig.Qdrant.Timeout)

	var recencyCache cache.RecencyCache
	redisCache, err := cache.NewRedisCache(appConfig.Redis.URL)
	if err != nil {
		log.Error(err, "failed to build redis cache, falling back to in-memory")
		recencyCache = cache.NewMemoryCache()
	} else {
		recencyCache = redisCache
	}

	llmClient, err := llm.NewFromPolicyConfig(context.Background(), v1alpha1.LlmConfig{
		Provider:     v1alpha1.LlmProvider(os.Getenv("LLM_PROVIDER")),
		Model:        os.Getenv("LLM_MODEL"),
		APIKeySecret: os.Getenv("LLM_API_KEY_SECRET"),
	})
	if err != nil {
		return nil, err
	}

	bus := eventbus.New(logrLog)

	containmentAgent := containment.New(metricsCollector, clusterAPI, bus, logrLog, defaultContainmentConfig, defaultThresholds)
	diagnosisAgent := diagnosis.New(logBackend, metricsCollector, clusterAPI, llmClient, bus, logrLog, defaultDiagnosisConfig)
	metaCognitiveAgent := metacognitive.New(llmClient, clusterAPI, metricsCollector, bus, logrLog, defaultMetaCognitiveConfig)
	knowledgeAgent := knowledge.New(llmClient, vectorStore, recencyCache, bus, logrLog, defaultKnowledgeConfig)

	return &internalcontroller.Coordinator{
		Containment:   containmentAgent,
		Diagnosis:     diagnosisAgent,
		MetaCognitive: metaCognitiveAgent,
		Knowledge:     knowledgeAgent,
		EventBus:      bus,
	}, nil
}
