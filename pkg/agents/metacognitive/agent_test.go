package metacognitive

import (
	"testing"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

func TestGenerateCandidates(t *testing.T) {
	a := &Agent{config: v1alpha1.MetaCognitiveConfig{MaxMicroAgents: 5}}

	tests := []struct {
		name      string
		rootCause string
		explain   string
		want      []domain.StrategyType
	}{
		{"oom always includes pod restart first", "pod killed by OOM killer", "", []domain.StrategyType{domain.StrategyPodRestart, domain.StrategyVerticalScale}},
		{"cpu load suggests horizontal scale once", "sustained high cpu load", "load is climbing", []domain.StrategyType{domain.StrategyPodRestart, domain.StrategyHorizontalScale}},
		{"no keyword match yields baseline only", "completely unrelated text", "", []domain.StrategyType{domain.StrategyPodRestart}},
		{"dependency and upstream dedupe to one candidate", "upstream dependency failing", "", []domain.StrategyType{domain.StrategyPodRestart, domain.StrategyDependencyRestart}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hypothesis := domain.DiagnosisHypothesis{RootCause: tt.rootCause, Explanation: tt.explain}
			got := a.GenerateCandidates(hypothesis)
			if len(got) != len(tt.want) {
				t.Fatalf("GenerateCandidates() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("GenerateCandidates()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateCandidates_CapsAtMaxMicroAgents(t *testing.T) {
	a := &Agent{config: v1alpha1.MetaCognitiveConfig{MaxMicroAgents: 1}}
	hypothesis := domain.DiagnosisHypothesis{RootCause: "oom memory cpu load config dependency network crash"}

	got := a.GenerateCandidates(hypothesis)
	if len(got) != 1 {
		t.Fatalf("len(GenerateCandidates()) = %d, want 1 when capped", len(got))
	}
	if got[0] != domain.StrategyPodRestart {
		t.Errorf("GenerateCandidates()[0] = %v, want PodRestart", got[0])
	}
}

func TestDeploymentNameFromPod(t *testing.T) {
	tests := []struct {
		pod  string
		want string
	}{
		{"web-7d9f8c6b6d-x2h9q", "web"},
		{"checkout-api-5f6d7c8b9-abcde", "checkout-api"},
		{"standalone", "standalone"},
		{"a-b", "a-b"},
	}
	for _, tt := range tests {
		if got := deploymentNameFromPod(tt.pod); got != tt.want {
			t.Errorf("deploymentNameFromPod(%q) = %q, want %q", tt.pod, got, tt.want)
		}
	}
}

func TestBuildPlan_RestartPod(t *testing.T) {
	a := &Agent{}
	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "web-7d9f8c6b6d-x2h9q"}

	actions, rollback := a.buildPlan(domain.StrategyPodRestart, hypothesis)
	if len(actions) != 1 || actions[0].Type != domain.ActionRestartPod {
		t.Fatalf("buildPlan(PodRestart) actions = %+v", actions)
	}
	if actions[0].Target.Name != "web-7d9f8c6b6d-x2h9q" {
		t.Errorf("action target name = %q, want the pod name", actions[0].Target.Name)
	}
	if len(rollback.Actions) != 1 || rollback.Actions[0].Type != domain.RollbackNone {
		t.Errorf("rollback for a restart should be RollbackNone, got %+v", rollback)
	}
}

func TestBuildPlan_ScaleDeployment(t *testing.T) {
	a := &Agent{}
	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "checkout-api-5f6d7c8b9-abcde"}

	actions, rollback := a.buildPlan(domain.StrategyHorizontalScale, hypothesis)
	if len(actions) != 1 || actions[0].Type != domain.ActionScaleDeployment {
		t.Fatalf("buildPlan(HorizontalScale) actions = %+v", actions)
	}
	if actions[0].Target.Name != "checkout-api" {
		t.Errorf("action target name = %q, want the inferred deployment name", actions[0].Target.Name)
	}
	if rollback.Actions[0].Type != domain.RollbackRestorePodCount {
		t.Errorf("rollback type = %v, want RollbackRestorePodCount", rollback.Actions[0].Type)
	}
}

func TestBuildPlan_UnknownStrategyFallsBackToNoop(t *testing.T) {
	a := &Agent{}
	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "web-0"}

	actions, _ := a.buildPlan(domain.StrategyType("unknown"), hypothesis)
	if len(actions) != 1 || actions[0].Type != domain.ActionNoop {
		t.Fatalf("buildPlan(unknown) actions = %+v, want a single Noop action", actions)
	}
}

func TestSelectStrategy_PicksHighestConfidenceAmongThoseClearingTheThreshold(t *testing.T) {
	a := &Agent{config: v1alpha1.MetaCognitiveConfig{DecisionThreshold: 0.6}}
	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "web-0"}

	results := []domain.MicroAgentResult{
		{StrategyType: domain.StrategyPodRestart, Evaluation: domain.StrategyEvaluation{StrategyType: domain.StrategyPodRestart, SuccessProbability: 0.5}},
		{StrategyType: domain.StrategyHorizontalScale, Evaluation: domain.StrategyEvaluation{StrategyType: domain.StrategyHorizontalScale, SuccessProbability: 0.9}},
		{StrategyType: domain.StrategyVerticalScale, Evaluation: domain.StrategyEvaluation{StrategyType: domain.StrategyVerticalScale, SuccessProbability: 0.7}},
	}

	strategy, err := a.SelectStrategy(results, hypothesis)
	if err != nil {
		t.Fatalf("SelectStrategy() returned error: %v", err)
	}
	if strategy.Type != domain.StrategyHorizontalScale {
		t.Errorf("SelectStrategy() chose %v, want HorizontalScale since it is the highest-confidence candidate above the threshold", strategy.Type)
	}
	if strategy.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", strategy.Confidence)
	}
}

func TestSelectStrategy_BelowThresholdCandidatesAreExcludedEvenIfHighestScoring(t *testing.T) {
	a := &Agent{config: v1alpha1.MetaCognitiveConfig{DecisionThreshold: 0.8}}
	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "web-0"}

	results := []domain.MicroAgentResult{
		{StrategyType: domain.StrategyPodRestart, Evaluation: domain.StrategyEvaluation{StrategyType: domain.StrategyPodRestart, SuccessProbability: 0.95}},
		{StrategyType: domain.StrategyHorizontalScale, Evaluation: domain.StrategyEvaluation{StrategyType: domain.StrategyHorizontalScale, SuccessProbability: 0.6}},
	}

	strategy, err := a.SelectStrategy(results, hypothesis)
	if err != nil {
		t.Fatalf("SelectStrategy() returned error: %v", err)
	}
	if strategy.Type != domain.StrategyPodRestart {
		t.Errorf("SelectStrategy() chose %v, want PodRestart, the only candidate clearing the threshold", strategy.Type)
	}
}

func TestSelectStrategy_NoCandidateMeetingThresholdIsAnError(t *testing.T) {
	a := &Agent{config: v1alpha1.MetaCognitiveConfig{DecisionThreshold: 0.8}}
	hypothesis := domain.DiagnosisHypothesis{Namespace: "prod", PodName: "web-0"}

	results := []domain.MicroAgentResult{
		{StrategyType: domain.StrategyPodRestart, Evaluation: domain.StrategyEvaluation{StrategyType: domain.StrategyPodRestart, SuccessProbability: 0.5}},
		{StrategyType: domain.StrategyHorizontalScale, Evaluation: domain.StrategyEvaluation{StrategyType: domain.StrategyHorizontalScale, SuccessProbability: 0.6}},
	}

	_, err := a.SelectStrategy(results, hypothesis)
	if err == nil {
		t.Fatal("expected an error when no candidate clears the decision threshold")
	}
	if !apierrors.IsKind(err, apierrors.KindHealing) {
		t.Errorf("expected a Healing-kind error, got %v", err)
	}
}

func TestSelectStrategy_EmptyResultsIsAnError(t *testing.T) {
	a := &Agent{}
	if _, err := a.SelectStrategy(nil, domain.DiagnosisHypothesis{}); err == nil {
		t.Fatal("expected an error selecting a strategy with no evaluated candidates")
	}
}
