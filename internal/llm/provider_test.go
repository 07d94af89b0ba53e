package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/vporoshin/docdecay/internal/model"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("empty provider must disable, got error: %v", err)
	}
	if p != nil {
		t.Error("disabled config must return a nil provider")
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("unknown provider must error")
	}
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("openai without key must error")
	}
	p, err := NewProvider(Config{Provider: "openai", APIKey: "sk-test"})
	if err != nil || p == nil {
		t.Fatalf("provider = %v, err = %v", p, err)
	}
	if p.Name() != "openai" {
		t.Errorf("name = %q", p.Name())
	}
}

func TestBuildPromptCoversComponents(t *testing.T) {
	report := &model.AuditReport{
		Timestamp: time.Now(),
		Links: &model.LinkReport{
			UniqueURLs: 12,
			Counts:     map[model.OutcomeClass]int{model.OutcomeNotFound: 2},
			Failures: []model.LinkFinding{
				{URL: "https://gone.example/x", Outcome: model.OutcomeNotFound},
			},
		},
		Crossrefs: &model.CrossrefReport{TotalLinks: 40, Broken: 1},
		Facts: &model.FactReport{
			TotalFacts: 5,
			Counts:     map[model.FactStatus]int{model.FactChanged: 1},
		},
		Monitor: &model.MonitorReport{SourcesChecked: 2, NewRelevant: 1},
	}

	prompt := BuildPrompt(report)

	for _, want := range []string{
		"Overall severity: ACTION REQUIRED",
		"https://gone.example/x",
		"NOT_FOUND: 2",
		"CHANGED: 1",
		"2 sources",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
