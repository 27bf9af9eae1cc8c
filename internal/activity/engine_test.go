package activity

import (
	"strings"
	"testing"
)

func scoresOf(values map[Emotion]int) EmotionScores {
	return EmotionScores{Values: values}
}

func TestEngineNoSuggestionBelowThresholds(t *testing.T) {
	engine := NewEngine(DefaultCatalog(), NewRand(1))

	tests := []struct {
		name   string
		scores EmotionScores
	}{
		{name: "empty", scores: EmotionScores{}},
		{name: "all at threshold", scores: scoresOf(map[Emotion]int{Fear: 60, Sadness: 60, Anger: 60})},
		{name: "other emotions high", scores: scoresOf(map[Emotion]int{Joy: 100, Surprise: 90, Disgust: 95})},
		{name: "just below", scores: scoresOf(map[Emotion]int{Fear: 59, Sadness: 0, Anger: 42})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(1); seed <= 20; seed++ {
				engine.rng = NewRand(seed)
				if s, ok := engine.Suggest(tt.scores); ok {
					t.Fatalf("expected no suggestion, got %+v", s)
				}
			}
		})
	}
}

func TestEngineHighFearSuggestsStressRelief(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		engine := NewEngine(DefaultCatalog(), NewRand(seed))
		s, ok := engine.Suggest(scoresOf(map[Emotion]int{Fear: 61}))
		if !ok {
			t.Fatalf("seed %d: expected a suggestion", seed)
		}
		if s.Activity.Category != CategoryStressRelief {
			t.Fatalf("seed %d: expected stress_relief, got %s", seed, s.Activity.Category)
		}
		if !strings.Contains(s.Reason, "61") {
			t.Fatalf("seed %d: reason should contain the score, got %q", seed, s.Reason)
		}
	}
}

func TestEngineMultipleMatchesReachEveryCategory(t *testing.T) {
	seen := map[string]int{}
	for seed := uint64(1); seed <= 200; seed++ {
		engine := NewEngine(DefaultCatalog(), NewRand(seed))
		s, ok := engine.Suggest(scoresOf(map[Emotion]int{Fear: 70, Anger: 70}))
		if !ok {
			t.Fatalf("seed %d: expected a suggestion", seed)
		}
		seen[s.Activity.Category]++
	}

	if seen[CategoryStressRelief] == 0 || seen[CategoryAngerManagement] == 0 {
		t.Fatalf("expected both categories to be chosen, got %v", seen)
	}
	if seen[CategoryMoodBoosting] != 0 {
		t.Fatalf("mood_boosting must not be chosen without high sadness, got %v", seen)
	}
}

func TestEngineSuggestionResolvesInCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	engine := NewEngine(catalog, NewRand(7))

	for i := 0; i < 100; i++ {
		s, ok := engine.Suggest(scoresOf(map[Emotion]int{Fear: 80, Sadness: 90, Anger: 75}))
		if !ok {
			t.Fatal("expected a suggestion")
		}
		a, found := catalog.ByID(s.Activity.ID)
		if !found {
			t.Fatalf("activity %s missing from catalog", s.Activity.ID)
		}
		if a.Category != s.Activity.Category {
			t.Fatalf("category mismatch: catalog %s, suggestion %s", a.Category, s.Activity.Category)
		}
	}
}

func TestEngineSameSeedIsReproducible(t *testing.T) {
	scores := scoresOf(map[Emotion]int{Fear: 70, Sadness: 70, Anger: 70})

	first := NewEngine(DefaultCatalog(), NewRand(42))
	second := NewEngine(DefaultCatalog(), NewRand(42))
	for i := 0; i < 20; i++ {
		a, _ := first.Suggest(scores)
		b, _ := second.Suggest(scores)
		if a.Activity.ID != b.Activity.ID || a.Reason != b.Reason {
			t.Fatalf("round %d diverged: %+v vs %+v", i, a, b)
		}
	}
}

func TestEngineEmptyCategoryReturnsNothing(t *testing.T) {
	catalog := NewCatalog([]Activity{{ID: "x", Category: CategoryMoodBoosting}})
	engine := NewEngine(catalog, NewRand(3))

	if _, ok := engine.Suggest(scoresOf(map[Emotion]int{Fear: 99})); ok {
		t.Fatal("expected no suggestion when the matched category is empty")
	}
}

type alwaysRule struct{}

func (alwaysRule) Name() string { return "always" }
func (alwaysRule) Matches(EmotionScores) bool { return true }
func (alwaysRule) Category() string { return CategoryMoodBoosting }
func (alwaysRule) Reason(EmotionScores) string { return "always on" }

func TestEngineAcceptsCustomRules(t *testing.T) {
	engine := NewEngine(DefaultCatalog(), NewRand(5), alwaysRule{})

	s, ok := engine.Suggest(EmotionScores{})
	if !ok {
		t.Fatal("expected custom rule to produce a suggestion")
	}
	if s.Rule != "always" || s.Activity.Category != CategoryMoodBoosting {
		t.Fatalf("unexpected suggestion %+v", s)
	}
}
