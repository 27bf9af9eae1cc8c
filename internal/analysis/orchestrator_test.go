package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeProvider 根据提示词中的问题决定回复。
type fakeProvider struct {
	calls   atomic.Int32
	replies map[string]string
	errs    map[string]error
}

func (f *fakeProvider) Complete(_ context.Context, prompt string, forceJSON bool) (string, error) {
	f.calls.Add(1)
	if !forceJSON {
		return "", errors.New("expected JSON mode")
	}
	for marker, err := range f.errs {
		if strings.Contains(prompt, marker) {
			return "", err
		}
	}
	for marker, reply := range f.replies {
		if strings.Contains(prompt, marker) {
			return reply, nil
		}
	}
	return `{}`, nil
}

const (
	emotionMarker = "Joy, Sadness, Anger"
	themesMarker  = "main themes"
)

func TestAnalyzeDefaultUsesEmotion(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{emotionMarker: `{"Anger": 88}`}}
	o := NewOrchestrator(nil, provider)

	got, err := o.Analyze(context.Background(), "I am furious", DefaultSelector())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got["Anger"] != 88 {
		t.Fatalf("expected flat emotion result, got %v", got)
	}
	if got["Joy"] != 0 {
		t.Fatalf("expected missing emotions coerced to 0, got %v", got["Joy"])
	}
}

func TestAnalyzeNamedUnknown(t *testing.T) {
	o := NewOrchestrator(nil, &fakeProvider{})
	if _, err := o.Analyze(context.Background(), "text", Named("nope")); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestAnalyzeWithoutProvider(t *testing.T) {
	o := NewOrchestrator(nil, nil)
	if _, err := o.Analyze(context.Background(), "text", DefaultSelector()); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestAnalyzeSingleProviderFailure(t *testing.T) {
	provider := &fakeProvider{errs: map[string]error{emotionMarker: errors.New("upstream 502")}}
	o := NewOrchestrator(nil, provider)

	got, err := o.Analyze(context.Background(), "text", Named(TemplateEmotion))
	if err != nil {
		t.Fatalf("provider failures must not surface as errors: %v", err)
	}
	if !IsErrorEntry(got) {
		t.Fatalf("expected {error, details}, got %v", got)
	}
	if !strings.Contains(got["details"].(string), "upstream 502") {
		t.Fatalf("expected details to carry provider error, got %v", got["details"])
	}
}

func TestAnalyzeListPartialFailure(t *testing.T) {
	provider := &fakeProvider{
		replies: map[string]string{emotionMarker: "```json\n{\"Fear\": 70}\n```"},
		errs:    map[string]error{themesMarker: errors.New("timeout")},
	}
	o := NewOrchestrator(nil, provider)

	got, err := o.Analyze(context.Background(), "text", List(TemplateEmotion, TemplateThemes))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	emotion, ok := got[TemplateEmotion].(map[string]any)
	if !ok || emotion["Fear"] != 70 {
		t.Fatalf("expected emotion result, got %v", got[TemplateEmotion])
	}
	if !IsErrorEntry(got[TemplateThemes]) {
		t.Fatalf("expected themes error entry, got %v", got[TemplateThemes])
	}
	if _, wrapped := got["template_errors"]; wrapped {
		t.Fatalf("partial failure must not add the all-failed wrapper")
	}
	if provider.calls.Load() != 2 {
		t.Fatalf("expected one call per template, got %d", provider.calls.Load())
	}
}

func TestAnalyzeListAllFail(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{
		emotionMarker: "not json",
		themesMarker:  "still not json",
	}}
	o := NewOrchestrator(nil, provider)

	got, err := o.Analyze(context.Background(), "text", List(TemplateEmotion, TemplateThemes))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got["error"] == nil || got["message"] == nil {
		t.Fatalf("expected top-level error wrapper, got %v", got)
	}
	templateErrors, ok := got["template_errors"].(map[string]any)
	if !ok || len(templateErrors) != 2 {
		t.Fatalf("expected both template errors, got %v", got["template_errors"])
	}
	if entry := got[TemplateEmotion].(map[string]any); entry["error"] != "Failed to parse analysis response" {
		t.Fatalf("unexpected parse failure label: %v", entry["error"])
	}
}

func TestAnalyzeListUnknownTemplateFailsBeforeCalls(t *testing.T) {
	provider := &fakeProvider{}
	o := NewOrchestrator(nil, provider)

	_, err := o.Analyze(context.Background(), "text", List(TemplateEmotion, "nope"))
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if provider.calls.Load() != 0 {
		t.Fatalf("expected no provider calls, got %d", provider.calls.Load())
	}
}

func TestAnalyzeCustomTakesPrecedence(t *testing.T) {
	var seen string
	provider := ProviderFunc(func(_ context.Context, prompt string, _ bool) (string, error) {
		seen = prompt
		return `{"x": "7"}`, nil
	})
	o := NewOrchestrator(nil, provider)

	sel, err := ParseSelector([]string{"How energetic?"}, map[string]any{"x": "number"}, []string{TemplateThemes}, TemplateEmotion)
	if err != nil {
		t.Fatalf("parse selector: %v", err)
	}
	if !sel.IsCustom() {
		t.Fatalf("expected custom selector, got %s", sel)
	}

	got, err := o.Analyze(context.Background(), "text", sel)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got["x"] != 7 {
		t.Fatalf("expected coerced custom field, got %v", got)
	}
	if !strings.Contains(seen, "How energetic?") || strings.Contains(seen, emotionMarker) {
		t.Fatalf("custom prompt should only carry custom questions:\n%s", seen)
	}
}

func TestParseSelectorPrecedence(t *testing.T) {
	cases := []struct {
		name      string
		questions []string
		format    map[string]any
		names     []string
		single    string
		check     func(Selector) bool
	}{
		{name: "questions without format", questions: []string{"Q"}, single: TemplateThemes, check: func(s Selector) bool { return s.String() == TemplateThemes }},
		{name: "list beats single", names: []string{TemplateThemes}, single: TemplateEmotion, check: Selector.IsList},
		{name: "single", single: TemplateUrges, check: func(s Selector) bool { return s.String() == TemplateUrges }},
		{name: "default", check: Selector.IsDefault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := ParseSelector(tc.questions, tc.format, tc.names, tc.single)
			if err != nil {
				t.Fatalf("parse selector: %v", err)
			}
			if !tc.check(sel) {
				t.Fatalf("unexpected selector %s", sel)
			}
		})
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	provider := ProviderFunc(func(ctx context.Context, _ string, _ bool) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	o := NewOrchestrator(nil, provider, WithTimeout(10*time.Millisecond))

	got, err := o.Analyze(context.Background(), "text", DefaultSelector())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !IsErrorEntry(got) || !strings.Contains(got["details"].(string), "deadline") {
		t.Fatalf("expected timeout error entry, got %v", got)
	}
}

func TestAnalyzeRecoversPanic(t *testing.T) {
	provider := ProviderFunc(func(context.Context, string, bool) (string, error) {
		panic("boom")
	})
	o := NewOrchestrator(nil, provider)

	got, err := o.Analyze(context.Background(), "text", List(TemplateEmotion))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !IsErrorEntry(got[TemplateEmotion]) {
		t.Fatalf("expected panic converted to error entry, got %v", got)
	}
}

func TestEnsureEmotion(t *testing.T) {
	result := map[string]any{TemplateThemes: map[string]any{}}
	if !EnsureEmotion(result) {
		t.Fatalf("expected emotion fallback to be added")
	}
	emotion := result[TemplateEmotion].(map[string]any)
	if emotion["Fear"] != 0 {
		t.Fatalf("expected zero scores, got %v", emotion)
	}
	if EnsureEmotion(result) {
		t.Fatalf("existing emotion key must be kept")
	}
}
