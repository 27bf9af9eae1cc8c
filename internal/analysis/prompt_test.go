package analysis

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	tmpl := emotionTemplate()
	prompt := BuildPrompt(tmpl.Questions, tmpl.Schema, "  I had a rough day.  ")

	for _, want := range []string{
		"1. " + tmpl.Questions[0],
		"3. " + tmpl.Questions[2],
		`- "Joy": integer (0-100)`,
		`  - "Anger": list<string>`,
		"Example response:",
		"valid JSON object only",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	if strings.Index(prompt, "1. ") > strings.Index(prompt, "2. ") {
		t.Fatalf("questions out of order")
	}
	if got := EntryFromPrompt(prompt); got != "I had a rough day." {
		t.Fatalf("unexpected entry extraction: %q", got)
	}

	example, ok := ExampleFromPrompt(prompt)
	if !ok {
		t.Fatalf("expected example in prompt")
	}
	if _, ok := example["triggers"]; !ok {
		t.Fatalf("expected triggers in example, got %v", example)
	}
}

func TestEntryFromPromptMissing(t *testing.T) {
	if got := EntryFromPrompt("no entry here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
