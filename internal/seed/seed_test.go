package seed

import (
	"reflect"
	"testing"
	"time"

	"github.com/smartjournal/internal/activity"
	"github.com/smartjournal/internal/analysis"
)

func TestScoresOn(t *testing.T) {
	tests := []struct {
		name string
		day  int
		want [6]int
	}{
		{name: "keyframe", day: 1, want: [6]int{10, 80, 30, 60, 5, 20}},
		{name: "midpoint", day: 2, want: [6]int{8, 83, 35, 63, 8, 23}},
		{name: "before first", day: 0, want: [6]int{10, 80, 30, 60, 5, 20}},
		{name: "after last", day: 40, want: [6]int{65, 30, 40, 35, 35, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BipolarCycle.ScoresOn(tt.day); got != tt.want {
				t.Fatalf("day %d: expected %v, got %v", tt.day, tt.want, got)
			}
		})
	}
}

func TestMoodState(t *testing.T) {
	if got := MoodState(BipolarCycle.ScoresOn(1)); got != StateDepressive {
		t.Fatalf("expected depressive, got %s", got)
	}
	if got := MoodState(BipolarCycle.ScoresOn(16)); got != StateNeutral {
		t.Fatalf("expected neutral, got %s", got)
	}
	if got := MoodState(BipolarCycle.ScoresOn(26)); got != StateManic {
		t.Fatalf("expected manic, got %s", got)
	}
}

func TestGenerate(t *testing.T) {
	entries := Generate(BipolarCycle, 2025, time.February, activity.NewRand(3))
	if len(entries) != 28 {
		t.Fatalf("expected one entry per day, got %d", len(entries))
	}
	first, last := entries[0], entries[len(entries)-1]
	if !first.Date.Equal(time.Date(2025, 2, 1, 21, 0, 0, 0, time.UTC)) || last.Date.Day() != 28 {
		t.Fatalf("unexpected dates %v .. %v", first.Date, last.Date)
	}

	for _, e := range entries {
		if e.Title == "" || e.Text == "" {
			t.Fatalf("entry missing title or text: %+v", e)
		}
		if !activity.LooksLikeEmotions(e.Classification) {
			t.Fatalf("classification should be emotion shaped: %v", e.Classification)
		}
	}

	scores := activity.ScoresFromMap(first.Classification)
	if scores.Get(activity.Sadness) != 80 {
		t.Fatalf("unexpected sadness on day 1: %d", scores.Get(activity.Sadness))
	}
	if n := len(scores.Triggers[activity.Sadness]); n != 2 {
		t.Fatalf("expected two sadness triggers, got %d", n)
	}
	if len(scores.Triggers[activity.Joy]) != 0 {
		t.Fatalf("joy below threshold should not carry triggers")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(BipolarCycle, 2025, time.March, activity.NewRand(9))
	b := Generate(BipolarCycle, 2025, time.March, activity.NewRand(9))
	for i := range a {
		if a[i].Text != b[i].Text || a[i].Title != b[i].Title {
			t.Fatalf("entry %d differs between runs with the same seed", i)
		}
	}
}

func TestUrgeCycleInterpolation(t *testing.T) {
	if got, want := UrgeCycle.ScoresOn(2), [6]int{48, 25, 18, 28, 28, 13}; got != want {
		t.Fatalf("scores: expected %v, got %v", want, got)
	}
	if got, want := UrgeCycle.UrgesOn(2), [6]int{43, 18, 9, 35, 73, 23}; got != want {
		t.Fatalf("urges: expected %v, got %v", want, got)
	}
	if got := BipolarCycle.UrgesOn(5); got != ([6]int{}) {
		t.Fatalf("bipolar cycle carries no urges, got %v", got)
	}
}

func TestPrimaryUrge(t *testing.T) {
	tests := []struct {
		name  string
		urges [6]int
		want  string
	}{
		{name: "scroll", urges: UrgeCycle.UrgesOn(1), want: "scroll"},
		{name: "spend", urges: UrgeCycle.UrgesOn(14), want: "spend"},
		{name: "nothing above 50", urges: [6]int{10, 20, 30, 40, 50, 50}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryUrge(tt.urges); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUrgeNamesMatchTemplate(t *testing.T) {
	tmpl, err := analysis.NewRegistry().Get(analysis.TemplateUrges)
	if err != nil {
		t.Fatalf("urges template: %v", err)
	}
	var names []string
	for _, f := range tmpl.Schema.Fields {
		if f.Name != "urges" {
			continue
		}
		for _, nested := range f.Fields {
			names = append(names, nested.Name)
		}
	}
	if !reflect.DeepEqual(names, UrgeNames[:]) {
		t.Fatalf("urge names %v do not match template fields %v", UrgeNames, names)
	}
}

func TestGenerateUrgeProfile(t *testing.T) {
	entries := Generate(UrgeCycle, 2025, time.March, activity.NewRand(5))
	if len(entries) != 31 {
		t.Fatalf("expected 31 entries, got %d", len(entries))
	}

	first := entries[0].Classification
	for _, key := range []string{"emotion", "themes", "self_reflection", "urges"} {
		if _, ok := first[key].(map[string]any); !ok {
			t.Fatalf("missing %s analysis: %v", key, first)
		}
	}

	scores := activity.ScoresFromMap(first["emotion"].(map[string]any))
	if scores.Get(activity.Joy) != 50 {
		t.Fatalf("unexpected joy on day 1: %d", scores.Get(activity.Joy))
	}

	urges := first["urges"].(map[string]any)
	if urges["primary_urge"] != "scroll" {
		t.Fatalf("unexpected primary urge: %v", urges["primary_urge"])
	}
	values := urges["urges"].(map[string]any)
	if values["Scroll"] != 70 || values["Eat"] != 40 {
		t.Fatalf("unexpected urge values: %v", values)
	}
	triggers := urges["triggers"].(map[string]any)
	if n := len(triggers["Scroll"].([]string)); n != 2 {
		t.Fatalf("expected two scroll triggers, got %d", n)
	}
	if n := len(triggers["Eat"].([]string)); n != 0 {
		t.Fatalf("urges at or below 50 should carry no triggers, got %d", n)
	}

	themes := first["themes"].(map[string]any)
	if themes["dominant_theme"] != "Connection seeking" {
		t.Fatalf("unexpected dominant theme: %v", themes["dominant_theme"])
	}
	if list := themes["themes"].([]any); len(list) != 3 {
		t.Fatalf("expected two themes plus one extra, got %d", len(list))
	}

	level := first["self_reflection"].(map[string]any)["introspection_level"].(int)
	if level < 3 || level > 7 {
		t.Fatalf("introspection level out of range: %d", level)
	}
}
