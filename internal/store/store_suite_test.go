package store

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sampleActivity(id, category string, at time.Time) SuggestedActivity {
	return SuggestedActivity{
		ActivityID:          id,
		ActivityName:        "Deep Breathing",
		ActivityDescription: "Breathe slowly",
		ActivityCategory:    category,
		Reason:              "Your journal indicates high stress levels (70%).",
		SuggestedAt:         at,
		MoodBenefits:        []string{"calm", "focus"},
		Difficulty:          1,
		DurationMinutes:     5,
	}
}

// runStoreSuite 对任意 Store 实现执行同一组行为检查。
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("entries are appended in order", func(t *testing.T) {
		s := newStore(t)
		for i, title := range []string{"first", "second"} {
			err := s.AppendJournalEntry(ctx, "alice", JournalEntry{
				Title:     title,
				Text:      "text " + title,
				Timestamp: base.Add(time.Duration(i) * time.Hour),
				Classification: map[string]any{
					"emotion": map[string]any{"Anger": 75, "triggers": map[string]any{"Anger": []string{"traffic"}}},
				},
			})
			if err != nil {
				t.Fatalf("append entry: %v", err)
			}
		}

		entries, err := s.ListJournalEntries(ctx, "alice")
		if err != nil {
			t.Fatalf("list entries: %v", err)
		}
		if len(entries) != 2 || entries[0].Title != "first" || entries[1].Title != "second" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
		if entries[0].ID == "" || entries[0].ID == entries[1].ID {
			t.Fatalf("expected distinct generated ids, got %q and %q", entries[0].ID, entries[1].ID)
		}
		if !entries[0].Timestamp.Equal(base) {
			t.Fatalf("timestamp changed: %v", entries[0].Timestamp)
		}
		emotion, ok := entries[0].Classification["emotion"].(map[string]any)
		if !ok || emotion["Anger"] != 75.0 {
			t.Fatalf("classification did not round-trip: %#v", entries[0].Classification)
		}
		if entries[0].WordFrequencies == nil {
			t.Fatalf("word frequencies should be an empty list")
		}

		user, err := s.GetUser(ctx, "alice")
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		if user.Username != "alice" || len(user.Entries) != 2 {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetUser(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		entries, err := s.ListJournalEntries(ctx, "ghost")
		if err != nil || len(entries) != 0 {
			t.Fatalf("expected empty entries, got %v %v", entries, err)
		}
		activities, err := s.ListSuggestedActivities(ctx, "ghost", true)
		if err != nil || len(activities) != 0 {
			t.Fatalf("expected empty activities, got %v %v", activities, err)
		}
		found, err := s.UpdateSuggestedActivity(ctx, "ghost", "stress_1", ActivityUpdate{Completed: true})
		if err != nil || found {
			t.Fatalf("expected not found without error, got %v %v", found, err)
		}
	})

	t.Run("empty username", func(t *testing.T) {
		s := newStore(t)
		if err := s.AppendJournalEntry(ctx, "  ", JournalEntry{Title: "x"}); !errors.Is(err, ErrInvalidUsername) {
			t.Fatalf("expected ErrInvalidUsername, got %v", err)
		}
	})

	t.Run("suggested activities lifecycle", func(t *testing.T) {
		s := newStore(t)
		for i, a := range []SuggestedActivity{
			sampleActivity("stress_1", "stress_relief", base),
			sampleActivity("anger_2", "anger_management", base.Add(time.Minute)),
			sampleActivity("stress_1", "stress_relief", base.Add(2*time.Minute)),
		} {
			if err := s.AppendSuggestedActivity(ctx, "bob", a); err != nil {
				t.Fatalf("append activity %d: %v", i, err)
			}
		}

		completedAt := base.Add(time.Hour)
		found, err := s.UpdateSuggestedActivity(ctx, "bob", "stress_1", ActivityUpdate{
			Completed:   true,
			CompletedAt: &completedAt,
			Rating:      intPtr(4),
			Notes:       strPtr("felt calmer"),
		})
		if err != nil || !found {
			t.Fatalf("expected update to succeed, got %v %v", found, err)
		}

		all, err := s.ListSuggestedActivities(ctx, "bob", true)
		if err != nil {
			t.Fatalf("list activities: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 activities, got %d", len(all))
		}
		if all[0].Completed {
			t.Fatalf("older suggestion of the same activity must stay untouched")
		}
		latest := all[2]
		if !latest.Completed || latest.CompletedAt == nil || !latest.CompletedAt.Equal(completedAt) {
			t.Fatalf("latest suggestion not completed: %+v", latest)
		}
		if latest.UserRating == nil || *latest.UserRating != 4 || latest.UserNotes == nil || *latest.UserNotes != "felt calmer" {
			t.Fatalf("feedback not stored: %+v", latest)
		}
		if !slices.Equal(latest.MoodBenefits, []string{"calm", "focus"}) || latest.Difficulty != 1 || latest.DurationMinutes != 5 {
			t.Fatalf("denormalised fields lost: %+v", latest)
		}

		open, err := s.ListSuggestedActivities(ctx, "bob", false)
		if err != nil {
			t.Fatalf("list open activities: %v", err)
		}
		if len(open) != 2 {
			t.Fatalf("expected 2 open activities, got %d", len(open))
		}

		found, err = s.UpdateSuggestedActivity(ctx, "bob", "stress_1", ActivityUpdate{Completed: false})
		if err != nil || !found {
			t.Fatalf("expected reopen to succeed, got %v %v", found, err)
		}
		all, _ = s.ListSuggestedActivities(ctx, "bob", true)
		if all[2].Completed || all[2].CompletedAt != nil {
			t.Fatalf("reopen should clear completion: %+v", all[2])
		}
		if all[2].UserRating == nil || *all[2].UserRating != 4 {
			t.Fatalf("rating should be kept when not provided: %+v", all[2])
		}
	})

	t.Run("updating a missing activity changes nothing", func(t *testing.T) {
		s := newStore(t)
		if err := s.AppendSuggestedActivity(ctx, "carol", sampleActivity("mood_1", "mood_boosting", base)); err != nil {
			t.Fatalf("append activity: %v", err)
		}
		before, _ := s.ListSuggestedActivities(ctx, "carol", true)

		found, err := s.UpdateSuggestedActivity(ctx, "carol", "nonexistent", ActivityUpdate{Completed: true, Rating: intPtr(5)})
		if err != nil || found {
			t.Fatalf("expected not found, got %v %v", found, err)
		}

		after, _ := s.ListSuggestedActivities(ctx, "carol", true)
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("activities changed:\nbefore %+v\nafter  %+v", before, after)
		}
	})

	t.Run("template preferences", func(t *testing.T) {
		s := newStore(t)
		prefs, err := s.GetTemplatePreferences(ctx, "dave")
		if err != nil || prefs != nil {
			t.Fatalf("expected no preferences, got %v %v", prefs, err)
		}

		if err := s.SetTemplatePreferences(ctx, "dave", []string{"themes", " emotion ", "themes", ""}); err != nil {
			t.Fatalf("set preferences: %v", err)
		}
		prefs, err = s.GetTemplatePreferences(ctx, "dave")
		if err != nil {
			t.Fatalf("get preferences: %v", err)
		}
		if !slices.Equal(prefs, []string{"themes", "emotion"}) {
			t.Fatalf("unexpected preferences: %v", prefs)
		}

		user, err := s.GetUser(ctx, "dave")
		if err != nil {
			t.Fatalf("setting preferences should create the user: %v", err)
		}
		if !slices.Equal(user.TemplatePreferences, prefs) {
			t.Fatalf("user preferences mismatch: %v", user.TemplatePreferences)
		}
	})
}
