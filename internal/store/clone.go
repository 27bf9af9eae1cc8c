package store

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cloneValue 深拷贝分析结果等松散结构，并把驱动特有的容器类型转换为 map 与 slice。
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case primitive.M:
		return cloneMap(map[string]any(val))
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, elem := range val {
			out[elem.Key] = cloneValue(elem.Value)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case primitive.A:
		return cloneValue([]any(val))
	case []string:
		return slices.Clone(val)
	default:
		return val
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneEntry(e JournalEntry) JournalEntry {
	e.Classification = cloneMap(e.Classification)
	e.WordFrequencies = slices.Clone(e.WordFrequencies)
	return e
}

func cloneActivity(a SuggestedActivity) SuggestedActivity {
	a.MoodBenefits = slices.Clone(a.MoodBenefits)
	if a.CompletedAt != nil {
		at := *a.CompletedAt
		a.CompletedAt = &at
	}
	if a.UserRating != nil {
		rating := *a.UserRating
		a.UserRating = &rating
	}
	if a.UserNotes != nil {
		notes := *a.UserNotes
		a.UserNotes = &notes
	}
	return a
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	out := &User{
		Username:            u.Username,
		Entries:             make([]JournalEntry, len(u.Entries)),
		SuggestedActivities: make([]SuggestedActivity, len(u.SuggestedActivities)),
		TemplatePreferences: slices.Clone(u.TemplatePreferences),
	}
	for i, e := range u.Entries {
		out.Entries[i] = cloneEntry(e)
	}
	for i, a := range u.SuggestedActivities {
		out.SuggestedActivities[i] = cloneActivity(a)
	}
	return out
}
