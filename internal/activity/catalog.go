package activity

import "slices"

// 活动分类标签。
const (
	CategoryStressRelief    = "stress_relief"
	CategoryMoodBoosting    = "mood_boosting"
	CategoryAngerManagement = "anger_management"
)

// Activity 描述一项可被推荐的应对活动，目录构造完成后不再修改。
type Activity struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	MoodBenefits    []string `json:"mood_benefits"`
	Difficulty      int      `json:"difficulty"`
	DurationMinutes int      `json:"duration_minutes"`
	ResourcesNeeded []string `json:"resources_needed"`
}

// Catalog 是按分类组织的只读活动目录。
type Catalog struct {
	categories []string
	byCategory map[string][]Activity
	byID       map[string]Activity
}

// NewCatalog 使用给定活动构造目录，分类顺序按首次出现的顺序保留。
func NewCatalog(activities []Activity) *Catalog {
	c := &Catalog{
		byCategory: make(map[string][]Activity),
		byID:       make(map[string]Activity, len(activities)),
	}
	for _, a := range activities {
		if _, exists := c.byID[a.ID]; exists {
			continue
		}
		if _, seen := c.byCategory[a.Category]; !seen {
			c.categories = append(c.categories, a.Category)
		}
		c.byCategory[a.Category] = append(c.byCategory[a.Category], a)
		c.byID[a.ID] = a
	}
	return c
}

// DefaultCatalog 返回内置的活动目录。
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultActivities)
}

// Categories 返回所有分类。
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// ByCategory returns the activities of a category, or an empty slice for an unknown one.
func (c *Catalog) ByCategory(category string) []Activity {
	list := c.byCategory[category]
	if len(list) == 0 {
		return []Activity{}
	}
	return slices.Clone(list)
}

// ByID looks an activity up by its stable identifier.
func (c *Catalog) ByID(id string) (Activity, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All 按分类顺序返回全部活动。
func (c *Catalog) All() []Activity {
	out := make([]Activity, 0, len(c.byID))
	for _, category := range c.categories {
		out = append(out, c.byCategory[category]...)
	}
	return out
}

// RandomFromCategory 从分类中均匀随机选出一项活动，分类为空时返回 false。
func (c *Catalog) RandomFromCategory(category string, rng Rand) (Activity, bool) {
	list := c.byCategory[category]
	if len(list) == 0 {
		return Activity{}, false
	}
	return list[rng.IntN(len(list))], true
}

var defaultActivities = []Activity{
	{
		ID:              "stress_1",
		Name:            "5-Minute Breathing Exercise",
		Description:     "Find a quiet place. Breathe in for 4 counts, hold for 2, exhale for 6. Repeat for 5 minutes.",
		Category:        CategoryStressRelief,
		MoodBenefits:    []string{"Reduced anxiety", "Better focus"},
		Difficulty:      1,
		DurationMinutes: 5,
	},
	{
		ID:              "stress_2",
		Name:            "Progressive Muscle Relaxation",
		Description:     "Tense and then release each muscle group in your body, starting from your toes and working up to your head.",
		Category:        CategoryStressRelief,
		MoodBenefits:    []string{"Reduced tension", "Physical relaxation"},
		Difficulty:      2,
		DurationMinutes: 15,
	},
	{
		ID:              "stress_3",
		Name:            "Nature Walk",
		Description:     "Take a slow walk in nature, focusing on the sights, sounds, and smells around you.",
		Category:        CategoryStressRelief,
		MoodBenefits:    []string{"Relaxation", "Perspective"},
		Difficulty:      2,
		DurationMinutes: 30,
		ResourcesNeeded: []string{"Access to outdoors"},
	},
	{
		ID:              "stress_4",
		Name:            "5-4-3-2-1 Grounding",
		Description:     "Name 5 things you can see, 4 you can touch, 3 you can hear, 2 you can smell and 1 you can taste.",
		Category:        CategoryStressRelief,
		MoodBenefits:    []string{"Calm", "Present-moment awareness"},
		Difficulty:      1,
		DurationMinutes: 5,
	},
	{
		ID:              "stress_5",
		Name:            "Worry Journal",
		Description:     "Set a timer and write down every worry on your mind, then circle the ones you can act on today.",
		Category:        CategoryStressRelief,
		MoodBenefits:    []string{"Clarity", "Reduced rumination"},
		Difficulty:      2,
		DurationMinutes: 15,
		ResourcesNeeded: []string{"Paper and pen"},
	},
	{
		ID:              "mood_1",
		Name:            "Gratitude List",
		Description:     "Write down 3-5 things you're grateful for right now, no matter how small.",
		Category:        CategoryMoodBoosting,
		MoodBenefits:    []string{"Increased positivity", "Perspective"},
		Difficulty:      1,
		DurationMinutes: 10,
	},
	{
		ID:              "mood_2",
		Name:            "Dance Break",
		Description:     "Put on your favorite upbeat song and dance freely for the duration of the song.",
		Category:        CategoryMoodBoosting,
		MoodBenefits:    []string{"Joy", "Energy"},
		Difficulty:      1,
		DurationMinutes: 5,
		ResourcesNeeded: []string{"Music"},
	},
	{
		ID:              "mood_3",
		Name:            "Call a Friend",
		Description:     "Reach out to someone who makes you feel good. Share something positive or just listen to them.",
		Category:        CategoryMoodBoosting,
		MoodBenefits:    []string{"Connection", "Support"},
		Difficulty:      2,
		DurationMinutes: 20,
		ResourcesNeeded: []string{"Phone"},
	},
	{
		ID:              "mood_4",
		Name:            "Sunlight Break",
		Description:     "Step outside or sit by a bright window for a few minutes and let the daylight reach you.",
		Category:        CategoryMoodBoosting,
		MoodBenefits:    []string{"Energy", "Improved mood"},
		Difficulty:      1,
		DurationMinutes: 10,
	},
	{
		ID:              "mood_5",
		Name:            "Small Win",
		Description:     "Pick one tiny task you have been putting off and finish it. Notice how it feels to be done.",
		Category:        CategoryMoodBoosting,
		MoodBenefits:    []string{"Accomplishment", "Motivation"},
		Difficulty:      2,
		DurationMinutes: 15,
	},
	{
		ID:              "anger_1",
		Name:            "Count to 10",
		Description:     "Before reacting, pause and slowly count to 10, focusing on your breathing.",
		Category:        CategoryAngerManagement,
		MoodBenefits:    []string{"Emotional control", "Perspective"},
		Difficulty:      1,
		DurationMinutes: 1,
	},
	{
		ID:              "anger_2",
		Name:            "Physical Release",
		Description:     "Channel your energy into a brief physical activity like jogging in place, push-ups, or punching a pillow.",
		Category:        CategoryAngerManagement,
		MoodBenefits:    []string{"Energy release", "Emotional regulation"},
		Difficulty:      2,
		DurationMinutes: 10,
	},
	{
		ID:              "anger_3",
		Name:            "Reframe Exercise",
		Description:     "Write down what's making you angry, then try to rewrite it from a more objective perspective.",
		Category:        CategoryAngerManagement,
		MoodBenefits:    []string{"Perspective", "Emotional insight"},
		Difficulty:      3,
		DurationMinutes: 15,
		ResourcesNeeded: []string{"Paper and pen"},
	},
	{
		ID:              "anger_4",
		Name:            "Cold Water Reset",
		Description:     "Splash cold water on your face or hold something cold for thirty seconds to slow your heart rate.",
		Category:        CategoryAngerManagement,
		MoodBenefits:    []string{"Physical calm", "Emotional regulation"},
		Difficulty:      1,
		DurationMinutes: 2,
		ResourcesNeeded: []string{"Cold water"},
	},
	{
		ID:              "anger_5",
		Name:            "Unsent Letter",
		Description:     "Write a letter to the person or situation that upset you. Say everything, then put it away without sending it.",
		Category:        CategoryAngerManagement,
		MoodBenefits:    []string{"Release", "Clarity"},
		Difficulty:      2,
		DurationMinutes: 15,
		ResourcesNeeded: []string{"Paper and pen"},
	},
}
