package analysis

// 内置模板名称。
const (
	TemplateEmotion        = "emotion"
	TemplateThemes         = "themes"
	TemplateSelfReflection = "self_reflection"
	TemplateUrges          = "urges"
)

// DefaultTemplate 是未指定模板时使用的模板。
const DefaultTemplate = TemplateEmotion

func builtinTemplates() []Template {
	return []Template{
		emotionTemplate(),
		themesTemplate(),
		selfReflectionTemplate(),
		urgesTemplate(),
	}
}

var emotionNames = []string{"Joy", "Sadness", "Anger", "Fear", "Surprise", "Disgust"}

func emotionTemplate() Template {
	fields := make([]Field, 0, len(emotionNames)+1)
	triggers := make([]Field, 0, len(emotionNames))
	for _, name := range emotionNames {
		fields = append(fields, Percent(name, "intensity of "+name))
		triggers = append(triggers, StringList(name, "events or thoughts that triggered "+name))
	}
	fields = append(fields, Object("triggers", "triggers grouped by emotion", triggers...))

	return Template{
		Name: TemplateEmotion,
		Questions: []string{
			"Which of the emotions Joy, Sadness, Anger, Fear, Surprise and Disgust are expressed in this entry?",
			"How intense is each emotion on a scale from 0 (absent) to 100 (overwhelming)?",
			"What events, people or thoughts triggered each emotion? Leave the list empty when none are stated.",
		},
		Schema: Schema{
			Fields: fields,
			Example: map[string]any{
				"Joy":      10,
				"Sadness":  65,
				"Anger":    20,
				"Fear":     40,
				"Surprise": 0,
				"Disgust":  5,
				"triggers": map[string]any{
					"Joy":      []any{},
					"Sadness":  []any{"argument with a friend"},
					"Anger":    []any{"being interrupted in a meeting"},
					"Fear":     []any{"upcoming deadline"},
					"Surprise": []any{},
					"Disgust":  []any{},
				},
			},
		},
	}
}

func themesTemplate() Template {
	return Template{
		Name: TemplateThemes,
		Questions: []string{
			"What are the main themes or life areas this entry is about (for example work, relationships, health)?",
			"How prominent is each theme on a scale from 1 to 10?",
			"Which short quotes from the entry support each theme?",
		},
		Schema: Schema{
			Fields: []Field{
				ObjectList("themes", "themes found in the entry",
					String("name", "short theme name"),
					Scale("prominence", 1, 10, "how central the theme is"),
					StringList("evidence", "quotes from the entry"),
				),
				String("dominant_theme", "the single most prominent theme"),
			},
			Example: map[string]any{
				"themes": []any{
					map[string]any{"name": "work", "prominence": 8, "evidence": []any{"my manager moved the deadline again"}},
					map[string]any{"name": "sleep", "prominence": 4, "evidence": []any{"only slept five hours"}},
				},
				"dominant_theme": "work",
			},
		},
	}
}

func selfReflectionTemplate() Template {
	return Template{
		Name: TemplateSelfReflection,
		Questions: []string{
			"How introspective is the writer on a scale from 1 (pure description) to 10 (deep self-examination)?",
			"Which reflections does the writer make, and what insight does each one reveal?",
			"Summarize the writer's self-reflection in one or two sentences.",
		},
		Schema: Schema{
			Fields: []Field{
				Scale("introspection_level", 1, 10, "depth of self-examination"),
				ObjectList("reflections", "reflections with the insight they reveal",
					String("reflection", "what the writer reflected on"),
					String("insight", "what it reveals"),
				),
				String("summary", "one or two sentence summary"),
			},
			Example: map[string]any{
				"introspection_level": 6,
				"reflections": []any{
					map[string]any{
						"reflection": "I snap at people when I am tired",
						"insight":    "fatigue lowers the writer's patience",
					},
				},
				"summary": "The writer notices a link between tiredness and irritability.",
			},
		},
	}
}

var urgeNames = []string{"Eat", "Drink", "Smoke", "Spend", "Scroll", "Isolate"}

func urgesTemplate() Template {
	urges := make([]Field, 0, len(urgeNames))
	triggers := make([]Field, 0, len(urgeNames))
	for _, name := range urgeNames {
		urges = append(urges, Percent(name, "strength of the urge to "+name))
		triggers = append(triggers, StringList(name, "what triggered the urge to "+name))
	}

	return Template{
		Name: TemplateUrges,
		Questions: []string{
			"Does the writer describe urges to eat, drink, smoke, spend, scroll or isolate?",
			"How strong is each urge on a scale from 0 to 100?",
			"Which urge is the strongest, and what triggered each urge?",
		},
		Schema: Schema{
			Fields: []Field{
				Object("urges", "urge strengths", urges...),
				String("primary_urge", "name of the strongest urge, empty when none"),
				Object("triggers", "triggers grouped by urge", triggers...),
			},
		},
	}
}
