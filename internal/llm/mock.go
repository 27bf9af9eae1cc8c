package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/smartjournal/internal/activity"
	"github.com/smartjournal/internal/analysis"
)

var emotionKeywords = map[activity.Emotion][]string{
	activity.Joy:      {"happy", "glad", "excited", "grateful", "joy", "great", "love", "proud"},
	activity.Sadness:  {"sad", "lonely", "depressed", "cry", "crying", "miserable", "hopeless", "down"},
	activity.Anger:    {"furious", "angry", "mad", "rage", "annoyed", "irritated", "hate", "frustrated"},
	activity.Fear:     {"afraid", "scared", "anxious", "worried", "nervous", "stressed", "panic", "deadline"},
	activity.Surprise: {"surprised", "unexpected", "shocked", "suddenly", "wow"},
	activity.Disgust:  {"disgust", "disgusting", "gross", "revolting", "sick of"},
}

// MockProvider 不访问网络，按提示词中的示例结构生成回复。
// 对情绪类结构使用关键词估算强度，其余模板直接返回示例。
type MockProvider struct{}

// NewMockProvider returns a provider that needs no credentials.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Complete implements analysis.Provider.
func (m *MockProvider) Complete(_ context.Context, prompt string, _ bool) (string, error) {
	example, ok := analysis.ExampleFromPrompt(prompt)
	if !ok {
		return "", fmt.Errorf("mock provider: prompt carries no example response")
	}

	reply := example
	if activity.LooksLikeEmotions(example) {
		reply = ScoreEmotions(analysis.EntryFromPrompt(prompt)).Map()
	}

	buf, err := json.Marshal(reply)
	if err != nil {
		return "", fmt.Errorf("mock provider: %w", err)
	}
	return string(buf), nil
}

// ScoreEmotions 按关键词命中次数估算情绪强度：首次命中 75，之后每次 +10，上限 95。
func ScoreEmotions(text string) activity.EmotionScores {
	lowered := strings.ToLower(text)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != '\''
	})

	scores := activity.EmotionScores{
		Values:   make(map[activity.Emotion]int, len(activity.Emotions)),
		Triggers: make(map[activity.Emotion][]string),
	}
	for _, e := range activity.Emotions {
		var hits []string
		for _, keyword := range emotionKeywords[e] {
			if strings.Contains(keyword, " ") {
				if strings.Contains(lowered, keyword) {
					hits = append(hits, keyword)
				}
				continue
			}
			if slices.Contains(words, keyword) {
				hits = append(hits, keyword)
			}
		}
		if len(hits) == 0 {
			scores.Values[e] = 0
			continue
		}
		scores.Values[e] = min(95, 75+10*(len(hits)-1))
		scores.Triggers[e] = hits
	}
	return scores
}
