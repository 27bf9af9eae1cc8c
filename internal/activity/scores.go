package activity

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Emotion 是分析结果中使用的固定情绪名称。
type Emotion string

const (
	Joy      Emotion = "Joy"
	Sadness  Emotion = "Sadness"
	Anger    Emotion = "Anger"
	Fear     Emotion = "Fear"
	Surprise Emotion = "Surprise"
	Disgust  Emotion = "Disgust"
)

// TriggersKey 是情绪分析结果中触发因素字段的键名。
const TriggersKey = "triggers"

// Emotions lists every supported emotion in display order.
var Emotions = []Emotion{Joy, Sadness, Anger, Fear, Surprise, Disgust}

// EmotionScores 保存 0-100 的情绪强度，缺失的情绪视为 0。
type EmotionScores struct {
	Values   map[Emotion]int
	Triggers map[Emotion][]string
}

// Get returns the intensity for an emotion, 0 when absent.
func (s EmotionScores) Get(e Emotion) int {
	if s.Values == nil {
		return 0
	}
	return s.Values[e]
}

// Map 将分数转换回与 "emotion" 模板一致的扁平结构。
func (s EmotionScores) Map() map[string]any {
	out := make(map[string]any, len(Emotions)+1)
	triggers := make(map[string]any, len(Emotions))
	for _, e := range Emotions {
		out[string(e)] = s.Get(e)
		list := s.Triggers[e]
		if list == nil {
			list = []string{}
		}
		triggers[string(e)] = list
	}
	out[TriggersKey] = triggers
	return out
}

// ZeroScores 返回全部为 0 的情绪结构，用于下游需要 "emotion" 键时的兜底。
func ZeroScores() map[string]any {
	return EmotionScores{}.Map()
}

// ScoresFromMap 从分析结果中解析情绪分数，键名大小写不敏感，数值被截断到 [0,100]。
func ScoresFromMap(m map[string]any) EmotionScores {
	scores := EmotionScores{
		Values:   make(map[Emotion]int, len(Emotions)),
		Triggers: make(map[Emotion][]string),
	}
	if m == nil {
		return scores
	}

	for key, raw := range m {
		e, ok := lookupEmotion(key)
		if !ok {
			continue
		}
		if v, ok := intensity(raw); ok {
			scores.Values[e] = v
		}
	}

	if rawTriggers, ok := m[TriggersKey].(map[string]any); ok {
		for key, raw := range rawTriggers {
			e, ok := lookupEmotion(key)
			if !ok {
				continue
			}
			scores.Triggers[e] = stringList(raw)
		}
	}
	return scores
}

// LooksLikeEmotions 判断一个扁平结构是否包含至少一个情绪字段。
func LooksLikeEmotions(m map[string]any) bool {
	for key := range m {
		if _, ok := lookupEmotion(key); ok {
			return true
		}
	}
	return false
}

func lookupEmotion(key string) (Emotion, bool) {
	trimmed := strings.TrimSpace(key)
	for _, e := range Emotions {
		if strings.EqualFold(trimmed, string(e)) {
			return e, true
		}
	}
	return "", false
}

func intensity(raw any) (int, bool) {
	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return int(math.Round(math.Max(0, math.Min(100, f)))), true
}

func stringList(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}
