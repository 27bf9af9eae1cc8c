package activity

import "fmt"

// Rule 是作用于情绪分数的推荐规则，规则之间相互独立，可同时命中。
type Rule interface {
	Name() string
	Matches(scores EmotionScores) bool
	Category() string
	Reason(scores EmotionScores) string
}

// ThresholdRule 在某个情绪严格大于阈值时命中。
type ThresholdRule struct {
	RuleName         string
	Emotion          Emotion
	Threshold        int
	ActivityCategory string
	// ReasonFormat 接收当前分数作为唯一的 %d 参数。
	ReasonFormat string
}

// Name implements Rule.
func (r ThresholdRule) Name() string { return r.RuleName }

// Matches implements Rule.
func (r ThresholdRule) Matches(scores EmotionScores) bool {
	return scores.Get(r.Emotion) > r.Threshold
}

// Category implements Rule.
func (r ThresholdRule) Category() string { return r.ActivityCategory }

// Reason implements Rule.
func (r ThresholdRule) Reason(scores EmotionScores) string {
	return fmt.Sprintf(r.ReasonFormat, scores.Get(r.Emotion))
}

const defaultThreshold = 60

// HighStressRule suggests stress relief when fear is elevated.
func HighStressRule() ThresholdRule {
	return ThresholdRule{
		RuleName:         "high_stress",
		Emotion:          Fear,
		Threshold:        defaultThreshold,
		ActivityCategory: CategoryStressRelief,
		ReasonFormat:     "Your journal indicates high stress levels (%d%%). A stress-relief activity might help.",
	}
}

// LowMoodRule suggests mood boosting when sadness is elevated.
func LowMoodRule() ThresholdRule {
	return ThresholdRule{
		RuleName:         "low_mood",
		Emotion:          Sadness,
		Threshold:        defaultThreshold,
		ActivityCategory: CategoryMoodBoosting,
		ReasonFormat:     "Your journal indicates low mood (%d%%). This activity might help improve your mood.",
	}
}

// AngerManagementRule suggests anger management when anger is elevated.
func AngerManagementRule() ThresholdRule {
	return ThresholdRule{
		RuleName:         "anger_management",
		Emotion:          Anger,
		Threshold:        defaultThreshold,
		ActivityCategory: CategoryAngerManagement,
		ReasonFormat:     "Your journal indicates high anger levels (%d%%). This activity might help manage those feelings.",
	}
}

// DefaultRules 返回内置规则集。
func DefaultRules() []Rule {
	return []Rule{HighStressRule(), LowMoodRule(), AngerManagementRule()}
}
