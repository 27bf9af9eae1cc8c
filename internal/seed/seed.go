// Package seed 生成用于演示与手工测试的模拟日记数据。
package seed

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/smartjournal/internal/activity"
)

// Keyframe 是情绪周期中某一天的情绪强度，顺序与 activity.Emotions 一致。
// Urges 的顺序与 UrgeNames 一致，仅对 TracksUrges 的周期有效。
type Keyframe struct {
	Day    int
	Scores [6]int
	Urges  [6]int
}

// Profile 描述一个模拟用户的月度情绪周期，关键帧之间线性插值。
// TracksUrges 为 true 时，日记按 emotion/themes/self_reflection/urges 四个模板分组生成分析结果。
type Profile struct {
	Name        string
	Keyframes   []Keyframe
	TracksUrges bool
}

// UrgeNames 与内置 urges 模板的字段一致。
var UrgeNames = [6]string{"Eat", "Drink", "Smoke", "Spend", "Scroll", "Isolate"}

// BipolarCycle 模拟一个月内从抑郁期经过平稳期进入躁狂期再回落的周期。
var BipolarCycle = Profile{
	Name: "bipolar",
	Keyframes: []Keyframe{
		{Day: 1, Scores: [6]int{10, 80, 30, 60, 5, 20}},
		{Day: 3, Scores: [6]int{5, 85, 40, 65, 10, 25}},
		{Day: 7, Scores: [6]int{12, 75, 30, 50, 10, 15}},
		{Day: 10, Scores: [6]int{20, 65, 25, 45, 15, 10}},
		{Day: 14, Scores: [6]int{45, 35, 15, 30, 35, 10}},
		{Day: 16, Scores: [6]int{55, 25, 20, 25, 40, 5}},
		{Day: 20, Scores: [6]int{75, 10, 35, 15, 55, 5}},
		{Day: 24, Scores: [6]int{90, 5, 60, 5, 70, 15}},
		{Day: 26, Scores: [6]int{95, 5, 70, 15, 75, 20}},
		{Day: 28, Scores: [6]int{85, 10, 65, 25, 60, 15}},
		{Day: 31, Scores: [6]int{65, 30, 40, 35, 35, 15}},
	},
}

// UrgeCycle 模拟一个同时记录情绪与冲动的用户：月初社交媒体冲动较强，
// 月中转为购物与进食冲动，月底购物冲动再次升高。
var UrgeCycle = Profile{
	Name:        "urges",
	TracksUrges: true,
	Keyframes: []Keyframe{
		{Day: 1, Scores: [6]int{50, 20, 15, 25, 30, 10}, Urges: [6]int{40, 15, 7, 30, 70, 20}},
		{Day: 3, Scores: [6]int{45, 30, 20, 30, 25, 15}, Urges: [6]int{45, 20, 10, 40, 75, 25}},
		{Day: 5, Scores: [6]int{55, 25, 15, 20, 30, 10}, Urges: [6]int{35, 10, 5, 35, 80, 15}},
		{Day: 7, Scores: [6]int{60, 15, 10, 15, 35, 5}, Urges: [6]int{30, 5, 2, 25, 75, 10}},
		{Day: 10, Scores: [6]int{40, 35, 30, 40, 20, 20}, Urges: [6]int{55, 25, 12, 60, 40, 35}},
		{Day: 12, Scores: [6]int{35, 40, 35, 45, 15, 25}, Urges: [6]int{60, 30, 15, 65, 30, 40}},
		{Day: 14, Scores: [6]int{30, 45, 40, 50, 10, 30}, Urges: [6]int{65, 35, 17, 70, 25, 45}},
		{Day: 16, Scores: [6]int{35, 40, 30, 45, 15, 25}, Urges: [6]int{60, 30, 15, 65, 35, 40}},
		{Day: 18, Scores: [6]int{45, 30, 20, 35, 25, 20}, Urges: [6]int{50, 25, 12, 55, 45, 30}},
		{Day: 20, Scores: [6]int{55, 20, 15, 25, 35, 15}, Urges: [6]int{40, 15, 7, 40, 60, 20}},
		{Day: 22, Scores: [6]int{65, 15, 10, 15, 40, 10}, Urges: [6]int{35, 10, 5, 30, 70, 15}},
		{Day: 24, Scores: [6]int{70, 10, 15, 20, 45, 15}, Urges: [6]int{50, 20, 10, 45, 65, 25}},
		{Day: 26, Scores: [6]int{60, 20, 25, 30, 35, 20}, Urges: [6]int{60, 30, 15, 60, 50, 30}},
		{Day: 28, Scores: [6]int{50, 30, 30, 35, 25, 25}, Urges: [6]int{65, 35, 17, 70, 40, 35}},
		{Day: 30, Scores: [6]int{45, 35, 35, 40, 20, 30}, Urges: [6]int{70, 40, 20, 75, 35, 40}},
		{Day: 31, Scores: [6]int{40, 40, 40, 45, 15, 35}, Urges: [6]int{75, 45, 22, 80, 30, 45}},
	},
}

// Profiles 按名称索引可用的情绪周期。
var Profiles = map[string]Profile{
	BipolarCycle.Name: BipolarCycle,
	UrgeCycle.Name:    UrgeCycle,
}

// 情绪状态。
const (
	StateDepressive = "depressive"
	StateNeutral    = "neutral"
	StateManic      = "manic"
)

// ScoresOn 返回某一天的情绪强度，超出关键帧范围时取最近的关键帧。
func (p Profile) ScoresOn(day int) [6]int {
	return p.interpolate(day, func(k Keyframe) [6]int { return k.Scores })
}

// UrgesOn 返回某一天的冲动强度，插值方式与 ScoresOn 相同。
func (p Profile) UrgesOn(day int) [6]int {
	return p.interpolate(day, func(k Keyframe) [6]int { return k.Urges })
}

func (p Profile) interpolate(day int, values func(Keyframe) [6]int) [6]int {
	frames := append([]Keyframe(nil), p.Keyframes...)
	sort.Slice(frames, func(i, j int) bool { return frames[i].Day < frames[j].Day })
	if len(frames) == 0 {
		return [6]int{}
	}
	if day <= frames[0].Day {
		return values(frames[0])
	}
	for i := 1; i < len(frames); i++ {
		next := frames[i]
		if day > next.Day {
			continue
		}
		if day == next.Day {
			return values(next)
		}
		prev, to := values(frames[i-1]), values(next)
		factor := float64(day-frames[i-1].Day) / float64(next.Day-frames[i-1].Day)
		var out [6]int
		for k := range out {
			out[k] = int(math.Round(float64(prev[k]) + factor*float64(to[k]-prev[k])))
		}
		return out
	}
	return values(frames[len(frames)-1])
}

// MoodState 按 Joy 与 Sadness 判断当天的情绪状态。
func MoodState(scores [6]int) string {
	joy, sadness := scores[0], scores[1]
	switch {
	case joy > 70:
		return StateManic
	case sadness > 60:
		return StateDepressive
	default:
		return StateNeutral
	}
}

// Entry 是一条生成的日记。
type Entry struct {
	Date           time.Time
	Title          string
	Text           string
	Classification map[string]any
}

// Generate 为 year/month 的每一天生成一条日记，时间固定为当天 21:00 UTC。
func Generate(p Profile, year int, month time.Month, rng activity.Rand) []Entry {
	first := time.Date(year, month, 1, 21, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	entries := make([]Entry, 0, days)
	for day := 1; day <= days; day++ {
		scores := p.ScoresOn(day)
		pool := entryPools[MoodState(scores)]
		var urges [6]int
		primary := ""
		if p.TracksUrges {
			urges = p.UrgesOn(day)
			primary = PrimaryUrge(urges)
			pool = urgePoolFor(primary)
		}

		text := pick(rng, pool.texts)
		detail := pick(rng, pool.details)
		result := classification(scores, rng)
		if p.TracksUrges {
			result = map[string]any{
				"emotion":         result,
				"urges":           urgeAnalysis(urges, primary, rng),
				"themes":          themesAnalysis(primary, rng),
				"self_reflection": reflectionAnalysis(primary, rng),
			}
		}
		entries = append(entries, Entry{
			Date:           first.AddDate(0, 0, day-1),
			Title:          pick(rng, pool.titles),
			Text:           fmt.Sprintf(text, detail),
			Classification: result,
		})
	}
	return entries
}

// PrimaryUrge 返回最强冲动的小写名称；所有冲动都不超过 50 时返回空字符串。
func PrimaryUrge(urges [6]int) string {
	best := 0
	for i := range urges {
		if urges[i] > urges[best] {
			best = i
		}
	}
	if urges[best] <= 50 {
		return ""
	}
	return strings.ToLower(UrgeNames[best])
}

func urgeAnalysis(urges [6]int, primary string, rng activity.Rand) map[string]any {
	values := make(map[string]any, len(UrgeNames))
	triggers := make(map[string]any, len(UrgeNames))
	for i, name := range UrgeNames {
		v := urges[i]
		values[name] = v
		if v > 50 {
			triggers[name] = sample(rng, urgeTriggerPools[name], min(2, v/30))
		} else {
			triggers[name] = []string{}
		}
	}
	return map[string]any{
		"urges":        values,
		"primary_urge": primary,
		"triggers":     triggers,
	}
}

func themesAnalysis(primary string, rng activity.Rand) map[string]any {
	pool, ok := themePools[primary]
	if !ok {
		pool = themePools[""]
	}
	themes := make([]any, 0, len(pool)+1)
	for i, th := range pool {
		low := 7 - i
		themes = append(themes, map[string]any{
			"name":       th.name,
			"prominence": low + rng.IntN(4),
			"evidence":   append([]string(nil), th.evidence...),
		})
	}
	extra := additionalThemes[rng.IntN(len(additionalThemes))]
	themes = append(themes, map[string]any{
		"name":       extra.name,
		"prominence": 3 + rng.IntN(5),
		"evidence":   append([]string(nil), extra.evidence...),
	})
	return map[string]any{"themes": themes, "dominant_theme": pool[0].name}
}

func reflectionAnalysis(primary string, rng activity.Rand) map[string]any {
	level := 3 + rng.IntN(5)
	if primary == "" {
		level = 7 + rng.IntN(4)
	}
	pool, ok := reflectionPools[primary]
	if !ok {
		pool = reflectionPools[""]
	}
	r := pool.reflections[rng.IntN(len(pool.reflections))]
	return map[string]any{
		"introspection_level": level,
		"reflections":         []any{map[string]any{"reflection": r[0], "insight": r[1]}},
		"summary":             pool.summary,
	}
}

func classification(scores [6]int, rng activity.Rand) map[string]any {
	es := activity.EmotionScores{
		Values:   make(map[activity.Emotion]int, len(activity.Emotions)),
		Triggers: make(map[activity.Emotion][]string),
	}
	for i, e := range activity.Emotions {
		v := scores[i]
		es.Values[e] = v
		if v <= 30 {
			continue
		}
		if candidates, ok := triggerPools[e]; ok {
			es.Triggers[e] = sample(rng, candidates, min(2, v/30))
		}
	}
	return es.Map()
}

func pick(rng activity.Rand, items []string) string {
	return items[rng.IntN(len(items))]
}

// sample 无放回地抽取 k 个元素，保持原有顺序。
func sample(rng activity.Rand, items []string, k int) []string {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k && i < len(idx); i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	chosen := idx[:min(k, len(idx))]
	sort.Ints(chosen)
	out := make([]string, 0, len(chosen))
	for _, i := range chosen {
		out = append(out, items[i])
	}
	return out
}
