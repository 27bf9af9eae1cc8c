package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrUserNotFound 表示用户记录不存在。
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUsername 表示用户名为空。
	ErrInvalidUsername = errors.New("username is required")
)

// Store 是日记数据的持久化端口。写操作在用户不存在时自动创建用户记录，
// 同一用户的并发追加由实现保证不会相互覆盖。
type Store interface {
	GetUser(ctx context.Context, username string) (*User, error)
	AppendJournalEntry(ctx context.Context, username string, entry JournalEntry) error
	ListJournalEntries(ctx context.Context, username string) ([]JournalEntry, error)
	AppendSuggestedActivity(ctx context.Context, username string, activity SuggestedActivity) error
	ListSuggestedActivities(ctx context.Context, username string, includeCompleted bool) ([]SuggestedActivity, error)
	// UpdateSuggestedActivity 更新该用户最近一次推荐的指定活动，未找到时返回 false。
	UpdateSuggestedActivity(ctx context.Context, username, activityID string, update ActivityUpdate) (bool, error)
	// GetTemplatePreferences 在用户未设置偏好时返回 nil。
	GetTemplatePreferences(ctx context.Context, username string) ([]string, error)
	SetTemplatePreferences(ctx context.Context, username string, templates []string) error
	Close(ctx context.Context) error
}

// Pinger 由可以探测后端连通性的实现提供，健康检查使用。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping 探测 st 的后端；不支持探测的实现视为始终可用。
func Ping(ctx context.Context, st Store) error {
	if p, ok := st.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// User 是一个用户的完整文档。
type User struct {
	Username            string              `json:"username" bson:"username" firestore:"username"`
	Entries             []JournalEntry      `json:"entries" bson:"entries" firestore:"entries"`
	SuggestedActivities []SuggestedActivity `json:"suggested_activities" bson:"suggested_activities" firestore:"suggested_activities"`
	TemplatePreferences []string            `json:"template_preferences,omitempty" bson:"template_preferences,omitempty" firestore:"template_preferences,omitempty"`
}

// WordFrequency 是词频统计的一项。
type WordFrequency struct {
	Word  string `json:"word" bson:"word" firestore:"word"`
	Count int    `json:"count" bson:"count" firestore:"count"`
}

// JournalEntry 是一篇已保存的日记。
type JournalEntry struct {
	ID              string          `json:"id" bson:"id" firestore:"id"`
	Title           string          `json:"title" bson:"title" firestore:"title"`
	Text            string          `json:"text" bson:"text" firestore:"text"`
	Timestamp       time.Time       `json:"timestamp" bson:"timestamp" firestore:"timestamp"`
	Classification  map[string]any  `json:"classification" bson:"classification" firestore:"classification"`
	WordFrequencies []WordFrequency `json:"word_frequencies" bson:"word_frequencies" firestore:"word_frequencies"`
}

// SuggestedActivity 是持久化的活动推荐，字段名需与历史数据保持一致。
type SuggestedActivity struct {
	ActivityID          string     `json:"activity_id" bson:"activity_id" firestore:"activity_id"`
	ActivityName        string     `json:"activity_name" bson:"activity_name" firestore:"activity_name"`
	ActivityDescription string     `json:"activity_description" bson:"activity_description" firestore:"activity_description"`
	ActivityCategory    string     `json:"activity_category" bson:"activity_category" firestore:"activity_category"`
	Reason              string     `json:"reason" bson:"reason" firestore:"reason"`
	SuggestedAt         time.Time  `json:"suggested_at" bson:"suggested_at" firestore:"suggested_at"`
	Completed           bool       `json:"completed" bson:"completed" firestore:"completed"`
	CompletedAt         *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty" firestore:"completed_at,omitempty"`
	MoodBenefits        []string   `json:"mood_benefits" bson:"mood_benefits" firestore:"mood_benefits"`
	Difficulty          int        `json:"difficulty" bson:"difficulty" firestore:"difficulty"`
	DurationMinutes     int        `json:"duration_minutes" bson:"duration_minutes" firestore:"duration_minutes"`
	UserRating          *int       `json:"user_rating,omitempty" bson:"user_rating,omitempty" firestore:"user_rating,omitempty"`
	UserNotes           *string    `json:"user_notes,omitempty" bson:"user_notes,omitempty" firestore:"user_notes,omitempty"`
}

// ActivityUpdate 描述一次完成状态更新。Rating 与 Notes 为 nil 时保留原值。
type ActivityUpdate struct {
	Completed   bool
	CompletedAt *time.Time
	Rating      *int
	Notes       *string
}

// Apply 将更新写入记录。
func (u ActivityUpdate) Apply(a *SuggestedActivity) {
	a.Completed = u.Completed
	a.CompletedAt = nil
	if u.CompletedAt != nil {
		at := u.CompletedAt.UTC()
		a.CompletedAt = &at
	}
	if u.Rating != nil {
		rating := *u.Rating
		a.UserRating = &rating
	}
	if u.Notes != nil {
		notes := *u.Notes
		a.UserNotes = &notes
	}
}

// NewEntryID 生成按时间排序的日记 ID。
func NewEntryID() string {
	return ulid.Make().String()
}

func normalizeUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", ErrInvalidUsername
	}
	return trimmed, nil
}

// prepareEntry 补全 ID 与时间戳，时间统一为 UTC，分析结果转换为纯 JSON 类型。
func prepareEntry(entry JournalEntry) (JournalEntry, error) {
	classification, err := plainJSON(entry.Classification)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("encode analysis: %w", err)
	}
	entry.Classification = classification
	if entry.ID == "" {
		entry.ID = NewEntryID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.WordFrequencies == nil {
		entry.WordFrequencies = []WordFrequency{}
	}
	return entry, nil
}

// plainJSON 经由 encoding/json 往返，确保各存储后端只看到 map、slice、string、float64 与 bool。
func plainJSON(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	buf, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func prepareActivity(a SuggestedActivity) SuggestedActivity {
	if a.SuggestedAt.IsZero() {
		a.SuggestedAt = time.Now()
	}
	a.SuggestedAt = a.SuggestedAt.UTC()
	if a.MoodBenefits == nil {
		a.MoodBenefits = []string{}
	}
	return a
}

// lastActivityIndex 返回最近一次推荐指定活动的下标。
func lastActivityIndex(activities []SuggestedActivity, activityID string) int {
	for i := len(activities) - 1; i >= 0; i-- {
		if activities[i].ActivityID == activityID {
			return i
		}
	}
	return -1
}

func filterActivities(activities []SuggestedActivity, includeCompleted bool) []SuggestedActivity {
	out := make([]SuggestedActivity, 0, len(activities))
	for _, a := range activities {
		if !includeCompleted && a.Completed {
			continue
		}
		out = append(out, a)
	}
	return out
}

func cleanTemplates(templates []string) []string {
	out := make([]string, 0, len(templates))
	for _, name := range templates {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
