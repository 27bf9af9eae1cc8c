package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartjournal/internal/activity"
	"github.com/smartjournal/internal/analysis"
	"github.com/smartjournal/internal/logging"
	"github.com/smartjournal/internal/store"
)

var (
	// ErrValidation 表示调用参数不合法，不应重试。
	ErrValidation = errors.New("validation failed")
	// ErrSuggestionNotFound 在用户没有对应的推荐活动时返回。
	ErrSuggestionNotFound = errors.New("suggested activity not found")
)

// JournalService 组合分析编排、活动推荐与持久化，实现日记相关用例。
type JournalService struct {
	orchestrator *analysis.Orchestrator
	engine       *activity.Engine
	store        store.Store
	now          func() time.Time
}

// NewJournalService 构造 JournalService，所有依赖显式传入。
func NewJournalService(orchestrator *analysis.Orchestrator, engine *activity.Engine, st store.Store) *JournalService {
	if engine == nil {
		engine = activity.NewEngine(nil, nil)
	}
	return &JournalService{
		orchestrator: orchestrator,
		engine:       engine,
		store:        st,
		now:          time.Now,
	}
}

// SetClock 替换时间来源，便于测试。
func (s *JournalService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// SaveResult 是保存日记的结果。
type SaveResult struct {
	Success           bool                     `json:"success"`
	Message           string                   `json:"message"`
	ActivitySuggested bool                     `json:"activity_suggested"`
	SuggestedActivity *store.SuggestedActivity `json:"suggested_activity,omitempty"`
	EntryID           string                   `json:"entry_id,omitempty"`
}

// AnalyzeAndSaveResult 在保存结果之外附带分析内容。
type AnalyzeAndSaveResult struct {
	SaveResult
	Analysis map[string]any `json:"analysis"`
}

// ActivityStatusUpdate 是完成状态更新请求。Completed 必填，Rating 取值 1-5。
type ActivityStatusUpdate struct {
	Completed *bool
	Rating    *int
	Notes     *string
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func requireUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", validationError("username is required")
	}
	return trimmed, nil
}

// Analyze 只做分析，不做持久化。
func (s *JournalService) Analyze(ctx context.Context, text string, sel analysis.Selector) (map[string]any, error) {
	normalized := NormalizeEntryText(text)
	if normalized == "" {
		return nil, validationError("text is required")
	}
	return s.orchestrator.Analyze(ctx, normalized, sel)
}

// Save 持久化日记，并在分析结果触发规则时尽力保存一条活动推荐。
// 持久化失败通过 Success=false 返回；推荐失败不影响日记保存。
func (s *JournalService) Save(ctx context.Context, username, text, title string, result map[string]any) (SaveResult, error) {
	username, err := requireUsername(username)
	if err != nil {
		return SaveResult{}, err
	}
	body := strings.TrimSpace(text)
	if body == "" {
		return SaveResult{}, validationError("text is required")
	}

	classification := s.normalizeClassification(result)
	entry := store.JournalEntry{
		ID:             store.NewEntryID(),
		Title:          strings.TrimSpace(title),
		Text:           body,
		Timestamp:      s.now().UTC(),
		Classification: classification,
	}
	if err := s.store.AppendJournalEntry(ctx, username, entry); err != nil {
		logging.L().Errorw("save journal entry failed", "username", username, "error", err)
		return SaveResult{Success: false, Message: "Failed to save journal entry"}, nil
	}

	out := SaveResult{
		Success: true,
		Message: "Journal entry saved successfully",
		EntryID: entry.ID,
	}
	if suggested := s.suggest(ctx, username, classification); suggested != nil {
		out.ActivitySuggested = true
		out.SuggestedActivity = suggested
		out.Message = "Journal entry saved successfully with an activity suggestion"
	}
	return out, nil
}

// AnalyzeAndSave 先分析再保存。未指定模板时使用用户的模板偏好，没有偏好则使用默认模板。
func (s *JournalService) AnalyzeAndSave(ctx context.Context, username, text, title string, sel analysis.Selector) (AnalyzeAndSaveResult, error) {
	username, err := requireUsername(username)
	if err != nil {
		return AnalyzeAndSaveResult{}, err
	}

	if sel.IsDefault() {
		sel = s.preferredSelector(ctx, username)
	}

	result, err := s.Analyze(ctx, text, sel)
	if err != nil {
		return AnalyzeAndSaveResult{}, err
	}
	if sel.IsList() {
		analysis.EnsureEmotion(result)
	}

	saved, err := s.Save(ctx, username, text, title, result)
	if err != nil {
		return AnalyzeAndSaveResult{}, err
	}
	return AnalyzeAndSaveResult{SaveResult: saved, Analysis: result}, nil
}

// preferredSelector 读取用户偏好，忽略已不存在的模板。
func (s *JournalService) preferredSelector(ctx context.Context, username string) analysis.Selector {
	prefs, err := s.store.GetTemplatePreferences(ctx, username)
	if err != nil {
		logging.L().Warnw("load template preferences failed", "username", username, "error", err)
		return analysis.DefaultSelector()
	}

	registry := s.orchestrator.Registry()
	known := make([]string, 0, len(prefs))
	for _, name := range prefs {
		if registry.Has(name) {
			known = append(known, name)
			continue
		}
		logging.L().Warnw("ignoring unknown preferred template", "username", username, "template", name)
	}
	if len(known) == 0 {
		return analysis.DefaultSelector()
	}
	return analysis.List(known...)
}

// normalizeClassification 将扁平的情绪结构（例如手动滑块提交）按 emotion 模板规整。
func (s *JournalService) normalizeClassification(result map[string]any) map[string]any {
	if result == nil {
		return map[string]any{}
	}
	if _, nested := result[analysis.TemplateEmotion]; nested || analysis.IsErrorEntry(result) {
		return result
	}
	if !activity.LooksLikeEmotions(result) {
		return result
	}
	tmpl, err := s.orchestrator.Registry().Get(analysis.TemplateEmotion)
	if err != nil {
		return result
	}
	return tmpl.Schema.Coerce(result)
}

// emotionScores 优先使用 "emotion" 子结果，其次使用本身就是情绪结构的扁平结果。
func emotionScores(result map[string]any) (activity.EmotionScores, bool) {
	if nested, ok := result[analysis.TemplateEmotion].(map[string]any); ok {
		if analysis.IsErrorEntry(nested) {
			return activity.EmotionScores{}, false
		}
		return activity.ScoresFromMap(nested), true
	}
	if activity.LooksLikeEmotions(result) {
		return activity.ScoresFromMap(result), true
	}
	return activity.EmotionScores{}, false
}

func (s *JournalService) suggest(ctx context.Context, username string, result map[string]any) (suggested *store.SuggestedActivity) {
	defer func() {
		if r := recover(); r != nil {
			logging.L().Errorw("activity suggestion panicked", "username", username, "panic", r)
			suggested = nil
		}
	}()

	scores, ok := emotionScores(result)
	if !ok {
		return nil
	}
	suggestion, ok := s.engine.Suggest(scores)
	if !ok {
		return nil
	}

	a := suggestion.Activity
	record := store.SuggestedActivity{
		ActivityID:          a.ID,
		ActivityName:        a.Name,
		ActivityDescription: a.Description,
		ActivityCategory:    a.Category,
		Reason:              suggestion.Reason,
		SuggestedAt:         s.now().UTC(),
		MoodBenefits:        append([]string{}, a.MoodBenefits...),
		Difficulty:          a.Difficulty,
		DurationMinutes:     a.DurationMinutes,
	}
	if err := s.store.AppendSuggestedActivity(ctx, username, record); err != nil {
		logging.L().Errorw("save suggested activity failed", "username", username, "activity", a.ID, "error", err)
		return nil
	}
	logging.L().Infow("activity suggested", "username", username, "activity", a.ID, "rule", suggestion.Rule)
	return &record
}

// UpdateActivityStatus 更新用户最近一次推荐的指定活动。
func (s *JournalService) UpdateActivityStatus(ctx context.Context, username, activityID string, upd ActivityStatusUpdate) error {
	username, err := requireUsername(username)
	if err != nil {
		return err
	}
	activityID = strings.TrimSpace(activityID)
	if activityID == "" {
		return validationError("activity_id is required")
	}
	if upd.Completed == nil {
		return validationError("completed is required")
	}
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return validationError("rating must be between 1 and 5")
	}

	update := store.ActivityUpdate{
		Completed: *upd.Completed,
		Rating:    upd.Rating,
		Notes:     upd.Notes,
	}
	if update.Completed {
		at := s.now().UTC()
		update.CompletedAt = &at
	}

	found, err := s.store.UpdateSuggestedActivity(ctx, username, activityID, update)
	if err != nil {
		return fmt.Errorf("update suggested activity: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrSuggestionNotFound, activityID)
	}
	return nil
}

// ListActivities 返回用户的推荐活动，includeCompleted 为 false 时过滤已完成项。
func (s *JournalService) ListActivities(ctx context.Context, username string, includeCompleted bool) ([]store.SuggestedActivity, error) {
	username, err := requireUsername(username)
	if err != nil {
		return nil, err
	}
	activities, err := s.store.ListSuggestedActivities(ctx, username, includeCompleted)
	if err != nil {
		return nil, fmt.Errorf("list suggested activities: %w", err)
	}
	return activities, nil
}

// History 按时间顺序返回用户的日记。
func (s *JournalService) History(ctx context.Context, username string) ([]store.JournalEntry, error) {
	username, err := requireUsername(username)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListJournalEntries(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// Catalog 返回活动目录。
func (s *JournalService) Catalog() *activity.Catalog {
	return s.engine.Catalog()
}

// Ping 探测持久化后端是否可用。
func (s *JournalService) Ping(ctx context.Context) error {
	return store.Ping(ctx, s.store)
}
