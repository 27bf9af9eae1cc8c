package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartjournal/internal/db"
)

// GormStore 基于关系型数据库（sqlite/mysql）实现 Store。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an already migrated connection.
func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

// ensureUser 以 upsert 方式创建用户，重复调用不会报错。
func ensureUser(tx *gorm.DB, username string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&db.User{Username: username}).Error
}

func (s *GormStore) GetUser(ctx context.Context, username string) (*User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	var row db.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	entries, err := s.ListJournalEntries(ctx, username)
	if err != nil {
		return nil, err
	}
	activities, err := s.ListSuggestedActivities(ctx, username, true)
	if err != nil {
		return nil, err
	}
	prefs, err := decodeStrings(row.TemplatePreferences)
	if err != nil {
		return nil, err
	}

	return &User{
		Username:            row.Username,
		Entries:             entries,
		SuggestedActivities: activities,
		TemplatePreferences: prefs,
	}, nil
}

func (s *GormStore) AppendJournalEntry(ctx context.Context, username string, entry JournalEntry) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	entry, err = prepareEntry(entry)
	if err != nil {
		return err
	}

	analysis, err := encodeJSON(entry.Classification)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	frequencies, err := encodeJSON(entry.WordFrequencies)
	if err != nil {
		return fmt.Errorf("encode word frequencies: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, username); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}
		row := db.JournalEntry{
			EntryID:         entry.ID,
			Username:        username,
			Title:           entry.Title,
			Text:            entry.Text,
			Timestamp:       entry.Timestamp,
			Analysis:        analysis,
			WordFrequencies: frequencies,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create journal entry: %w", err)
		}
		return nil
	})
}

func (s *GormStore) ListJournalEntries(ctx context.Context, username string) ([]JournalEntry, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	var rows []db.JournalEntry
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	out := make([]JournalEntry, 0, len(rows))
	for _, row := range rows {
		entry := JournalEntry{
			ID:              row.EntryID,
			Title:           row.Title,
			Text:            row.Text,
			Timestamp:       row.Timestamp.UTC(),
			WordFrequencies: []WordFrequency{},
		}
		if len(row.Analysis) > 0 {
			if err := json.Unmarshal(row.Analysis, &entry.Classification); err != nil {
				return nil, fmt.Errorf("decode analysis of %s: %w", row.EntryID, err)
			}
		}
		if len(row.WordFrequencies) > 0 {
			if err := json.Unmarshal(row.WordFrequencies, &entry.WordFrequencies); err != nil {
				return nil, fmt.Errorf("decode word frequencies of %s: %w", row.EntryID, err)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *GormStore) AppendSuggestedActivity(ctx context.Context, username string, activity SuggestedActivity) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	activity = prepareActivity(activity)

	benefits, err := encodeJSON(activity.MoodBenefits)
	if err != nil {
		return fmt.Errorf("encode mood benefits: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, username); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}
		row := db.SuggestedActivity{
			Username:            username,
			ActivityID:          activity.ActivityID,
			ActivityName:        activity.ActivityName,
			ActivityDescription: activity.ActivityDescription,
			ActivityCategory:    activity.ActivityCategory,
			Reason:              activity.Reason,
			SuggestedAt:         activity.SuggestedAt,
			Completed:           activity.Completed,
			CompletedAt:         activity.CompletedAt,
			MoodBenefits:        benefits,
			Difficulty:          activity.Difficulty,
			DurationMinutes:     activity.DurationMinutes,
			UserRating:          activity.UserRating,
			UserNotes:           activity.UserNotes,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create suggested activity: %w", err)
		}
		return nil
	})
}

func (s *GormStore) ListSuggestedActivities(ctx context.Context, username string, includeCompleted bool) ([]SuggestedActivity, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("username = ?", username)
	if !includeCompleted {
		query = query.Where("completed = ?", false)
	}

	var rows []db.SuggestedActivity
	if err := query.Order("suggested_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list suggested activities: %w", err)
	}

	out := make([]SuggestedActivity, 0, len(rows))
	for _, row := range rows {
		benefits, err := decodeStrings(row.MoodBenefits)
		if err != nil {
			return nil, err
		}
		if benefits == nil {
			benefits = []string{}
		}
		a := SuggestedActivity{
			ActivityID:          row.ActivityID,
			ActivityName:        row.ActivityName,
			ActivityDescription: row.ActivityDescription,
			ActivityCategory:    row.ActivityCategory,
			Reason:              row.Reason,
			SuggestedAt:         row.SuggestedAt.UTC(),
			Completed:           row.Completed,
			MoodBenefits:        benefits,
			Difficulty:          row.Difficulty,
			DurationMinutes:     row.DurationMinutes,
			UserRating:          row.UserRating,
			UserNotes:           row.UserNotes,
		}
		if row.CompletedAt != nil {
			at := row.CompletedAt.UTC()
			a.CompletedAt = &at
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *GormStore) UpdateSuggestedActivity(ctx context.Context, username, activityID string, update ActivityUpdate) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}

	found := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row db.SuggestedActivity
		err := tx.Where("username = ? AND activity_id = ?", username, activityID).
			Order("suggested_at DESC").
			Order("id DESC").
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var record SuggestedActivity
		update.Apply(&record)
		changes := map[string]any{
			"completed":    record.Completed,
			"completed_at": record.CompletedAt,
		}
		if record.UserRating != nil {
			changes["user_rating"] = *record.UserRating
		}
		if record.UserNotes != nil {
			changes["user_notes"] = *record.UserNotes
		}
		if err := tx.Model(&row).Updates(changes).Error; err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update suggested activity: %w", err)
	}
	return found, nil
}

func (s *GormStore) GetTemplatePreferences(ctx context.Context, username string) ([]string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	var row db.User
	err = s.db.WithContext(ctx).Select("template_preferences").Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load template preferences: %w", err)
	}

	prefs, err := decodeStrings(row.TemplatePreferences)
	if err != nil || len(prefs) == 0 {
		return nil, err
	}
	return prefs, nil
}

func (s *GormStore) SetTemplatePreferences(ctx context.Context, username string, templates []string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	encoded, err := encodeJSON(cleanTemplates(templates))
	if err != nil {
		return fmt.Errorf("encode template preferences: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, username); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}
		return tx.Model(&db.User{}).
			Where("username = ?", username).
			Update("template_preferences", encoded).Error
	})
}

// Ping implements Pinger.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(context.Context) error {
	return db.Close(s.db)
}

func encodeJSON(v any) (datatypes.JSON, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(buf), nil
}

func decodeStrings(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	return out, nil
}
