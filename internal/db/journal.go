package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JournalEntry 记录一篇日记及其分析结果，只追加不修改。
type JournalEntry struct {
	gorm.Model
	EntryID         string `gorm:"uniqueIndex;size:26;not null"`
	Username        string `gorm:"index;size:191;not null"`
	Title           string
	Text            string    `gorm:"type:text"`
	Timestamp       time.Time `gorm:"index"`
	Analysis        datatypes.JSON
	WordFrequencies datatypes.JSON
}

// SuggestedActivity 记录一次活动推荐及用户的完成反馈。
// 活动信息冗余存储，保证目录调整后历史推荐仍可展示。
type SuggestedActivity struct {
	gorm.Model
	Username            string `gorm:"index:idx_suggested_user_activity;size:191;not null"`
	ActivityID          string `gorm:"index:idx_suggested_user_activity;size:64;not null"`
	ActivityName        string
	ActivityDescription string
	ActivityCategory    string `gorm:"size:64"`
	Reason              string
	SuggestedAt         time.Time `gorm:"index"`
	Completed           bool      `gorm:"index"`
	CompletedAt         *time.Time
	MoodBenefits        datatypes.JSON
	Difficulty          int
	DurationMinutes     int
	UserRating          *int
	UserNotes           *string
}
