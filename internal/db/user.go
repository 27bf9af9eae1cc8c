package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 定义了日记用户。TemplatePreferences 为空表示未设置偏好。
type User struct {
	gorm.Model
	Username            string `gorm:"uniqueIndex;size:191;not null"`
	TemplatePreferences datatypes.JSON
}
