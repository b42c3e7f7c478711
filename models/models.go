package models

import "gorm.io/gorm"

// Report is a bug report submitted through /report.
type Report struct {
	gorm.Model
	UserID    string `gorm:"index"`
	Username  string
	Content   string
	Reference string `gorm:"uniqueIndex;size:36"`
}

// Suggestion is an idea submitted through /suggest.
type Suggestion struct {
	gorm.Model
	UserID    string `gorm:"index"`
	Username  string
	Content   string
	Reference string `gorm:"uniqueIndex;size:36"`
}

// CountingChannel holds the last accepted number of a counting channel.
type CountingChannel struct {
	ChannelID  string `gorm:"primaryKey;size:32"`
	LastNumber int64
}
