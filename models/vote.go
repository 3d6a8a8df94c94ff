package models

import (
	"time"
)

// Vote is one user's current stance on one report. Toggling a vote off
// disables the row instead of deleting it, so the same row is reused when
// the user votes again.
type Vote struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID  uint      `gorm:"not null;uniqueIndex:idx_report_voter" json:"report_id"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_report_voter" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Upvote    bool      `gorm:"not null" json:"upvote"`
	Disabled  bool      `gorm:"not null;default:false" json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
