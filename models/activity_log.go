package models

import (
	"time"

	"gorm.io/gorm"
)

type ActivityLog struct {
	gorm.Model
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `json:"userId" gorm:"not null"`
	User      User      `json:"user" gorm:"foreignKey:UserID"`
	ReportID  uint      `json:"reportId"`
	Report    Report    `json:"report" gorm:"foreignKey:ReportID"`
	Activity  string    `json:"activity" gorm:"not null;type:varchar(50)"` // "report_created", "report_merged", "vote_cast"
	Latitude  float64   `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude float64   `json:"longitude" gorm:"type:decimal(11,8)"`
}
