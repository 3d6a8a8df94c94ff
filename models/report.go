package models

import (
	"time"

	"github.com/lib/pq"
)

// Report is a single claimed inspector sighting. Re-observations of the
// same location cluster refresh CreatedAt instead of creating a new row.
type Report struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	UserName    string         `gorm:"type:varchar(50)" json:"user_name"`
	Latitude    float64        `gorm:"not null;type:decimal(10,8)" json:"latitude"`
	Longitude   float64        `gorm:"not null;type:decimal(11,8)" json:"longitude"`
	Description string         `gorm:"type:varchar(100)" json:"description"`
	Modes       pq.StringArray `gorm:"type:text[]" json:"modes"` // "train", "tram", "bus"
	PhotoURL    string         `gorm:"type:text" json:"photo_url,omitempty"`
	VoteCount   int            `gorm:"not null;default:0" json:"votes"`
	Votes       []Vote         `gorm:"foreignKey:ReportID" json:"-"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}
