package models

import (
	"time"
)

// Subscription stores one device's web-push registration. Rows are keyed
// by device id so re-registering the same device updates the endpoint and
// keys rather than adding a duplicate. Delivery is handled elsewhere;
// this is bookkeeping only.
type Subscription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceID  string    `gorm:"uniqueIndex;not null;type:varchar(36)" json:"device_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Endpoint  string    `gorm:"not null;type:text" json:"endpoint"`
	AuthKey   string    `gorm:"not null;type:text" json:"auth_key"`
	P256dhKey string    `gorm:"not null;type:text" json:"p256dh_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
