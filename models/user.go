package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      string         `json:"-"` // empty for OAuth-only accounts
	GoogleID      string         `gorm:"index" json:"-"`
	Avatar        string         `json:"avatar"`
	Role          string         `gorm:"not null;default:'user'" json:"role"`
	Reports       []Report       `json:"-" gorm:"foreignKey:UserID"`
	Votes         []Vote         `json:"-" gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}
