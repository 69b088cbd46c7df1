package models

import (
	"time"
)

// RefreshToken is a rotated refresh token. A token is usable only while it is
// unrevoked and unexpired; login and rotation insert rows, logout and the
// UI's inactivity sign-out revoke them.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Usable reports whether the token can still be exchanged.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && t.ExpiresAt.After(now)
}
