package models

import (
	"time"

	"shere/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:128;not null;index" json:"name"`
	Email            string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string         `gorm:"size:255" json:"-"`
	Role             string         `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	GoogleID         *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	Phone            string         `gorm:"size:20;index" json:"phone"`
	PhoneAccountName string         `gorm:"size:128" json:"phone_account_name"` // mobile-money account holder name
	Country          string         `gorm:"size:64" json:"country"`
	Currency         string         `gorm:"size:8;default:'FCFA'" json:"currency"`
	Language         string         `gorm:"size:8;default:'fr'" json:"language"`
	AvatarURL        string         `gorm:"size:512" json:"avatar_url"`
	BalanceFCFA      int64          `gorm:"not null;default:0" json:"balance_fcfa"`
	SharePercent     float64        `gorm:"not null;default:0" json:"share_percent"`
	InvestedFCFA     int64          `gorm:"not null;default:0" json:"invested_fcfa"`
	ReferredByID     *uint          `gorm:"index" json:"referred_by_id"` // set once at signup, immutable after
	FCMToken         string         `gorm:"size:512" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	ReferredBy *User `gorm:"foreignKey:ReferredByID" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// RemainingShare is how much stake the user may still buy.
func (u *User) RemainingShare() float64 {
	left := domain.ShareCapPercent - u.SharePercent
	if left < 0 {
		return 0
	}
	return left
}
