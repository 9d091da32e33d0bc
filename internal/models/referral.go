package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralCode is a unique invite code belonging to a user.
// Each user has at most one referral code; it is embedded in their share link.
type ReferralCode struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Code      string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

// Referral tracks the relationship between a referrer and a referred user.
// A user can only be referred once (set at signup). The referral is
// "activated" by the settlement engine on the referred user's first approved
// share purchase; activation flips exactly once, which is what keeps the
// referrer's invited list free of duplicates. CommissionFCFA accumulates the
// total commission the relationship has paid out.
type Referral struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ReferrerID     uint           `gorm:"not null;index" json:"referrer_id"`
	ReferredUserID uint           `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	Activated      bool           `gorm:"not null;default:false" json:"activated"`
	ActivatedAt    *time.Time     `json:"activated_at"`
	CommissionFCFA int64          `gorm:"not null;default:0" json:"commission_fcfa"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Referrer     User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID" json:"referred_user,omitempty"`
}

func (Referral) TableName() string { return "referrals" }
