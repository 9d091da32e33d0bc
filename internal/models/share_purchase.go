package models

import (
	"time"

	"gorm.io/gorm"
)

// SharePurchase is a user's request to buy additional stake. Payment happens
// out-of-band (mobile-money dial code shown in the UI); an admin confirms
// receipt and approves, which is when the ledger actually moves.
type SharePurchase struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Reference        string         `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	PhoneAccountName string         `gorm:"size:128;not null" json:"phone_account_name"`
	PhoneNumber      string         `gorm:"size:20;not null" json:"phone_number"`
	Percentage       float64        `gorm:"not null" json:"percentage"`
	AmountFCFA       int64          `gorm:"not null" json:"amount_fcfa"`
	Status           string         `gorm:"size:20;not null;index" json:"status"` // pending, completed, rejected
	DateRequested    time.Time      `gorm:"not null;index" json:"date_requested"`
	CompleteDate     *time.Time     `gorm:"index" json:"complete_date"`
	RejectionReason  string         `gorm:"size:512" json:"rejection_reason"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (SharePurchase) TableName() string { return "share_purchases" }
