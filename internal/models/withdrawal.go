package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal is a user's request to cash out balance to their mobile-money
// account. Same lifecycle as SharePurchase; the amount is debited from the
// live balance inside the approval transaction.
type Withdrawal struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Reference        string         `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	PhoneAccountName string         `gorm:"size:128;not null" json:"phone_account_name"`
	PhoneNumber      string         `gorm:"size:20;not null" json:"phone_number"`
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

func (Withdrawal) TableName() string { return "withdrawals" }
