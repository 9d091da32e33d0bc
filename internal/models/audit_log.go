package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog records admin actions (settlements, user management, variable
// edits) for after-the-fact review.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ActorID    uint           `gorm:"not null;index" json:"actor_id"`
	Action     string         `gorm:"size:64;not null;index" json:"action"`
	TargetType string         `gorm:"size:32" json:"target_type"`
	TargetID   uint           `json:"target_id"`
	Detail     string         `gorm:"size:512" json:"detail"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AuditLog) TableName() string { return "audit_logs" }
