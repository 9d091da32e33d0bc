package repository

import (
	"shere/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Record(actorID uint, action, targetType string, targetID uint, detail string) error {
	return r.db.Create(&models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}).Error
}

// List pages newest-first, keyset on id. beforeID 0 starts at the head.
func (r *AuditLogRepository) List(limit int, beforeID uint) ([]models.AuditLog, error) {
	var list []models.AuditLog
	q := r.db.Order("id DESC").Limit(limit)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	err := q.Find(&list).Error
	return list, err
}
