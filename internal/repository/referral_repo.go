package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"shere/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// generateReferralCode returns an 8-character lowercase hex invite code.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetOrCreateCode returns the existing referral code for a user, or creates a new unique one.
func (r *ReferralRepository) GetOrCreateCode(userID uint) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.Where("user_id = ?", userID).First(&rc).Error; err == nil {
		return &rc, nil
	}
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, err
		}
		rc = models.ReferralCode{UserID: userID, Code: code, IsActive: true}
		if err := r.db.Create(&rc).Error; err == nil {
			return &rc, nil
		}
		// Collision: retry with new code
	}
	return nil, fmt.Errorf("failed to generate a unique referral code after retries")
}

// GetByCode returns an active ReferralCode record matching the given code string.
func (r *ReferralRepository) GetByCode(code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// CreateReferral persists a new referral relationship. The unique index on
// referred_user_id rejects a second referrer for the same user.
func (r *ReferralRepository) CreateReferral(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

// GetByReferredUserID returns the Referral record for a user that was
// referred by someone; gorm.ErrRecordNotFound if the user signed up without
// an invite link.
func (r *ReferralRepository) GetByReferredUserID(userID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("referred_user_id = ?", userID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// ListActivatedByReferrer returns the referrer's invited list: referrals that
// reached their first approved purchase, newest activation first.
func (r *ReferralRepository) ListActivatedByReferrer(referrerID uint) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Where("referrer_id = ? AND activated = ?", referrerID, true).
		Preload("ReferredUser").
		Order("activated_at DESC").
		Find(&list).Error
	return list, err
}

// TotalCommission sums every franc of commission the referral program has
// paid out.
func (r *ReferralRepository) TotalCommission() (int64, error) {
	var total int64
	err := r.db.Model(&models.Referral{}).
		Select("COALESCE(SUM(commission_fcfa),0)").
		Scan(&total).Error
	return total, err
}

// ListByReferrer returns referrals created by the given referrer, with the
// referred user preloaded. Pages newest-first, keyset on id (beforeID 0
// starts at the head).
func (r *ReferralRepository) ListByReferrer(referrerID uint, limit int, beforeID uint) ([]models.Referral, error) {
	var list []models.Referral
	q := r.db.Where("referrer_id = ?", referrerID).
		Preload("ReferredUser").
		Order("id DESC").
		Limit(limit)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	err := q.Find(&list).Error
	return list, err
}
