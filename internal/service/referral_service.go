package service

import (
	"log"

	"shere/internal/models"
	"shere/internal/repository"
)

// ReferralService resolves invite codes at signup and records the
// referrer/referred relationship. It never moves money: commission is paid
// by the settlement engine when a referred user's purchase is approved.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
	userRepo     *repository.UserRepository
}

func NewReferralService(referralRepo *repository.ReferralRepository, userRepo *repository.UserRepository) *ReferralService {
	return &ReferralService{referralRepo: referralRepo, userRepo: userRepo}
}

// ProcessReferralCode links newUser to the owner of referralCode: sets the
// immutable referred-by back-reference and creates the referral row.
// Best-effort — a bad or self-referential code is ignored, signup proceeds.
func (s *ReferralService) ProcessReferralCode(referralCode string, newUser *models.User) {
	if referralCode == "" || s.referralRepo == nil {
		return
	}
	rc, err := s.referralRepo.GetByCode(referralCode)
	if err != nil || rc == nil || rc.UserID == newUser.ID {
		return
	}

	referrerID := rc.UserID
	newUser.ReferredByID = &referrerID
	if err := s.userRepo.Update(newUser); err != nil {
		log.Printf("[referral] failed to set referred_by for user %d: %v", newUser.ID, err)
		return
	}
	if err := s.referralRepo.CreateReferral(&models.Referral{
		ReferrerID:     referrerID,
		ReferredUserID: newUser.ID,
	}); err != nil {
		log.Printf("[referral] failed to create referral: %v", err)
	}
}

// InviteCode returns the user's invite code, creating one on first use.
func (s *ReferralService) InviteCode(userID uint) (string, error) {
	rc, err := s.referralRepo.GetOrCreateCode(userID)
	if err != nil {
		return "", err
	}
	return rc.Code, nil
}
