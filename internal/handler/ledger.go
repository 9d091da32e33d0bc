package handler

import (
	"shere/internal/models"
	"shere/internal/repository"

	"github.com/gin-gonic/gin"
)

// LedgerSnapshot assembles the view of a user's ledger that both the
// dashboard endpoint and the WebSocket feed serve: balance, stake, invested
// total, and the invited list (activated referrals).
func LedgerSnapshot(userRepo *repository.UserRepository, referralRepo *repository.ReferralRepository, userID uint) (gin.H, error) {
	u, err := userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	referrals, err := referralRepo.ListActivatedByReferrer(userID)
	if err != nil {
		return nil, err
	}
	invited := make([]gin.H, 0, len(referrals))
	for _, ref := range referrals {
		invited = append(invited, gin.H{
			"user_id":         ref.ReferredUserID,
			"name":            ref.ReferredUser.Name,
			"activated_at":    ref.ActivatedAt,
			"commission_fcfa": ref.CommissionFCFA,
		})
	}
	return gin.H{
		"balance_fcfa":    u.BalanceFCFA,
		"share_percent":   u.SharePercent,
		"invested_fcfa":   u.InvestedFCFA,
		"remaining_share": u.RemainingShare(),
		"invited":         invited,
	}, nil
}

func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":                 u.ID,
		"name":               u.Name,
		"email":              u.Email,
		"phone":              u.Phone,
		"phone_account_name": u.PhoneAccountName,
		"country":            u.Country,
		"currency":           u.Currency,
		"language":           u.Language,
		"avatar_url":         u.AvatarURL,
		"balance_fcfa":       u.BalanceFCFA,
		"share_percent":      u.SharePercent,
		"invested_fcfa":      u.InvestedFCFA,
		"referred_by_id":     u.ReferredByID,
		"created_at":         u.CreatedAt,
	}
}
