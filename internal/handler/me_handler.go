package handler

import (
	"net/http"

	"shere/config"
	"shere/internal/middleware"
	"shere/internal/repository"
	"shere/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	cfg          *config.Config
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	referralSvc  *service.ReferralService
}

func NewMeHandler(cfg *config.Config, userRepo *repository.UserRepository, referralRepo *repository.ReferralRepository, referralSvc *service.ReferralService) *MeHandler {
	return &MeHandler{cfg: cfg, userRepo: userRepo, referralRepo: referralRepo, referralSvc: referralSvc}
}

// Profile handles GET /me.
func (h *MeHandler) Profile(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, publicUser(u))
}

// UpdateProfile handles PATCH /me. Ledger fields are not accepted here; the
// repository refuses them anyway.
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Name             *string `json:"name"`
		Phone            *string `json:"phone"`
		PhoneAccountName *string `json:"phone_account_name"`
		Country          *string `json:"country"`
		Currency         *string `json:"currency"`
		Language         *string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		phone := normalizePhone(*req.Phone)
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}
		updates["phone"] = phone
	}
	if req.PhoneAccountName != nil {
		updates["phone_account_name"] = *req.PhoneAccountName
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.userRepo.UpdateFields(userID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, publicUser(u))
}

// Dashboard handles GET /me/dashboard: the ledger snapshot plus the invite
// link. Same payload shape as the WebSocket feed pushes.
func (h *MeHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)
	snap, err := LedgerSnapshot(h.userRepo, h.referralRepo, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	code, err := h.referralSvc.InviteCode(userID)
	if err == nil {
		snap["invite_code"] = code
		snap["invite_link"] = h.cfg.App.BaseURL + "/signup?ref=" + code
	}
	c.JSON(http.StatusOK, snap)
}

// RegisterFCMToken handles POST /me/fcm-token so the device can receive
// settlement push notifications.
func (h *MeHandler) RegisterFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userRepo.UpdateFields(userID, map[string]interface{}{"fcm_token": req.Token}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
