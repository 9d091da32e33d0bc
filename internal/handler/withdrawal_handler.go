package handler

import (
	"net/http"

	"shere/internal/middleware"
	"shere/internal/repository"
	"shere/internal/service"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	requests *service.RequestService
	repo     *repository.WithdrawalRepository
}

func NewWithdrawalHandler(requests *service.RequestService, repo *repository.WithdrawalRepository) *WithdrawalHandler {
	return &WithdrawalHandler{requests: requests, repo: repo}
}

// Create handles POST /withdrawals: submit a withdrawal request against the
// user's commission balance.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		PhoneAccountName string `json:"phone_account_name" binding:"required"`
		PhoneNumber      string `json:"phone_number" binding:"required"`
		AmountFCFA       int64  `json:"amount_fcfa" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phone := normalizePhone(req.PhoneNumber)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}
	w, err := h.requests.RequestWithdrawal(userID, req.AmountFCFA, req.PhoneAccountName, phone)
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, w)
}

// History handles GET /withdrawals.
func (h *WithdrawalHandler) History(c *gin.Context) {
	list, err := h.repo.ListByUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// Pending handles GET /withdrawals/pending.
func (h *WithdrawalHandler) Pending(c *gin.Context) {
	list, err := h.repo.PendingForUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": list, "has_pending": len(list) > 0})
}
