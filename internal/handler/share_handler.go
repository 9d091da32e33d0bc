package handler

import (
	"errors"
	"net/http"

	"shere/internal/domain"
	"shere/internal/middleware"
	"shere/internal/repository"
	"shere/internal/service"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	requests *service.RequestService
	repo     *repository.SharePurchaseRepository
}

func NewShareHandler(requests *service.RequestService, repo *repository.SharePurchaseRepository) *ShareHandler {
	return &ShareHandler{requests: requests, repo: repo}
}

// Create handles POST /shares: submit a share purchase request. The user pays
// by mobile money out of band and the admin approves once the transfer shows
// up.
func (h *ShareHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		PhoneAccountName string  `json:"phone_account_name" binding:"required"`
		PhoneNumber      string  `json:"phone_number" binding:"required"`
		Percentage       float64 `json:"percentage" binding:"required,gt=0"`
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
	p, err := h.requests.RequestSharePurchase(userID, req.PhoneAccountName, phone, req.Percentage)
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// History handles GET /shares: the user's own purchases, newest first.
func (h *ShareHandler) History(c *gin.Context) {
	list, err := h.repo.ListByUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": list})
}

// Pending handles GET /shares/pending: outstanding requests that gate the
// submission form.
func (h *ShareHandler) Pending(c *gin.Context) {
	list, err := h.repo.PendingForUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": list, "has_pending": len(list) > 0})
}

// requestErrStatus maps submission/settlement errors onto HTTP statuses.
func requestErrStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrPendingExists),
		errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrRequestNotRejected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrShareCapExceeded), errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
