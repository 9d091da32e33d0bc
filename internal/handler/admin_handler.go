package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"shere/internal/domain"
	"shere/internal/middleware"
	"shere/internal/models"
	"shere/internal/repository"
	"shere/internal/service"
	"shere/internal/ws"

	"github.com/gin-gonic/gin"
)

const defaultAdminPageSize = 20

// AdminHandler is the console surface: the request queues, approve/reject/
// reset, user management, and the pricing variables. Authorization is
// enforced twice: the route group carries AdminRequired, and the settlement
// engine re-checks the actor's role itself.
type AdminHandler struct {
	settlement   *service.SettlementService
	notifier     *service.NotificationService
	authSvc      *service.AuthService
	purchases    *repository.SharePurchaseRepository
	withdrawals  *repository.WithdrawalRepository
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	settings     *repository.SettingRepository
	audit        *repository.AuditLogRepository
	hub          *ws.Hub
}

func NewAdminHandler(
	settlement *service.SettlementService,
	notifier *service.NotificationService,
	authSvc *service.AuthService,
	purchases *repository.SharePurchaseRepository,
	withdrawals *repository.WithdrawalRepository,
	userRepo *repository.UserRepository,
	referralRepo *repository.ReferralRepository,
	settings *repository.SettingRepository,
	audit *repository.AuditLogRepository,
	hub *ws.Hub,
) *AdminHandler {
	return &AdminHandler{
		settlement:   settlement,
		notifier:     notifier,
		authSvc:      authSvc,
		purchases:    purchases,
		withdrawals:  withdrawals,
		userRepo:     userRepo,
		referralRepo: referralRepo,
		settings:     settings,
		audit:        audit,
		hub:          hub,
	}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{UserID: middleware.GetUserID(c), Role: middleware.GetRole(c)}
}

func pageParams(c *gin.Context) (string, int) {
	cursor := c.Query("cursor")
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultAdminPageSize)))
	if size <= 0 || size > 100 {
		size = defaultAdminPageSize
	}
	return cursor, size
}

func validStatus(s string) bool {
	return s == domain.StatusPending || s == domain.StatusCompleted || s == domain.StatusRejected
}

// pushLedger sends a fresh ledger snapshot to the user's live connections
// after a settlement changed their numbers.
func (h *AdminHandler) pushLedger(userID uint) {
	snap, err := LedgerSnapshot(h.userRepo, h.referralRepo, userID)
	if err != nil {
		return
	}
	h.hub.BroadcastToUser(userID, gin.H{"type": "ledger", "ledger": snap})
}

// ListSharePurchases handles GET /admin/shares?status=pending&cursor=...
// Pending and rejected queues page oldest-first; completed pages
// newest-completion-first.
func (h *AdminHandler) ListSharePurchases(c *gin.Context) {
	status := c.DefaultQuery("status", domain.StatusPending)
	if !validStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	cursor, size := pageParams(c)
	list, next, err := h.purchases.ListByStatus(status, cursor, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": list, "next_cursor": next})
}

// ListWithdrawals handles GET /admin/withdrawals?status=...
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	status := c.DefaultQuery("status", domain.StatusPending)
	if !validStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	cursor, size := pageParams(c)
	list, next, err := h.withdrawals.ListByStatus(status, cursor, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list, "next_cursor": next})
}

// ApproveSharePurchase handles POST /admin/shares/approve. Percentage and
// amount come from the console form, which pre-fills them from the stored
// request but lets the admin correct either before settling.
func (h *AdminHandler) ApproveSharePurchase(c *gin.Context) {
	var req struct {
		UserID     uint    `json:"user_id" binding:"required"`
		PurchaseID uint    `json:"purchase_id" binding:"required"`
		Percentage float64 `json:"percentage" binding:"required,gt=0"`
		AmountFCFA int64   `json:"amount_fcfa" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	res, err := h.settlement.ApproveSharePurchase(c.Request.Context(), actor, service.ApprovePurchaseCommand{
		UserID:     req.UserID,
		PurchaseID: req.PurchaseID,
		Percentage: req.Percentage,
		AmountFCFA: req.AmountFCFA,
	})
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.audit.Record(actor.UserID, "approve_share_purchase", "share_purchase", req.PurchaseID,
		fmt.Sprintf("user=%d percent=%.2f amount=%d commission=%d", req.UserID, req.Percentage, req.AmountFCFA, res.CommissionFCFA))
	h.notifier.NotifyPurchaseApproved(res.User.ID, res.Purchase.ID, res.Purchase.Percentage, res.User.SharePercent)
	h.pushLedger(res.User.ID)
	if res.Referrer != nil && res.CommissionFCFA > 0 {
		h.notifier.NotifyCommissionEarned(res.Referrer.ID, res.CommissionFCFA, res.User.Name)
		h.pushLedger(res.Referrer.ID)
	}
	c.JSON(http.StatusOK, gin.H{
		"purchase":        res.Purchase,
		"user":            publicUser(res.User),
		"commission_fcfa": res.CommissionFCFA,
		"newly_activated": res.NewlyActivated,
	})
}

// ApproveWithdrawal handles POST /admin/withdrawals/approve. The admin pays
// the mobile money transfer out of band first, then settles here.
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	var req struct {
		UserID       uint  `json:"user_id" binding:"required"`
		WithdrawalID uint  `json:"withdrawal_id" binding:"required"`
		AmountFCFA   int64 `json:"amount_fcfa" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	res, err := h.settlement.ApproveWithdrawal(c.Request.Context(), actor, service.ApproveWithdrawalCommand{
		UserID:       req.UserID,
		WithdrawalID: req.WithdrawalID,
		AmountFCFA:   req.AmountFCFA,
	})
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.audit.Record(actor.UserID, "approve_withdrawal", "withdrawal", req.WithdrawalID,
		fmt.Sprintf("user=%d amount=%d", req.UserID, req.AmountFCFA))
	h.notifier.NotifyWithdrawalApproved(res.User.ID, res.Withdrawal.ID, res.Withdrawal.AmountFCFA)
	h.pushLedger(res.User.ID)
	c.JSON(http.StatusOK, gin.H{
		"withdrawal": res.Withdrawal,
		"user":       publicUser(res.User),
	})
}

// RejectSharePurchase handles POST /admin/shares/reject.
func (h *AdminHandler) RejectSharePurchase(c *gin.Context) {
	var req struct {
		UserID     uint   `json:"user_id" binding:"required"`
		PurchaseID uint   `json:"purchase_id" binding:"required"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	err := h.settlement.RejectSharePurchase(c.Request.Context(), actor, service.RejectCommand{
		UserID: req.UserID, RequestID: req.PurchaseID, Reason: req.Reason,
	})
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(actor.UserID, "reject_share_purchase", "share_purchase", req.PurchaseID, req.Reason)
	h.notifier.NotifyPurchaseRejected(req.UserID, req.PurchaseID, req.Reason)
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusRejected})
}

// RejectWithdrawal handles POST /admin/withdrawals/reject.
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	var req struct {
		UserID       uint   `json:"user_id" binding:"required"`
		WithdrawalID uint   `json:"withdrawal_id" binding:"required"`
		Reason       string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	err := h.settlement.RejectWithdrawal(c.Request.Context(), actor, service.RejectCommand{
		UserID: req.UserID, RequestID: req.WithdrawalID, Reason: req.Reason,
	})
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(actor.UserID, "reject_withdrawal", "withdrawal", req.WithdrawalID, req.Reason)
	h.notifier.NotifyWithdrawalRejected(req.UserID, req.WithdrawalID, req.Reason)
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusRejected})
}

// ResetSharePurchase handles POST /admin/shares/reset: rejected back to
// pending for a second look.
func (h *AdminHandler) ResetSharePurchase(c *gin.Context) {
	var req struct {
		UserID     uint `json:"user_id" binding:"required"`
		PurchaseID uint `json:"purchase_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	err := h.settlement.ResetSharePurchaseStatus(c.Request.Context(), actor, service.ResetCommand{
		UserID: req.UserID, RequestID: req.PurchaseID,
	})
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(actor.UserID, "reset_share_purchase", "share_purchase", req.PurchaseID, "")
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusPending})
}

// ResetWithdrawal handles POST /admin/withdrawals/reset.
func (h *AdminHandler) ResetWithdrawal(c *gin.Context) {
	var req struct {
		UserID       uint `json:"user_id" binding:"required"`
		WithdrawalID uint `json:"withdrawal_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	err := h.settlement.ResetWithdrawalStatus(c.Request.Context(), actor, service.ResetCommand{
		UserID: req.UserID, RequestID: req.WithdrawalID,
	})
	if err != nil {
		c.JSON(requestErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(actor.UserID, "reset_withdrawal", "withdrawal", req.WithdrawalID, "")
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusPending})
}

// SearchUsers handles GET /admin/users/search?name= or ?phone=.
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	if phone := c.Query("phone"); phone != "" {
		normalized := normalizePhone(phone)
		if normalized == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}
		users, err := h.userRepo.SearchByPhone(normalized)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": publicUsers(users)})
		return
	}
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name or phone query required"})
		return
	}
	users, err := h.userRepo.SearchByName(name, 25)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": publicUsers(users)})
}

func publicUsers(users []models.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, publicUser(&users[i]))
	}
	return out
}

// GetUser handles GET /admin/users/:id: full detail including request
// history and referral standing.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	u, err := h.userRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	purchases, _ := h.purchases.ListByUser(u.ID)
	withdrawals, _ := h.withdrawals.ListByUser(u.ID)
	invited, _ := h.referralRepo.ListActivatedByReferrer(u.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":        publicUser(u),
		"purchases":   purchases,
		"withdrawals": withdrawals,
		"invited":     invited,
	})
}

// AddUser handles POST /admin/users: manual account creation from the
// console, for users who signed up over the phone.
func (h *AdminHandler) AddUser(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8"`
		Phone        string `json:"phone" binding:"required"`
		Country      string `json:"country"`
		ReferralCode string `json:"referral_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phone := normalizePhone(req.Phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}
	u, _, _, err := h.authSvc.Register(service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        phone,
		Country:      req.Country,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		if err == service.ErrEmailExists {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user creation failed"})
		return
	}
	h.audit.Record(middleware.GetUserID(c), "add_user", "user", u.ID, u.Email)
	c.JSON(http.StatusCreated, publicUser(u))
}

// UpdateUser handles PATCH /admin/users/:id. Profile fields only; ledger
// columns are refused by the repository so even the console cannot bypass
// the settlement engine.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "phone": true, "phone_account_name": true,
		"country": true, "currency": true, "language": true,
	}
	filtered := map[string]interface{}{}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if phone, ok := filtered["phone"].(string); ok {
		normalized := normalizePhone(phone)
		if normalized == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}
		filtered["phone"] = normalized
	}
	if len(filtered) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.userRepo.UpdateFields(uint(id), filtered); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit.Record(middleware.GetUserID(c), "update_user", "user", uint(id), "")
	u, err := h.userRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, publicUser(u))
}

// DeleteUser handles DELETE /admin/users/:id. Soft-deletes the account and
// its own records; referrer-side history stays.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if uint(id) == middleware.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	if _, err := h.userRepo.GetByID(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err := h.userRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit.Record(middleware.GetUserID(c), "delete_user", "user", uint(id), "")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetVariables handles GET /admin/variables.
func (h *AdminHandler) GetVariables(c *gin.Context) {
	list, err := h.settings.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load variables"})
		return
	}
	out := gin.H{}
	for _, s := range list {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, out)
}

var editableSettings = map[string]bool{
	domain.SettingPricePerPercent:  true,
	domain.SettingPayoutNumber:     true,
	domain.SettingPayoutNumberName: true,
	domain.SettingMinWithdrawal:    true,
}

// UpdateVariables handles PUT /admin/variables: a partial map of settings.
// Numeric variables must parse as positive integers.
func (h *AdminHandler) UpdateVariables(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for key, value := range req {
		if !editableSettings[key] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown variable: " + key})
			return
		}
		if key == domain.SettingPricePerPercent || key == domain.SettingMinWithdrawal {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a positive integer"})
				return
			}
		}
	}
	for key, value := range req {
		if err := h.settings.Set(key, value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save " + key})
			return
		}
	}
	h.audit.Record(middleware.GetUserID(c), "update_variables", "system_setting", 0, fmt.Sprintf("%v", req))
	h.hub.BroadcastAll(gin.H{"type": "variables_updated"})
	h.GetVariables(c)
}

// Dashboard handles GET /admin/dashboard: queue depths for the console
// landing page.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	pendingPurchases, _ := h.purchases.CountByStatus(domain.StatusPending)
	completedPurchases, _ := h.purchases.CountByStatus(domain.StatusCompleted)
	rejectedPurchases, _ := h.purchases.CountByStatus(domain.StatusRejected)
	pendingWithdrawals, _ := h.withdrawals.CountByStatus(domain.StatusPending)
	completedWithdrawals, _ := h.withdrawals.CountByStatus(domain.StatusCompleted)
	rejectedWithdrawals, _ := h.withdrawals.CountByStatus(domain.StatusRejected)
	userCount, totalInvested, totalBalance, _ := h.userRepo.LedgerTotals()
	totalCommission, _ := h.referralRepo.TotalCommission()
	c.JSON(http.StatusOK, gin.H{
		"users":                 userCount,
		"total_invested_fcfa":   totalInvested,
		"total_balance_fcfa":    totalBalance,
		"total_commission_fcfa": totalCommission,
		"share_purchases": gin.H{
			"pending":   pendingPurchases,
			"completed": completedPurchases,
			"rejected":  rejectedPurchases,
		},
		"withdrawals": gin.H{
			"pending":   pendingWithdrawals,
			"completed": completedWithdrawals,
			"rejected":  rejectedWithdrawals,
		},
		"live_connections": h.hub.ClientCount(),
	})
}

// AuditLog handles GET /admin/audit?before_id=&limit=.
func (h *AdminHandler) AuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	beforeID, _ := strconv.ParseUint(c.DefaultQuery("before_id", "0"), 10, 64)
	list, err := h.audit.List(limit, uint(beforeID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": list})
}
