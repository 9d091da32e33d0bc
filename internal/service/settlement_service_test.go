package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shere/internal/domain"
	"shere/internal/models"
	"shere/internal/repository"

	"gorm.io/gorm"
)

// fakeWorld is an in-memory stand-in for the database. Transact clones the
// state, runs the callback against the clone, and commits the clone only on
// success, so rollback semantics match the real store.
type fakeWorld struct {
	users       map[uint]*models.User
	purchases   map[uint]*models.SharePurchase
	withdrawals map[uint]*models.Withdrawal
	referrals   map[uint]*models.Referral // keyed by referred_user_id

	failPurchaseSave bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		users:       map[uint]*models.User{},
		purchases:   map[uint]*models.SharePurchase{},
		withdrawals: map[uint]*models.Withdrawal{},
		referrals:   map[uint]*models.Referral{},
	}
}

func (w *fakeWorld) clone() *fakeWorld {
	c := newFakeWorld()
	c.failPurchaseSave = w.failPurchaseSave
	for k, v := range w.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range w.purchases {
		p := *v
		c.purchases[k] = &p
	}
	for k, v := range w.withdrawals {
		wd := *v
		c.withdrawals[k] = &wd
	}
	for k, v := range w.referrals {
		r := *v
		c.referrals[k] = &r
	}
	return c
}

func (w *fakeWorld) Transact(ctx context.Context, fn func(repository.LedgerTx) error) error {
	stage := w.clone()
	if err := fn(&fakeTx{w: stage}); err != nil {
		return err
	}
	w.users = stage.users
	w.purchases = stage.purchases
	w.withdrawals = stage.withdrawals
	w.referrals = stage.referrals
	return nil
}

type fakeTx struct {
	w *fakeWorld
}

func (t *fakeTx) UserForUpdate(id uint) (*models.User, error) {
	u, ok := t.w.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (t *fakeTx) PurchaseForUpdate(userID, id uint) (*models.SharePurchase, error) {
	p, ok := t.w.purchases[id]
	if !ok || p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *fakeTx) WithdrawalForUpdate(userID, id uint) (*models.Withdrawal, error) {
	wd, ok := t.w.withdrawals[id]
	if !ok || wd.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *wd
	return &cp, nil
}

func (t *fakeTx) ReferralByReferredUser(userID uint) (*models.Referral, error) {
	r, ok := t.w.referrals[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (t *fakeTx) SaveUser(u *models.User) error {
	cp := *u
	t.w.users[u.ID] = &cp
	return nil
}

func (t *fakeTx) SavePurchase(p *models.SharePurchase) error {
	if t.w.failPurchaseSave {
		return errors.New("simulated write failure")
	}
	cp := *p
	t.w.purchases[p.ID] = &cp
	return nil
}

func (t *fakeTx) SaveWithdrawal(wd *models.Withdrawal) error {
	cp := *wd
	t.w.withdrawals[wd.ID] = &cp
	return nil
}

func (t *fakeTx) SaveReferral(r *models.Referral) error {
	cp := *r
	t.w.referrals[r.ReferredUserID] = &cp
	return nil
}

// purchaseStatusView and withdrawalStatusView back the reject/reset paths
// with the same in-memory state.
type purchaseStatusView struct{ w *fakeWorld }

func (v *purchaseStatusView) Get(userID, id uint) (*models.SharePurchase, error) {
	p, ok := v.w.purchases[id]
	if !ok || p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (v *purchaseStatusView) SetStatus(userID, id uint, from []string, updates map[string]interface{}) error {
	p, ok := v.w.purchases[id]
	if !ok || p.UserID != userID || !statusIn(p.Status, from) {
		return gorm.ErrRecordNotFound
	}
	applyRequestUpdates(updates, &p.Status, &p.RejectionReason, &p.CompleteDate)
	return nil
}

type withdrawalStatusView struct{ w *fakeWorld }

func (v *withdrawalStatusView) Get(userID, id uint) (*models.Withdrawal, error) {
	wd, ok := v.w.withdrawals[id]
	if !ok || wd.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *wd
	return &cp, nil
}

func (v *withdrawalStatusView) SetStatus(userID, id uint, from []string, updates map[string]interface{}) error {
	wd, ok := v.w.withdrawals[id]
	if !ok || wd.UserID != userID || !statusIn(wd.Status, from) {
		return gorm.ErrRecordNotFound
	}
	applyRequestUpdates(updates, &wd.Status, &wd.RejectionReason, &wd.CompleteDate)
	return nil
}

func statusIn(s string, list []string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func applyRequestUpdates(updates map[string]interface{}, status, reason *string, completeDate **time.Time) {
	if v, ok := updates["status"]; ok {
		*status = v.(string)
	}
	if v, ok := updates["rejection_reason"]; ok {
		*reason = v.(string)
	}
	if v, ok := updates["complete_date"]; ok {
		if v == nil {
			*completeDate = nil
		} else {
			*completeDate = v.(*time.Time)
		}
	}
}

var (
	admin    = Actor{UserID: 1, Role: domain.RoleAdmin}
	nonAdmin = Actor{UserID: 7, Role: domain.RoleUser}
)

func newTestSettlement(w *fakeWorld) *SettlementService {
	s := NewSettlementService(w, &purchaseStatusView{w: w}, &withdrawalStatusView{w: w})
	s.WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	return s
}

func pendingPurchase(id, userID uint, percentage float64, amount int64) *models.SharePurchase {
	return &models.SharePurchase{
		ID:            id,
		UserID:        userID,
		Percentage:    percentage,
		AmountFCFA:    amount,
		Status:        domain.StatusPending,
		DateRequested: time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
	}
}

func TestApproveSharePurchaseRequiresAdmin(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, SharePercent: 10}
	w.purchases[1] = pendingPurchase(1, 2, 5, 1000)
	s := newTestSettlement(w)

	_, err := s.ApproveSharePurchase(context.Background(), nonAdmin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 5, AmountFCFA: 1000,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if w.users[2].SharePercent != 10 {
		t.Fatalf("share changed despite unauthorized actor")
	}
	if w.purchases[1].Status != domain.StatusPending {
		t.Fatalf("purchase settled despite unauthorized actor")
	}
}

func TestApproveSharePurchaseWithoutReferrer(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, SharePercent: 10, InvestedFCFA: 2000}
	w.purchases[1] = pendingPurchase(1, 2, 5, 1000)
	s := newTestSettlement(w)

	res, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 5, AmountFCFA: 1000,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	u := w.users[2]
	if u.SharePercent != 15 {
		t.Errorf("share = %v, want 15", u.SharePercent)
	}
	if u.InvestedFCFA != 3000 {
		t.Errorf("invested = %d, want 3000", u.InvestedFCFA)
	}
	p := w.purchases[1]
	if p.Status != domain.StatusCompleted || p.CompleteDate == nil {
		t.Errorf("purchase not completed: status=%s completeDate=%v", p.Status, p.CompleteDate)
	}
	if res.Referrer != nil || res.CommissionFCFA != 0 {
		t.Errorf("unexpected commission for unreferred user: %+v", res)
	}
}

func TestApproveSharePurchaseEditedByAdmin(t *testing.T) {
	// The admin corrected the percentage and amount before approving; the
	// command values win over what the user requested.
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2}
	w.purchases[1] = pendingPurchase(1, 2, 5, 1000)
	s := newTestSettlement(w)

	_, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 3, AmountFCFA: 600,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	p := w.purchases[1]
	if p.Percentage != 3 || p.AmountFCFA != 600 {
		t.Errorf("stored request = %.1f%% / %d FCFA, want 3%% / 600 FCFA", p.Percentage, p.AmountFCFA)
	}
	if w.users[2].SharePercent != 3 || w.users[2].InvestedFCFA != 600 {
		t.Errorf("ledger = %.1f%% / %d, want 3%% / 600", w.users[2].SharePercent, w.users[2].InvestedFCFA)
	}
}

func TestApproveSharePurchaseCommissionAndActivation(t *testing.T) {
	w := newFakeWorld()
	referrerID := uint(3)
	w.users[3] = &models.User{ID: 3, SharePercent: 20, BalanceFCFA: 100}
	w.users[2] = &models.User{ID: 2, ReferredByID: &referrerID}
	w.referrals[2] = &models.Referral{ID: 1, ReferrerID: 3, ReferredUserID: 2}
	w.purchases[1] = pendingPurchase(1, 2, 5, 1000)
	w.purchases[2] = pendingPurchase(2, 2, 5, 1000)
	s := newTestSettlement(w)

	// First approved purchase: 20% of 1000 = 200, and the referral activates.
	res, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 5, AmountFCFA: 1000,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.CommissionFCFA != 200 {
		t.Errorf("commission = %d, want 200", res.CommissionFCFA)
	}
	if !res.NewlyActivated {
		t.Errorf("first approved purchase should activate the referral")
	}
	if w.users[3].BalanceFCFA != 300 {
		t.Errorf("referrer balance = %d, want 300", w.users[3].BalanceFCFA)
	}
	ref := w.referrals[2]
	if !ref.Activated || ref.ActivatedAt == nil || ref.CommissionFCFA != 200 {
		t.Errorf("referral not activated correctly: %+v", ref)
	}

	// Second purchase pays commission again but must not re-activate.
	res, err = s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 2, Percentage: 5, AmountFCFA: 1000,
	})
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if res.NewlyActivated {
		t.Errorf("activation must happen exactly once")
	}
	if w.users[3].BalanceFCFA != 500 {
		t.Errorf("referrer balance = %d, want 500", w.users[3].BalanceFCFA)
	}
	if w.referrals[2].CommissionFCFA != 400 {
		t.Errorf("accumulated commission = %d, want 400", w.referrals[2].CommissionFCFA)
	}
}

func TestApproveSharePurchaseMaxShareReferrer(t *testing.T) {
	// A referrer at the 50% cap earns half of every invitee purchase.
	w := newFakeWorld()
	referrerID := uint(3)
	w.users[3] = &models.User{ID: 3, SharePercent: 50}
	w.users[2] = &models.User{ID: 2, ReferredByID: &referrerID}
	w.referrals[2] = &models.Referral{ID: 1, ReferrerID: 3, ReferredUserID: 2}
	w.purchases[1] = pendingPurchase(1, 2, 10, 2000)
	s := newTestSettlement(w)

	res, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 10, AmountFCFA: 2000,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.CommissionFCFA != 1000 {
		t.Errorf("commission = %d, want 1000", res.CommissionFCFA)
	}
	if w.users[2].InvestedFCFA != 2000 {
		t.Errorf("invested = %d, want 2000", w.users[2].InvestedFCFA)
	}
}

func TestApproveSharePurchaseCapExceeded(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, SharePercent: 10}
	w.purchases[1] = pendingPurchase(1, 2, 45, 9000)
	s := newTestSettlement(w)

	_, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 45, AmountFCFA: 9000,
	})
	if !errors.Is(err, domain.ErrShareCapExceeded) {
		t.Fatalf("want ErrShareCapExceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "55") {
		t.Errorf("error should carry the computed total, got %q", err.Error())
	}
	if w.users[2].SharePercent != 10 || w.users[2].InvestedFCFA != 0 {
		t.Errorf("ledger moved on a failed approval")
	}
	if w.purchases[1].Status != domain.StatusPending {
		t.Errorf("purchase left pending state on a failed approval")
	}
}

func TestApproveSharePurchaseExactlyAtCap(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, SharePercent: 30}
	w.purchases[1] = pendingPurchase(1, 2, 20, 4000)
	s := newTestSettlement(w)

	_, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 20, AmountFCFA: 4000,
	})
	if err != nil {
		t.Fatalf("reaching exactly 50%% must be allowed: %v", err)
	}
	if w.users[2].SharePercent != 50 {
		t.Errorf("share = %v, want 50", w.users[2].SharePercent)
	}
}

func TestApproveSharePurchaseNotPending(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2}
	p := pendingPurchase(1, 2, 5, 1000)
	p.Status = domain.StatusCompleted
	w.purchases[1] = p
	s := newTestSettlement(w)

	_, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 5, AmountFCFA: 1000,
	})
	if !errors.Is(err, domain.ErrRequestNotPending) {
		t.Fatalf("want ErrRequestNotPending, got %v", err)
	}
}

func TestApproveSharePurchaseMissingRows(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2}
	s := newTestSettlement(w)

	_, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 99, PurchaseID: 1, Percentage: 5, AmountFCFA: 1000,
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}

	_, err = s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 42, Percentage: 5, AmountFCFA: 1000,
	})
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("want ErrRequestNotFound, got %v", err)
	}
}

func TestApproveSharePurchaseRollsBackOnWriteFailure(t *testing.T) {
	w := newFakeWorld()
	referrerID := uint(3)
	w.users[3] = &models.User{ID: 3, SharePercent: 20, BalanceFCFA: 100}
	w.users[2] = &models.User{ID: 2, ReferredByID: &referrerID}
	w.referrals[2] = &models.Referral{ID: 1, ReferrerID: 3, ReferredUserID: 2}
	w.purchases[1] = pendingPurchase(1, 2, 5, 1000)
	w.failPurchaseSave = true
	s := newTestSettlement(w)

	_, err := s.ApproveSharePurchase(context.Background(), admin, ApprovePurchaseCommand{
		UserID: 2, PurchaseID: 1, Percentage: 5, AmountFCFA: 1000,
	})
	if err == nil {
		t.Fatal("expected write failure to surface")
	}
	// The referrer credit and share update happened before the failing write;
	// none of it may stick.
	if w.users[3].BalanceFCFA != 100 {
		t.Errorf("referrer balance = %d, want 100 (rolled back)", w.users[3].BalanceFCFA)
	}
	if w.users[2].SharePercent != 0 {
		t.Errorf("share = %v, want 0 (rolled back)", w.users[2].SharePercent)
	}
	if w.referrals[2].Activated {
		t.Errorf("referral activated despite rollback")
	}
}

func TestApproveWithdrawal(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, BalanceFCFA: 1500}
	w.withdrawals[1] = &models.Withdrawal{ID: 1, UserID: 2, AmountFCFA: 1000, Status: domain.StatusPending}
	s := newTestSettlement(w)

	res, err := s.ApproveWithdrawal(context.Background(), admin, ApproveWithdrawalCommand{
		UserID: 2, WithdrawalID: 1, AmountFCFA: 1000,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if w.users[2].BalanceFCFA != 500 {
		t.Errorf("balance = %d, want 500", w.users[2].BalanceFCFA)
	}
	wd := w.withdrawals[1]
	if wd.Status != domain.StatusCompleted || wd.CompleteDate == nil {
		t.Errorf("withdrawal not completed: %+v", wd)
	}
	if res.User.BalanceFCFA != 500 {
		t.Errorf("settlement result balance = %d, want 500", res.User.BalanceFCFA)
	}
}

func TestApproveWithdrawalInsufficientBalance(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, BalanceFCFA: 300}
	w.withdrawals[1] = &models.Withdrawal{ID: 1, UserID: 2, AmountFCFA: 500, Status: domain.StatusPending}
	s := newTestSettlement(w)

	_, err := s.ApproveWithdrawal(context.Background(), admin, ApproveWithdrawalCommand{
		UserID: 2, WithdrawalID: 1, AmountFCFA: 500,
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if !strings.Contains(err.Error(), "300") {
		t.Errorf("error should carry the live balance, got %q", err.Error())
	}
	if w.users[2].BalanceFCFA != 300 {
		t.Errorf("balance moved on a failed approval")
	}
	if w.withdrawals[1].Status != domain.StatusPending {
		t.Errorf("withdrawal left pending state on a failed approval")
	}
}

func TestApproveWithdrawalNotPending(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, BalanceFCFA: 1500}
	w.withdrawals[1] = &models.Withdrawal{ID: 1, UserID: 2, AmountFCFA: 1000, Status: domain.StatusCompleted}
	s := newTestSettlement(w)

	_, err := s.ApproveWithdrawal(context.Background(), admin, ApproveWithdrawalCommand{
		UserID: 2, WithdrawalID: 1, AmountFCFA: 1000,
	})
	if !errors.Is(err, domain.ErrRequestNotPending) {
		t.Fatalf("want ErrRequestNotPending, got %v", err)
	}
	if w.users[2].BalanceFCFA != 1500 {
		t.Errorf("balance moved on a refused re-approval")
	}
}

func TestApproveWithdrawalRequiresAdmin(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, BalanceFCFA: 1500}
	w.withdrawals[1] = &models.Withdrawal{ID: 1, UserID: 2, AmountFCFA: 1000, Status: domain.StatusPending}
	s := newTestSettlement(w)

	_, err := s.ApproveWithdrawal(context.Background(), nonAdmin, ApproveWithdrawalCommand{
		UserID: 2, WithdrawalID: 1, AmountFCFA: 1000,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestRejectThenResetSharePurchase(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, SharePercent: 10, BalanceFCFA: 100, InvestedFCFA: 2000}
	w.purchases[1] = pendingPurchase(1, 2, 5, 1000)
	s := newTestSettlement(w)
	ctx := context.Background()

	if err := s.RejectSharePurchase(ctx, admin, RejectCommand{UserID: 2, RequestID: 1, Reason: "no transfer received"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	p := w.purchases[1]
	if p.Status != domain.StatusRejected || p.RejectionReason != "no transfer received" {
		t.Fatalf("reject did not apply: %+v", p)
	}

	if err := s.ResetSharePurchaseStatus(ctx, admin, ResetCommand{UserID: 2, RequestID: 1}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	p = w.purchases[1]
	if p.Status != domain.StatusPending || p.RejectionReason != "" || p.CompleteDate != nil {
		t.Fatalf("reset did not restore pending state: %+v", p)
	}

	// Reject and reset never touch the ledger.
	u := w.users[2]
	if u.SharePercent != 10 || u.BalanceFCFA != 100 || u.InvestedFCFA != 2000 {
		t.Errorf("ledger moved during reject/reset: %+v", u)
	}
}

func TestRejectCompletedPurchaseRefused(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2}
	p := pendingPurchase(1, 2, 5, 1000)
	p.Status = domain.StatusCompleted
	w.purchases[1] = p
	s := newTestSettlement(w)

	err := s.RejectSharePurchase(context.Background(), admin, RejectCommand{UserID: 2, RequestID: 1, Reason: "x"})
	if !errors.Is(err, domain.ErrRequestNotPending) {
		t.Fatalf("want ErrRequestNotPending, got %v", err)
	}
}

func TestResetPendingPurchaseRefused(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2}
	w.purchases[1] = pendingPurchase(1, 2, 5, 1000)
	s := newTestSettlement(w)

	err := s.ResetSharePurchaseStatus(context.Background(), admin, ResetCommand{UserID: 2, RequestID: 1})
	if !errors.Is(err, domain.ErrRequestNotRejected) {
		t.Fatalf("want ErrRequestNotRejected, got %v", err)
	}
}

func TestRejectThenResetWithdrawal(t *testing.T) {
	w := newFakeWorld()
	w.users[2] = &models.User{ID: 2, BalanceFCFA: 5000}
	w.withdrawals[1] = &models.Withdrawal{ID: 1, UserID: 2, AmountFCFA: 1000, Status: domain.StatusPending}
	s := newTestSettlement(w)
	ctx := context.Background()

	if err := s.RejectWithdrawal(ctx, admin, RejectCommand{UserID: 2, RequestID: 1, Reason: "wrong number"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if w.withdrawals[1].Status != domain.StatusRejected {
		t.Fatalf("reject did not apply")
	}
	if err := s.ResetWithdrawalStatus(ctx, admin, ResetCommand{UserID: 2, RequestID: 1}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	wd := w.withdrawals[1]
	if wd.Status != domain.StatusPending || wd.RejectionReason != "" {
		t.Fatalf("reset did not restore pending state: %+v", wd)
	}
	if w.users[2].BalanceFCFA != 5000 {
		t.Errorf("balance moved during reject/reset")
	}
}

func TestRejectWithdrawalNotFound(t *testing.T) {
	w := newFakeWorld()
	s := newTestSettlement(w)
	err := s.RejectWithdrawal(context.Background(), admin, RejectCommand{UserID: 2, RequestID: 9, Reason: "x"})
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("want ErrRequestNotFound, got %v", err)
	}
}
