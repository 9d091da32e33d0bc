package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"shere/internal/domain"
	"shere/internal/models"
	"shere/internal/repository"

	"gorm.io/gorm"
)

// Actor identifies the principal invoking a settlement operation. The
// capability check happens here, inside the engine, not in the HTTP layer.
type Actor struct {
	UserID uint
	Role   string
}

// Typed commands per operation. The admin console may edit percentage and
// amount before approving; the command values are authoritative and
// overwrite the stored request on completion.
type ApprovePurchaseCommand struct {
	UserID     uint
	PurchaseID uint
	Percentage float64
	AmountFCFA int64
}

type ApproveWithdrawalCommand struct {
	UserID       uint
	WithdrawalID uint
	AmountFCFA   int64
}

type RejectCommand struct {
	UserID    uint
	RequestID uint
	Reason    string
}

type ResetCommand struct {
	UserID    uint
	RequestID uint
}

// PurchaseSettlement reports what an approved purchase changed, for
// notifications and the live ledger feed.
type PurchaseSettlement struct {
	User           *models.User
	Purchase       *models.SharePurchase
	Referrer       *models.User // nil when the purchaser was not referred
	CommissionFCFA int64
	NewlyActivated bool // referral entered the referrer's invited list
}

type WithdrawalSettlement struct {
	User       *models.User
	Withdrawal *models.Withdrawal
}

type purchaseRequests interface {
	Get(userID, id uint) (*models.SharePurchase, error)
	SetStatus(userID, id uint, from []string, updates map[string]interface{}) error
}

type withdrawalRequests interface {
	Get(userID, id uint) (*models.Withdrawal, error)
	SetStatus(userID, id uint, from []string, updates map[string]interface{}) error
}

// SettlementService is the only code path that mutates balances, shares,
// invested totals, referral activation, or a request's terminal status.
// Approvals run inside a single store transaction reading every row they
// will write; reject and reset are plain guarded writes because they never
// touch the ledger.
type SettlementService struct {
	store       repository.LedgerStore
	purchases   purchaseRequests
	withdrawals withdrawalRequests
	now         func() time.Time
}

func NewSettlementService(store repository.LedgerStore, purchases purchaseRequests, withdrawals withdrawalRequests) *SettlementService {
	return &SettlementService{
		store:       store,
		purchases:   purchases,
		withdrawals: withdrawals,
		now:         time.Now,
	}
}

// WithClock overrides the settlement timestamp source. Test hook.
func (s *SettlementService) WithClock(fn func() time.Time) {
	s.now = fn
}

func (s *SettlementService) authorize(actor Actor) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrUnauthorized
	}
	return nil
}

// ApproveSharePurchase settles a pending purchase: enforces the 50% cap
// against the live share, credits the referrer's commission at the
// referrer's share at transaction time, activates the referral at most once,
// then completes the request. All-or-nothing.
func (s *SettlementService) ApproveSharePurchase(ctx context.Context, actor Actor, cmd ApprovePurchaseCommand) (*PurchaseSettlement, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if cmd.Percentage <= 0 {
		return nil, fmt.Errorf("percentage must be positive")
	}
	if cmd.AmountFCFA < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}

	var out PurchaseSettlement
	err := s.store.Transact(ctx, func(tx repository.LedgerTx) error {
		user, err := tx.UserForUpdate(cmd.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		purchase, err := tx.PurchaseForUpdate(cmd.UserID, cmd.PurchaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRequestNotFound
			}
			return err
		}
		if purchase.Status != domain.StatusPending {
			return domain.ErrRequestNotPending
		}

		// The cap is recomputed here, against the locked row. Computing it
		// before the transaction would race with concurrent approvals.
		newShare := user.SharePercent + cmd.Percentage
		if newShare > domain.ShareCapPercent {
			return fmt.Errorf("%w: total would be %s%%", domain.ErrShareCapExceeded,
				strconv.FormatFloat(newShare, 'f', -1, 64))
		}

		now := s.now()

		// Lock order is always purchaser then referrer; concurrent approvals
		// therefore cannot deadlock on the two user rows.
		if user.ReferredByID != nil {
			referrer, err := tx.UserForUpdate(*user.ReferredByID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if referrer != nil {
				commission := int64(math.Round(float64(cmd.AmountFCFA) * referrer.SharePercent / 100))
				referrer.BalanceFCFA += commission
				if err := tx.SaveUser(referrer); err != nil {
					return err
				}

				rel, err := tx.ReferralByReferredUser(user.ID)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				if rel != nil {
					rel.CommissionFCFA += commission
					if !rel.Activated {
						rel.Activated = true
						at := now
						rel.ActivatedAt = &at
						out.NewlyActivated = true
					}
					if err := tx.SaveReferral(rel); err != nil {
						return err
					}
				}
				out.Referrer = referrer
				out.CommissionFCFA = commission
			}
		}

		user.SharePercent = newShare
		user.InvestedFCFA += cmd.AmountFCFA
		if err := tx.SaveUser(user); err != nil {
			return err
		}

		purchase.Status = domain.StatusCompleted
		completeAt := now
		purchase.CompleteDate = &completeAt
		purchase.Percentage = cmd.Percentage
		purchase.AmountFCFA = cmd.AmountFCFA
		if err := tx.SavePurchase(purchase); err != nil {
			return err
		}

		out.User = user
		out.Purchase = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveWithdrawal settles a pending withdrawal: re-validates the balance
// against the locked row, debits it, and completes the request.
func (s *SettlementService) ApproveWithdrawal(ctx context.Context, actor Actor, cmd ApproveWithdrawalCommand) (*WithdrawalSettlement, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if cmd.AmountFCFA <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	var out WithdrawalSettlement
	err := s.store.Transact(ctx, func(tx repository.LedgerTx) error {
		user, err := tx.UserForUpdate(cmd.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if user.BalanceFCFA < cmd.AmountFCFA {
			return fmt.Errorf("%w: balance is %d FCFA", domain.ErrInsufficientFunds, user.BalanceFCFA)
		}

		withdrawal, err := tx.WithdrawalForUpdate(cmd.UserID, cmd.WithdrawalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRequestNotFound
			}
			return err
		}
		if withdrawal.Status != domain.StatusPending {
			return domain.ErrRequestNotPending
		}

		user.BalanceFCFA -= cmd.AmountFCFA
		if err := tx.SaveUser(user); err != nil {
			return err
		}

		withdrawal.Status = domain.StatusCompleted
		completeAt := s.now()
		withdrawal.CompleteDate = &completeAt
		if err := tx.SaveWithdrawal(withdrawal); err != nil {
			return err
		}

		out.User = user
		out.Withdrawal = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectSharePurchase marks a pending (or already rejected) purchase as
// rejected with a reason. A completed purchase stays completed. No ledger
// fields move, so this is a plain write, not a transaction.
func (s *SettlementService) RejectSharePurchase(ctx context.Context, actor Actor, cmd RejectCommand) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	p, err := s.purchases.Get(cmd.UserID, cmd.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	if p.Status == domain.StatusCompleted {
		return domain.ErrRequestNotPending
	}
	return s.purchases.SetStatus(cmd.UserID, cmd.RequestID,
		[]string{domain.StatusPending, domain.StatusRejected},
		map[string]interface{}{
			"status":           domain.StatusRejected,
			"rejection_reason": cmd.Reason,
		})
}

// ResetSharePurchaseStatus returns a rejected purchase to the pending queue,
// clearing its rejection reason. Safe only because rejected requests never
// moved the ledger.
func (s *SettlementService) ResetSharePurchaseStatus(ctx context.Context, actor Actor, cmd ResetCommand) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	p, err := s.purchases.Get(cmd.UserID, cmd.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	if p.Status != domain.StatusRejected {
		return domain.ErrRequestNotRejected
	}
	return s.purchases.SetStatus(cmd.UserID, cmd.RequestID,
		[]string{domain.StatusRejected},
		map[string]interface{}{
			"status":           domain.StatusPending,
			"rejection_reason": "",
			"complete_date":    nil,
		})
}

func (s *SettlementService) RejectWithdrawal(ctx context.Context, actor Actor, cmd RejectCommand) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	w, err := s.withdrawals.Get(cmd.UserID, cmd.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	if w.Status == domain.StatusCompleted {
		return domain.ErrRequestNotPending
	}
	return s.withdrawals.SetStatus(cmd.UserID, cmd.RequestID,
		[]string{domain.StatusPending, domain.StatusRejected},
		map[string]interface{}{
			"status":           domain.StatusRejected,
			"rejection_reason": cmd.Reason,
		})
}

func (s *SettlementService) ResetWithdrawalStatus(ctx context.Context, actor Actor, cmd ResetCommand) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	w, err := s.withdrawals.Get(cmd.UserID, cmd.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	if w.Status != domain.StatusRejected {
		return domain.ErrRequestNotRejected
	}
	return s.withdrawals.SetStatus(cmd.UserID, cmd.RequestID,
		[]string{domain.StatusRejected},
		map[string]interface{}{
			"status":           domain.StatusPending,
			"rejection_reason": "",
			"complete_date":    nil,
		})
}
