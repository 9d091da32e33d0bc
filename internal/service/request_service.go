package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"shere/internal/domain"
	"shere/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type purchaseSubmissions interface {
	Create(p *models.SharePurchase) error
	PendingForUser(userID uint) ([]models.SharePurchase, error)
}

type withdrawalSubmissions interface {
	Create(w *models.Withdrawal) error
	PendingForUser(userID uint) ([]models.Withdrawal, error)
}

type userReader interface {
	GetByID(id uint) (*models.User, error)
}

type settingsReader interface {
	GetInt64(key string, fallback int64) int64
}

// Fallbacks when the pricing variables were never seeded.
const (
	defaultPricePerPercent = 200 // FCFA per 1% of stake
	defaultMinWithdrawal   = 1000
)

// RequestService records user intent: it creates pending requests. Its
// pre-checks (cap headroom, balance, withdrawal floor, no outstanding
// pending request) are advisory UX guards; the authoritative checks re-run
// in the settlement engine at approval time against then-current state.
type RequestService struct {
	users       userReader
	purchases   purchaseSubmissions
	withdrawals withdrawalSubmissions
	settings    settingsReader
	now         func() time.Time
}

func NewRequestService(users userReader, purchases purchaseSubmissions, withdrawals withdrawalSubmissions, settings settingsReader) *RequestService {
	return &RequestService{
		users:       users,
		purchases:   purchases,
		withdrawals: withdrawals,
		settings:    settings,
		now:         time.Now,
	}
}

// WithClock overrides the request timestamp source. Test hook.
func (s *RequestService) WithClock(fn func() time.Time) {
	s.now = fn
}

// RequestSharePurchase records intent to buy stake. The price is computed
// from the price-per-percent variable read at the start of the operation;
// the admin may still edit both fields before approving.
func (s *RequestService) RequestSharePurchase(userID uint, accountName, phone string, percentage float64) (*models.SharePurchase, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if percentage <= 0 {
		return nil, fmt.Errorf("percentage must be positive")
	}
	if user.SharePercent+percentage > domain.ShareCapPercent {
		return nil, fmt.Errorf("%w: you can buy at most %.1f%% more", domain.ErrShareCapExceeded, user.RemainingShare())
	}
	pending, err := s.purchases.PendingForUser(userID)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return nil, domain.ErrPendingExists
	}

	ppp := s.settings.GetInt64(domain.SettingPricePerPercent, defaultPricePerPercent)
	amount := int64(math.Round(percentage * float64(ppp)))

	p := &models.SharePurchase{
		Reference:        "sp-" + uuid.New().String(),
		UserID:           userID,
		PhoneAccountName: accountName,
		PhoneNumber:      phone,
		Percentage:       percentage,
		AmountFCFA:       amount,
		Status:           domain.StatusPending,
		DateRequested:    s.now(),
	}
	if err := s.purchases.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// RequestWithdrawal records intent to cash out balance.
func (s *RequestService) RequestWithdrawal(userID uint, amount int64, accountName, phone string) (*models.Withdrawal, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if min := s.settings.GetInt64(domain.SettingMinWithdrawal, defaultMinWithdrawal); amount < min {
		return nil, fmt.Errorf("minimum withdrawal is %d FCFA", min)
	}
	if amount > user.BalanceFCFA {
		return nil, fmt.Errorf("%w: balance is %d FCFA", domain.ErrInsufficientFunds, user.BalanceFCFA)
	}
	pending, err := s.withdrawals.PendingForUser(userID)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return nil, domain.ErrPendingExists
	}

	w := &models.Withdrawal{
		Reference:        "wd-" + uuid.New().String(),
		UserID:           userID,
		PhoneAccountName: accountName,
		PhoneNumber:      phone,
		AmountFCFA:       amount,
		Status:           domain.StatusPending,
		DateRequested:    s.now(),
	}
	if err := s.withdrawals.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}
