package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"shere/internal/domain"
	"shere/internal/models"

	"gorm.io/gorm"
)

type fakeUsers struct {
	users map[uint]*models.User
}

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

type fakePurchaseBox struct {
	created []*models.SharePurchase
	pending []models.SharePurchase
}

func (f *fakePurchaseBox) Create(p *models.SharePurchase) error {
	f.created = append(f.created, p)
	return nil
}

func (f *fakePurchaseBox) PendingForUser(userID uint) ([]models.SharePurchase, error) {
	return f.pending, nil
}

type fakeWithdrawalBox struct {
	created []*models.Withdrawal
	pending []models.Withdrawal
}

func (f *fakeWithdrawalBox) Create(w *models.Withdrawal) error {
	f.created = append(f.created, w)
	return nil
}

func (f *fakeWithdrawalBox) PendingForUser(userID uint) ([]models.Withdrawal, error) {
	return f.pending, nil
}

type fakeSettings map[string]int64

func (f fakeSettings) GetInt64(key string, fallback int64) int64 {
	if v, ok := f[key]; ok {
		return v
	}
	return fallback
}

func newTestRequestService(users map[uint]*models.User, settings fakeSettings) (*RequestService, *fakePurchaseBox, *fakeWithdrawalBox) {
	pb := &fakePurchaseBox{}
	wb := &fakeWithdrawalBox{}
	s := NewRequestService(&fakeUsers{users: users}, pb, wb, settings)
	s.WithClock(func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) })
	return s, pb, wb
}

func TestRequestSharePurchasePricing(t *testing.T) {
	s, pb, _ := newTestRequestService(
		map[uint]*models.User{2: {ID: 2, SharePercent: 10}},
		fakeSettings{domain.SettingPricePerPercent: 200},
	)

	p, err := s.RequestSharePurchase(2, "Jean K", "237650000001", 2.5)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if p.AmountFCFA != 500 {
		t.Errorf("amount = %d, want 500 (2.5%% at 200 FCFA/%%)", p.AmountFCFA)
	}
	if p.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", p.Status)
	}
	if !strings.HasPrefix(p.Reference, "sp-") {
		t.Errorf("reference = %q, want sp- prefix", p.Reference)
	}
	if len(pb.created) != 1 {
		t.Fatalf("created %d purchases, want 1", len(pb.created))
	}
}

func TestRequestSharePurchaseDefaultPrice(t *testing.T) {
	s, _, _ := newTestRequestService(
		map[uint]*models.User{2: {ID: 2}},
		fakeSettings{},
	)
	p, err := s.RequestSharePurchase(2, "Jean K", "237650000001", 10)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if p.AmountFCFA != 10*defaultPricePerPercent {
		t.Errorf("amount = %d, want %d", p.AmountFCFA, 10*defaultPricePerPercent)
	}
}

func TestRequestSharePurchaseCapAdvisory(t *testing.T) {
	s, pb, _ := newTestRequestService(
		map[uint]*models.User{2: {ID: 2, SharePercent: 48}},
		fakeSettings{},
	)
	_, err := s.RequestSharePurchase(2, "Jean K", "237650000001", 5)
	if !errors.Is(err, domain.ErrShareCapExceeded) {
		t.Fatalf("want ErrShareCapExceeded, got %v", err)
	}
	if len(pb.created) != 0 {
		t.Errorf("request created despite cap")
	}
}

func TestRequestSharePurchasePendingExists(t *testing.T) {
	s, pb, _ := newTestRequestService(
		map[uint]*models.User{2: {ID: 2}},
		fakeSettings{},
	)
	pb.pending = []models.SharePurchase{{ID: 1, UserID: 2, Status: domain.StatusPending}}

	_, err := s.RequestSharePurchase(2, "Jean K", "237650000001", 5)
	if !errors.Is(err, domain.ErrPendingExists) {
		t.Fatalf("want ErrPendingExists, got %v", err)
	}
}

func TestRequestSharePurchaseUnknownUser(t *testing.T) {
	s, _, _ := newTestRequestService(map[uint]*models.User{}, fakeSettings{})
	_, err := s.RequestSharePurchase(9, "X", "237650000001", 5)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestRequestWithdrawal(t *testing.T) {
	s, _, wb := newTestRequestService(
		map[uint]*models.User{2: {ID: 2, BalanceFCFA: 5000}},
		fakeSettings{domain.SettingMinWithdrawal: 1000},
	)
	w, err := s.RequestWithdrawal(2, 2000, "Jean K", "237650000001")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if w.AmountFCFA != 2000 || w.Status != domain.StatusPending {
		t.Errorf("unexpected withdrawal: %+v", w)
	}
	if !strings.HasPrefix(w.Reference, "wd-") {
		t.Errorf("reference = %q, want wd- prefix", w.Reference)
	}
	if len(wb.created) != 1 {
		t.Fatalf("created %d withdrawals, want 1", len(wb.created))
	}
}

func TestRequestWithdrawalBelowMinimum(t *testing.T) {
	s, _, wb := newTestRequestService(
		map[uint]*models.User{2: {ID: 2, BalanceFCFA: 5000}},
		fakeSettings{domain.SettingMinWithdrawal: 1000},
	)
	_, err := s.RequestWithdrawal(2, 500, "Jean K", "237650000001")
	if err == nil || !strings.Contains(err.Error(), "1000") {
		t.Fatalf("want minimum-withdrawal error carrying the floor, got %v", err)
	}
	if len(wb.created) != 0 {
		t.Errorf("request created despite floor")
	}
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	s, _, _ := newTestRequestService(
		map[uint]*models.User{2: {ID: 2, BalanceFCFA: 300}},
		fakeSettings{domain.SettingMinWithdrawal: 100},
	)
	_, err := s.RequestWithdrawal(2, 500, "Jean K", "237650000001")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if !strings.Contains(err.Error(), "300") {
		t.Errorf("error should carry the live balance, got %q", err.Error())
	}
}

func TestRequestWithdrawalPendingExists(t *testing.T) {
	s, _, wb := newTestRequestService(
		map[uint]*models.User{2: {ID: 2, BalanceFCFA: 5000}},
		fakeSettings{},
	)
	wb.pending = []models.Withdrawal{{ID: 1, UserID: 2, Status: domain.StatusPending}}
	_, err := s.RequestWithdrawal(2, 2000, "Jean K", "237650000001")
	if !errors.Is(err, domain.ErrPendingExists) {
		t.Fatalf("want ErrPendingExists, got %v", err)
	}
}
