package repository

import (
	"context"

	"shere/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerTx is the unit-of-work view the settlement engine operates on. Every
// document the engine will write is read through a ForUpdate method first, so
// all invariant checks run against row-locked state.
type LedgerTx interface {
	UserForUpdate(id uint) (*models.User, error)
	PurchaseForUpdate(userID, id uint) (*models.SharePurchase, error)
	WithdrawalForUpdate(userID, id uint) (*models.Withdrawal, error)
	ReferralByReferredUser(userID uint) (*models.Referral, error)
	SaveUser(u *models.User) error
	SavePurchase(p *models.SharePurchase) error
	SaveWithdrawal(w *models.Withdrawal) error
	SaveReferral(ref *models.Referral) error
}

// LedgerStore runs a settlement callback inside one database transaction.
// If the callback returns an error every write is rolled back.
type LedgerStore interface {
	Transact(ctx context.Context, fn func(LedgerTx) error) error
}

// LedgerRepository is the gorm/MySQL LedgerStore.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Transact(ctx context.Context, fn func(LedgerTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerTx{tx: tx})
	})
}

type gormLedgerTx struct {
	tx *gorm.DB
}

func (t *gormLedgerTx) UserForUpdate(id uint) (*models.User, error) {
	var u models.User
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (t *gormLedgerTx) PurchaseForUpdate(userID, id uint) (*models.SharePurchase, error) {
	var p models.SharePurchase
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *gormLedgerTx) WithdrawalForUpdate(userID, id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (t *gormLedgerTx) ReferralByReferredUser(userID uint) (*models.Referral, error) {
	var ref models.Referral
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referred_user_id = ?", userID).
		First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (t *gormLedgerTx) SaveUser(u *models.User) error {
	return t.tx.Save(u).Error
}

func (t *gormLedgerTx) SavePurchase(p *models.SharePurchase) error {
	return t.tx.Save(p).Error
}

func (t *gormLedgerTx) SaveWithdrawal(w *models.Withdrawal) error {
	return t.tx.Save(w).Error
}

func (t *gormLedgerTx) SaveReferral(ref *models.Referral) error {
	return t.tx.Save(ref).Error
}
