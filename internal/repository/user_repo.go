package repository

import (
	"shere/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// UpdateFields updates specific columns on a user. Ledger columns are
// refused here: only the settlement engine may touch them.
func (r *UserRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	for _, col := range []string{"balance_fcfa", "share_percent", "invested_fcfa"} {
		delete(updates, col)
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// SearchByName matches on a case-sensitive name prefix, mirroring the admin
// console's search-as-you-type behaviour.
func (r *UserRepository) SearchByName(prefix string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("name LIKE ?", prefix+"%").Order("name ASC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) SearchByPhone(phone string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("phone = ?", phone).Find(&users).Error
	return users, err
}

// LedgerTotals aggregates the site-wide ledger for the admin dashboard.
func (r *UserRepository) LedgerTotals() (userCount, totalInvestedFCFA, totalBalanceFCFA int64, err error) {
	if err = r.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return
	}
	var sums struct {
		Invested int64
		Balance  int64
	}
	err = r.db.Model(&models.User{}).
		Select("COALESCE(SUM(invested_fcfa),0) AS invested, COALESCE(SUM(balance_fcfa),0) AS balance").
		Scan(&sums).Error
	return userCount, sums.Invested, sums.Balance, err
}

// Delete soft-deletes the user together with their outstanding requests and
// their referral row as a referred user. Referrer-side aggregates (balance
// already credited, activated referrals pointing at this user) are left as
// is; see DESIGN.md for the accepted-debt note.
func (r *UserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.SharePurchase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Withdrawal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("referred_user_id = ?", id).Delete(&models.Referral{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ReferralCode{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
