package repository

import (
	"shere/internal/domain"
	"shere/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(w *models.Withdrawal) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) Get(userID, id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) ListByUser(userID uint) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("user_id = ?", userID).
		Order("date_requested DESC").
		Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) PendingForUser(userID uint) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("user_id = ? AND status = ?", userID, domain.StatusPending).
		Order("date_requested ASC").
		Find(&list).Error
	return list, err
}

// ListByStatus mirrors SharePurchaseRepository.ListByStatus: FIFO queue
// ordering for the pending/rejected admin views, latest completions first
// otherwise, keyset-paginated.
func (r *WithdrawalRepository) ListByStatus(status string, cursor string, pageSize int) ([]models.Withdrawal, string, error) {
	cur, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	q := r.db.Where("status = ?", status).Limit(pageSize)
	var list []models.Withdrawal
	if status == domain.StatusCompleted {
		q = q.Order("complete_date DESC, id DESC")
		if cur != nil {
			q = q.Where("(complete_date, id) < (?, ?)", cur.At, cur.ID)
		}
		err = q.Find(&list).Error
	} else {
		q = q.Order("date_requested ASC, id ASC")
		if cur != nil {
			q = q.Where("(date_requested, id) > (?, ?)", cur.At, cur.ID)
		}
		err = q.Find(&list).Error
	}
	if err != nil || len(list) == 0 {
		return list, "", err
	}

	last := list[len(list)-1]
	next := Cursor{At: last.DateRequested, ID: last.ID}
	if status == domain.StatusCompleted && last.CompleteDate != nil {
		next.At = *last.CompleteDate
	}
	return list, next.Encode(), nil
}

func (r *WithdrawalRepository) SetStatus(userID, id uint, from []string, updates map[string]interface{}) error {
	res := r.db.Model(&models.Withdrawal{}).
		Where("id = ? AND user_id = ? AND status IN ?", id, userID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WithdrawalRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Withdrawal{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
