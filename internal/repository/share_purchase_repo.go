package repository

import (
	"shere/internal/domain"
	"shere/internal/models"

	"gorm.io/gorm"
)

type SharePurchaseRepository struct {
	db *gorm.DB
}

func NewSharePurchaseRepository(db *gorm.DB) *SharePurchaseRepository {
	return &SharePurchaseRepository{db: db}
}

func (r *SharePurchaseRepository) Create(p *models.SharePurchase) error {
	return r.db.Create(p).Error
}

func (r *SharePurchaseRepository) Get(userID, id uint) (*models.SharePurchase, error) {
	var p models.SharePurchase
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns a user's full purchase history, most recent first.
// Unpaginated: a single user accumulates few requests.
func (r *SharePurchaseRepository) ListByUser(userID uint) ([]models.SharePurchase, error) {
	var list []models.SharePurchase
	err := r.db.Where("user_id = ?", userID).
		Order("date_requested DESC").
		Find(&list).Error
	return list, err
}

// PendingForUser returns the user's outstanding pending purchases; gates the
// submission form.
func (r *SharePurchaseRepository) PendingForUser(userID uint) ([]models.SharePurchase, error) {
	var list []models.SharePurchase
	err := r.db.Where("user_id = ? AND status = ?", userID, domain.StatusPending).
		Order("date_requested ASC").
		Find(&list).Error
	return list, err
}

// ListByStatus is the admin fan-in query across all users' purchases.
// pending/rejected pages oldest-first so the queue is processed FIFO;
// completed pages newest-completion-first for audit review. Pagination is
// keyset on (timestamp, id) via the opaque cursor.
func (r *SharePurchaseRepository) ListByStatus(status string, cursor string, pageSize int) ([]models.SharePurchase, string, error) {
	cur, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	q := r.db.Where("status = ?", status).Limit(pageSize)
	var list []models.SharePurchase
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

// SetStatus performs the plain, non-transactional status writes (reject and
// reset). The WHERE clause carries the allowed source statuses so a completed
// request can never be flipped back.
func (r *SharePurchaseRepository) SetStatus(userID, id uint, from []string, updates map[string]interface{}) error {
	res := r.db.Model(&models.SharePurchase{}).
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

func (r *SharePurchaseRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&models.SharePurchase{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
