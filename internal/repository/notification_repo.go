package repository

import (
	"errors"

	"carhub/internal/domain"
	"carhub/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// CreateMany persists each notification independently. Already-created
// rows are never rolled back when a later one fails; the joined error
// reports every failure so the caller can log them.
func (r *NotificationRepository) CreateMany(list []*models.Notification) (int, error) {
	var errs []error
	created := 0
	for _, n := range list {
		if err := r.db.Create(n).Error; err != nil {
			errs = append(errs, err)
			continue
		}
		created++
	}
	return created, errors.Join(errs...)
}

// MarkResolved retires every actionable approval notice for a car:
// action_required drops, is_read is set. Matching zero rows is fine.
func (r *NotificationRepository) MarkResolved(carID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("related_car_id = ? AND type = ? AND action_required = ?",
			carID, domain.NotificationCarApprovalPending, true).
		Updates(map[string]interface{}{
			"action_required": false,
			"is_read":         true,
		})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) ListByRecipient(recipientID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	q := r.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var list []models.Notification
	err := q.Preload("Sender").Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) UnreadCount(recipientID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkRead is recipient-scoped so a user cannot read someone else's
// notification. Returns gorm.ErrRecordNotFound when nothing matched.
func (r *NotificationRepository) MarkRead(id, recipientID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPendingApprovals feeds the admin moderation queue.
func (r *NotificationRepository) ListPendingApprovals() ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("type = ? AND action_required = ?", domain.NotificationCarApprovalPending, true).
		Preload("Sender").Order("created_at DESC").Find(&list).Error
	return list, err
}

// CountActionable reports remaining actionable approval notices for a
// car; used by tests and the admin dashboard.
func (r *NotificationRepository) CountActionable(carID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).
		Where("related_car_id = ? AND type = ? AND action_required = ?",
			carID, domain.NotificationCarApprovalPending, true).
		Count(&n).Error
	return n, err
}
