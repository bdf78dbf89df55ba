package repository

import (
	"context"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// BulkCreate inserts the whole fan-out batch in one statement.
func (r *NotificationRepository) BulkCreate(ctx context.Context, notifications []entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *NotificationRepository) UnreadByBranch(ctx context.Context, branchID string, limit int) ([]entity.Notification, error) {
	var items []entity.Notification
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND is_read = ?", branchID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// MarkRead flips one unread notification; returns the number of rows touched
// (0 when the id/branch pair has no unread row).
func (r *NotificationRepository) MarkRead(ctx context.Context, branchID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND branch_id = ? AND is_read = ?", id, branchID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, branchID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("branch_id = ? AND is_read = ?", branchID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
