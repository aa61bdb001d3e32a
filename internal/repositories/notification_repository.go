package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the notification sink. Fan-out is the
// producer; the API layer is the consumer.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByUser(userID string) ([]models.Notification, error)
	GetByID(id string) (*models.Notification, error)
	MarkAsRead(id string) error
	Delete(id string) error
	GetUnreadCount(userID string) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed
// by PostgreSQL.
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(notification *models.Notification) error {
	if notification.UserID == "" {
		return apperrors.MissingField("userId")
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	now := time.Now()
	notification.CreatedAt = now
	notification.UpdatedAt = now
	notification.Read = false
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

func (r *postgresNotificationRepository) GetByUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetByID(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &notification, nil
}

// MarkAsRead flips the read flag. The only permitted mutation besides
// deletion.
func (r *postgresNotificationRepository) MarkAsRead(id string) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"read": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *postgresNotificationRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *postgresNotificationRepository) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Count(&count).Error
	return count, err
}
