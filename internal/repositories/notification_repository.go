package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"corpmatch_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Константы типов уведомлений
const (
	NotificationTypeNewMatch         = "new_match"
	NotificationTypeNewMessage       = "new_message"
	NotificationTypeMeetingCreated   = "meeting_created"
	NotificationTypeMeetingConfirmed = "meeting_confirmed"
	NotificationTypePaymentCompleted = "payment_completed"
	NotificationTypeCabBooked        = "cab_booked"
)

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	FindNotificationByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)
	DeleteReadNotifications(userID string, olderThan time.Time) error

	// Factory methods для частых типов
	CreateNewMatchNotification(userID, matchID, partnerName string) error
	CreateNewMessageNotification(recipientID, senderID, senderName string) error
	CreateMeetingNotification(userID, meetingID, notifType, title, message string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	now := time.Now()
	result := r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) DeleteReadNotifications(userID string, olderThan time.Time) error {
	return r.db.Delete(&models.Notification{},
		"user_id = ? AND is_read = ? AND created_at < ?", userID, true, olderThan).Error
}

// --- Factory methods ---

func (r *NotificationRepositoryImpl) CreateNewMatchNotification(userID, matchID, partnerName string) error {
	data, _ := json.Marshal(map[string]string{"match_id": matchID})
	return r.CreateNotification(&models.Notification{
		UserID:  userID,
		Type:    NotificationTypeNewMatch,
		Title:   "It's a match!",
		Message: fmt.Sprintf("You and %s liked each other", partnerName),
		Data:    datatypes.JSON(data),
	})
}

func (r *NotificationRepositoryImpl) CreateNewMessageNotification(recipientID, senderID, senderName string) error {
	data, _ := json.Marshal(map[string]string{"sender_id": senderID})
	return r.CreateNotification(&models.Notification{
		UserID:  recipientID,
		Type:    NotificationTypeNewMessage,
		Title:   "New message",
		Message: fmt.Sprintf("%s sent you a message", senderName),
		Data:    datatypes.JSON(data),
	})
}

func (r *NotificationRepositoryImpl) CreateMeetingNotification(userID, meetingID, notifType, title, message string) error {
	data, _ := json.Marshal(map[string]string{"meeting_id": meetingID})
	return r.CreateNotification(&models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    datatypes.JSON(data),
	})
}
