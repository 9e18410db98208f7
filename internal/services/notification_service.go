package services

import (
	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/pkg/apperrors"
)

type NotificationService interface {
	ListNotifications(userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)
}

type NotificationServiceImpl struct {
	notifRepo repositories.NotificationRepository
}

func NewNotificationService(notifRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notifRepo: notifRepo}
}

func (s *NotificationServiceImpl) ListNotifications(userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notifRepo.FindUserNotifications(userID, unreadOnly, limit, offset)
}

func (s *NotificationServiceImpl) MarkAsRead(userID, notificationID string) error {
	notif, err := s.notifRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if notif.UserID != userID {
		return apperrors.NewForbiddenError("notification belongs to another user")
	}
	return s.notifRepo.MarkAsRead(notificationID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(userID string) error {
	return s.notifRepo.MarkAllAsRead(userID)
}

func (s *NotificationServiceImpl) GetUnreadCount(userID string) (int64, error) {
	return s.notifRepo.GetUnreadCount(userID)
}
