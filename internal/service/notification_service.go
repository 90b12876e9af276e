package service

import (
	"database/sql"
	"errors"

	"civicdesk/internal/model"

	"github.com/google/uuid"
)

// NotificationStore is the slice of the notification repository the service
// depends on.
type NotificationStore interface {
	GetByUserID(userID uuid.UUID) ([]model.Notification, error)
	GetUnreadCount(userID uuid.UUID) (int, error)
	MarkAsRead(notificationID, userID uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
}

type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) GetUserNotifications(userID string) (*model.NotificationListResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ValidationError{Field: "userId"}
	}

	notifications, err := s.notifications.GetByUserID(uid)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	unread, err := s.notifications.GetUnreadCount(uid)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) MarkAsRead(notificationID, userID string) error {
	nid, err := uuid.Parse(notificationID)
	if err != nil {
		return ErrNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return &ValidationError{Field: "userId"}
	}

	if err := s.notifications.MarkAsRead(nid, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return &ValidationError{Field: "userId"}
	}
	return s.notifications.MarkAllAsRead(uid)
}
