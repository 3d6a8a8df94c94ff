package services

import (
	"context"
	"errors"

	"github.com/transit-watch/api-go/models"
	"gorm.io/gorm"
)

// SubscriptionService keeps web-push registrations, one row per device.
type SubscriptionService interface {
	// SubscribeDevice registers or refreshes a device's push endpoint.
	// An existing row for the device id is updated in place.
	SubscribeDevice(ctx context.Context, sub *models.Subscription) error

	// UnsubscribeDevice removes the registration for a device id owned
	// by the given user.
	UnsubscribeDevice(ctx context.Context, deviceID string, userID uint) error
}

type subscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) SubscriptionService {
	return &subscriptionService{db: db}
}

func (s *subscriptionService) SubscribeDevice(ctx context.Context, sub *models.Subscription) error {
	var existing models.Subscription
	err := s.db.WithContext(ctx).Where("device_id = ?", sub.DeviceID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(sub).Error
	}
	if err != nil {
		return err
	}

	// Same device re-registering: replace endpoint and keys.
	updates := map[string]interface{}{
		"endpoint":   sub.Endpoint,
		"auth_key":   sub.AuthKey,
		"p256dh_key": sub.P256dhKey,
		"user_id":    sub.UserID,
	}

	return s.db.WithContext(ctx).Model(&existing).Updates(updates).Error
}

func (s *subscriptionService) UnsubscribeDevice(ctx context.Context, deviceID string, userID uint) error {
	return s.db.WithContext(ctx).
		Where("device_id = ? AND user_id = ?", deviceID, userID).
		Delete(&models.Subscription{}).Error
}
