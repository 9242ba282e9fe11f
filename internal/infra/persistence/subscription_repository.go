package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"paywall-app/internal/domain/subscriptions"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetByUserID reads at most one row.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := r.db.WithContext(ctx).
		Select("user_id", "is_paid", "subscription_status", "expires_at").
		Where("user_id = ?", userID).
		Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, subscriptions.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscriptions.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}
