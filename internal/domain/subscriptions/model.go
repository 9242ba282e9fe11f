package subscriptions

import (
	"context"
	"errors"
	"time"
)

const (
	StatusFree = "free"
	StatusPaid = "paid"
)

var ErrNotFound = errors.New("subscription not found")

// Subscription is one row of user_subscriptions. The paywall only reads it;
// rows are created at signup and upgraded out of band.
type Subscription struct {
	UserID             string     `gorm:"column:user_id;primaryKey;type:varchar(36)" json:"-"`
	IsPaid             bool       `gorm:"column:is_paid;not null" json:"is_paid"`
	SubscriptionStatus string     `gorm:"column:subscription_status;type:varchar(20);not null" json:"subscription_status"`
	ExpiresAt          *time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt          time.Time  `json:"-"`
	UpdatedAt          time.Time  `json:"-"`
}

func (Subscription) TableName() string {
	return "user_subscriptions"
}

// NewFree is the row every new account starts with.
func NewFree(userID string) *Subscription {
	return &Subscription{
		UserID:             userID,
		IsPaid:             false,
		SubscriptionStatus: StatusFree,
	}
}

// IsActive requires all three: the paid flag, status "paid", and no expiry
// or an expiry strictly after now.
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.IsPaid &&
		s.SubscriptionStatus == StatusPaid &&
		(s.ExpiresAt == nil || s.ExpiresAt.After(now))
}

// Store reads one subscription row per user. Implementations return
// ErrNotFound when the user has no row.
type Store interface {
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)
}

// Writer creates subscription rows. Only signup needs it.
type Writer interface {
	Create(ctx context.Context, sub *Subscription) error
}
