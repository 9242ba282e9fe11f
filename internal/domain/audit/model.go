package audit

import (
	"context"
	"time"
)

// AccessLog is an append-only record of one paywall decision.
type AccessLog struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        *string `gorm:"column:user_id;type:varchar(36);index"`
	PostSlug      string  `gorm:"column:post_slug;not null;index"`
	AccessGranted bool    `gorm:"column:access_granted;not null"`
	Reason        string  `gorm:"column:reason;type:varchar(32);not null"`
	CreatedAt     time.Time
}

func (AccessLog) TableName() string {
	return "access_logs"
}

// Store is write-only: the paywall never reads its own log.
type Store interface {
	Append(ctx context.Context, entry *AccessLog) error
}
