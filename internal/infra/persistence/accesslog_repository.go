package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"paywall-app/internal/domain/audit"
)

type AccessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) *AccessLogRepository {
	return &AccessLogRepository{db: db}
}

func (r *AccessLogRepository) Append(ctx context.Context, entry *audit.AccessLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append access log: %w", err)
	}
	return nil
}
