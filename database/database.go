package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"paywall-app/internal/domain/audit"
	"paywall-app/internal/domain/subscriptions"
	"paywall-app/internal/domain/users"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

// Init opens the process-wide connection. Later calls return the first result.
func Init(dsn string) (*gorm.DB, error) {
	dbOnce.Do(func() {
		if dsn == "" {
			dbErr = errors.New("DB_URL not set")
			return
		}
		db, dbErr = Open(postgres.Open(dsn))
	})
	return db, dbErr
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return conn, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&users.User{},
		&users.Profile{},
		&subscriptions.Subscription{},
		&audit.AccessLog{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
