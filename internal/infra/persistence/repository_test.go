package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paywall-app/database"
	"paywall-app/internal/domain/audit"
	"paywall-app/internal/domain/subscriptions"
	"paywall-app/internal/domain/users"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	hash := "hash"
	u := &users.User{Email: "a@b.co", PasswordHash: &hash, AuthProvider: users.ProviderLocal}
	require.NoError(t, repo.Create(ctx, u))
	assert.Len(t, u.ID, 36)

	t.Run("get by email", func(t *testing.T) {
		byEmail, err := repo.GetByEmail(ctx, "a@b.co")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &users.User{Email: "a@b.co", AuthProvider: users.ProviderLocal})
		assert.ErrorIs(t, err, users.ErrEmailTaken)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "missing@b.co")
		assert.ErrorIs(t, err, users.ErrNotFound)
		_, err = repo.GetByGoogleSub(ctx, "nope")
		assert.ErrorIs(t, err, users.ErrNotFound)
	})

	t.Run("save links google subject", func(t *testing.T) {
		sub := "google-1"
		u.GoogleSub = &sub
		require.NoError(t, repo.Save(ctx, u))

		found, err := repo.GetByGoogleSub(ctx, "google-1")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
	})

	t.Run("profile", func(t *testing.T) {
		require.NoError(t, repo.CreateProfile(ctx, &users.Profile{ID: u.ID, FullName: "Jane"}))
		var p users.Profile
		require.NoError(t, db.First(&p, "id = ?", u.ID).Error)
		assert.Equal(t, "Jane", p.FullName)
	})
}

func TestSubscriptionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, subscriptions.NewFree("free-user")))

	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, &subscriptions.Subscription{
		UserID:             "paid-user",
		IsPaid:             true,
		SubscriptionStatus: subscriptions.StatusPaid,
		ExpiresAt:          &expires,
	}))

	free, err := repo.GetByUserID(ctx, "free-user")
	require.NoError(t, err)
	assert.False(t, free.IsPaid)
	assert.Equal(t, subscriptions.StatusFree, free.SubscriptionStatus)
	assert.Nil(t, free.ExpiresAt)

	paid, err := repo.GetByUserID(ctx, "paid-user")
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.ExpiresAt)
	assert.True(t, expires.Equal(paid.ExpiresAt.UTC()))
	assert.True(t, paid.IsActive(time.Now()))

	_, err = repo.GetByUserID(ctx, "nobody")
	assert.ErrorIs(t, err, subscriptions.ErrNotFound)
}

func TestSubscriptionRepository_ClosedDBIsNotNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.GetByUserID(context.Background(), "u")
	require.Error(t, err)
	assert.False(t, errors.Is(err, subscriptions.ErrNotFound))
}

func TestAccessLogRepository_Append(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccessLogRepository(db)
	ctx := context.Background()

	userID := "u-1"
	require.NoError(t, repo.Append(ctx, &audit.AccessLog{UserID: &userID, PostSlug: "p", AccessGranted: true, Reason: "is_paid"}))
	require.NoError(t, repo.Append(ctx, &audit.AccessLog{PostSlug: "p", AccessGranted: false, Reason: "not_authenticated"}))

	var logs []audit.AccessLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "u-1", *logs[0].UserID)
	assert.Nil(t, logs[1].UserID)
	assert.False(t, logs[1].AccessGranted)
	assert.Equal(t, "not_authenticated", logs[1].Reason)
	assert.False(t, logs[1].CreatedAt.IsZero())
}
