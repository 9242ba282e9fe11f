package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paywall-app/internal/shared/logger"
)

type mockIdentityStore struct {
	VerifyFunc  func(ctx context.Context, accessToken string) (Verified, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (Identity, Credential, error)
	IssueFunc   func(ctx context.Context, id Identity) (Credential, error)
	RevokeFunc  func(ctx context.Context, refreshToken string) error

	refreshCalls int
	revoked      []string
}

func (m *mockIdentityStore) Verify(ctx context.Context, accessToken string) (Verified, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, accessToken)
	}
	return Verified{}, ErrInvalidCredential
}

func (m *mockIdentityStore) Refresh(ctx context.Context, refreshToken string) (Identity, Credential, error) {
	m.refreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return Identity{}, Credential{}, ErrInvalidCredential
}

func (m *mockIdentityStore) Issue(ctx context.Context, id Identity) (Credential, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, id)
	}
	return Credential{AccessToken: "a-" + id.UserID, RefreshToken: "r-" + id.UserID}, nil
}

func (m *mockIdentityStore) Revoke(ctx context.Context, refreshToken string) error {
	m.revoked = append(m.revoked, refreshToken)
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, refreshToken)
	}
	return nil
}

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newResolver(ids IdentityStore) *Resolver {
	return NewResolver(ids, logger.NewNop(), WithClock(func() time.Time { return now }))
}

func storeWith(c Credential) *MemoryStore {
	s := NewMemoryStore()
	s.Set(CookieName, c.Encode())
	return s
}

func TestCredential_EncodeDecode(t *testing.T) {
	c := Credential{AccessToken: "a", RefreshToken: "r"}
	got, err := Decode(c.Encode())
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = Decode("%%%not-base64")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = Decode(Credential{RefreshToken: "only-refresh"}.Encode())
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestResolver_NoCookieIsAnonymous(t *testing.T) {
	ids := &mockIdentityStore{}
	res := newResolver(ids).Resolve(context.Background(), NewMemoryStore())

	assert.Nil(t, res.Identity)
	assert.Equal(t, "", res.UserID())
	assert.Zero(t, ids.refreshCalls)
}

func TestResolver_MalformedCookieIsDeleted(t *testing.T) {
	store := NewMemoryStore()
	store.Set(CookieName, "garbage!")

	res := newResolver(&mockIdentityStore{}).Resolve(context.Background(), store)

	assert.Nil(t, res.Identity)
	_, ok := store.Get(CookieName)
	assert.False(t, ok)
}

func TestResolver_ValidAccessToken(t *testing.T) {
	ids := &mockIdentityStore{
		VerifyFunc: func(ctx context.Context, token string) (Verified, error) {
			assert.Equal(t, "access", token)
			return Verified{Identity: Identity{UserID: "u-1", Email: "a@b.co"}, ExpiresAt: now.Add(time.Hour)}, nil
		},
	}
	store := storeWith(Credential{AccessToken: "access", RefreshToken: "refresh"})

	res := newResolver(ids).Resolve(context.Background(), store)

	require.NotNil(t, res.Identity)
	assert.Equal(t, "u-1", res.UserID())
	assert.Nil(t, res.Refreshed)
	assert.Zero(t, ids.refreshCalls)
}

func TestResolver_ExpiredAccessTokenIsRefreshed(t *testing.T) {
	next := Credential{AccessToken: "access-2", RefreshToken: "refresh-2"}
	ids := &mockIdentityStore{
		VerifyFunc: func(ctx context.Context, token string) (Verified, error) {
			return Verified{}, fmt.Errorf("token expired: %w", ErrInvalidCredential)
		},
		RefreshFunc: func(ctx context.Context, token string) (Identity, Credential, error) {
			assert.Equal(t, "refresh", token)
			return Identity{UserID: "u-1"}, next, nil
		},
	}
	store := storeWith(Credential{AccessToken: "access", RefreshToken: "refresh"})

	res := newResolver(ids).Resolve(context.Background(), store)

	assert.Equal(t, "u-1", res.UserID())
	require.NotNil(t, res.Refreshed)
	assert.Equal(t, next, *res.Refreshed)
	raw, ok := store.Get(CookieName)
	require.True(t, ok)
	assert.Equal(t, next.Encode(), raw)
}

func TestResolver_NearExpiryRotates(t *testing.T) {
	ids := &mockIdentityStore{
		VerifyFunc: func(ctx context.Context, token string) (Verified, error) {
			return Verified{Identity: Identity{UserID: "u-1"}, ExpiresAt: now.Add(time.Minute)}, nil
		},
		RefreshFunc: func(ctx context.Context, token string) (Identity, Credential, error) {
			return Identity{UserID: "u-1"}, Credential{AccessToken: "new", RefreshToken: "r"}, nil
		},
	}

	res := newResolver(ids).Resolve(context.Background(), storeWith(Credential{AccessToken: "a", RefreshToken: "r"}))

	assert.Equal(t, "u-1", res.UserID())
	assert.NotNil(t, res.Refreshed)
	assert.Equal(t, 1, ids.refreshCalls)
}

func TestResolver_NearExpiryKeepsIdentityWhenRefreshFails(t *testing.T) {
	ids := &mockIdentityStore{
		VerifyFunc: func(ctx context.Context, token string) (Verified, error) {
			return Verified{Identity: Identity{UserID: "u-1"}, ExpiresAt: now.Add(time.Minute)}, nil
		},
		RefreshFunc: func(ctx context.Context, token string) (Identity, Credential, error) {
			return Identity{}, Credential{}, errors.New("redis: connection refused")
		},
	}
	store := storeWith(Credential{AccessToken: "a", RefreshToken: "r"})

	res := newResolver(ids).Resolve(context.Background(), store)

	assert.Equal(t, "u-1", res.UserID())
	assert.Nil(t, res.Refreshed)
	_, ok := store.Get(CookieName)
	assert.True(t, ok)
}

func TestResolver_NearExpiryRevokedRefreshIsAnonymous(t *testing.T) {
	ids := &mockIdentityStore{
		VerifyFunc: func(ctx context.Context, token string) (Verified, error) {
			return Verified{Identity: Identity{UserID: "u-1"}, ExpiresAt: now.Add(time.Minute)}, nil
		},
		RefreshFunc: func(ctx context.Context, token string) (Identity, Credential, error) {
			return Identity{}, Credential{}, fmt.Errorf("session revoked: %w", ErrInvalidCredential)
		},
	}
	store := storeWith(Credential{AccessToken: "a", RefreshToken: "r"})

	res := newResolver(ids).Resolve(context.Background(), store)

	assert.Nil(t, res.Identity)
	assert.Nil(t, res.Refreshed)
	_, ok := store.Get(CookieName)
	assert.False(t, ok)
}

func TestResolver_RevokedRefreshDeletesCookie(t *testing.T) {
	ids := &mockIdentityStore{}
	store := storeWith(Credential{AccessToken: "expired", RefreshToken: "revoked"})

	res := newResolver(ids).Resolve(context.Background(), store)

	assert.Nil(t, res.Identity)
	_, ok := store.Get(CookieName)
	assert.False(t, ok)
}

func TestResolver_StoreUnreachableIsAnonymousButKeepsCookie(t *testing.T) {
	ids := &mockIdentityStore{
		RefreshFunc: func(ctx context.Context, token string) (Identity, Credential, error) {
			return Identity{}, Credential{}, errors.New("redis: i/o timeout")
		},
	}
	store := storeWith(Credential{AccessToken: "expired", RefreshToken: "r"})

	res := newResolver(ids).Resolve(context.Background(), store)

	assert.Nil(t, res.Identity)
	_, ok := store.Get(CookieName)
	assert.True(t, ok)
}

func TestResolver_VerifyErrorIsAnonymous(t *testing.T) {
	ids := &mockIdentityStore{
		VerifyFunc: func(ctx context.Context, token string) (Verified, error) {
			return Verified{}, errors.New("key service unavailable")
		},
	}

	res := newResolver(ids).Resolve(context.Background(), storeWith(Credential{AccessToken: "a", RefreshToken: "r"}))

	assert.Nil(t, res.Identity)
	assert.Zero(t, ids.refreshCalls)
}

func TestResolver_EstablishAndEnd(t *testing.T) {
	ids := &mockIdentityStore{}
	r := newResolver(ids)
	store := NewMemoryStore()

	require.NoError(t, r.Establish(context.Background(), store, Identity{UserID: "u-7"}))
	raw, ok := store.Get(CookieName)
	require.True(t, ok)
	cred, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "a-u-7", cred.AccessToken)

	r.End(context.Background(), store)
	_, ok = store.Get(CookieName)
	assert.False(t, ok)
	assert.Equal(t, []string{"r-u-7"}, ids.revoked)
}

func TestResolver_EndDeletesEvenWhenRevokeFails(t *testing.T) {
	ids := &mockIdentityStore{RevokeFunc: func(ctx context.Context, token string) error {
		return errors.New("redis down")
	}}
	store := storeWith(Credential{AccessToken: "a", RefreshToken: "r"})

	newResolver(ids).End(context.Background(), store)

	_, ok := store.Get(CookieName)
	assert.False(t, ok)
}

func TestResolver_EstablishPropagatesIssueError(t *testing.T) {
	ids := &mockIdentityStore{IssueFunc: func(ctx context.Context, id Identity) (Credential, error) {
		return Credential{}, errors.New("sign failed")
	}}
	store := NewMemoryStore()

	err := newResolver(ids).Establish(context.Background(), store, Identity{UserID: "u"})
	assert.Error(t, err)
	_, ok := store.Get(CookieName)
	assert.False(t, ok)
}
