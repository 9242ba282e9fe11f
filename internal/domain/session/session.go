package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// CookieName is the single cookie holding the encoded Credential.
const CookieName = "pw-auth-token"

var ErrInvalidCredential = errors.New("invalid session credential")

// Credential is what a visitor presents to prove an earlier sign-in.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c Credential) Encode() string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func Decode(raw string) (Credential, error) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Credential{}, ErrInvalidCredential
	}
	var c Credential
	if err := json.Unmarshal(b, &c); err != nil || c.AccessToken == "" {
		return Credential{}, ErrInvalidCredential
	}
	return c, nil
}

type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

type Verified struct {
	Identity
	ExpiresAt time.Time
}

// IdentityStore verifies, issues and rotates credentials. Verify and
// Refresh return ErrInvalidCredential (possibly wrapped) for credentials
// that can never succeed; any other error means the store could not answer.
type IdentityStore interface {
	Verify(ctx context.Context, accessToken string) (Verified, error)
	Refresh(ctx context.Context, refreshToken string) (Identity, Credential, error)
	Issue(ctx context.Context, id Identity) (Credential, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// Store is a scoped key-value view of the credential transport, usually the
// request's cookies.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}
