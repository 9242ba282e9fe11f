package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"paywall-app/internal/domain/session"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

type Claims struct {
	Email     string    `json:"email"`
	SessionID string    `json:"sid"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Sessions is the server-side registry of refresh sessions.
type Sessions interface {
	Create(ctx context.Context, sessionID, userID string) error
	Exists(ctx context.Context, sessionID, userID string) (bool, error)
	Touch(ctx context.Context, sessionID, userID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// Service implements session.IdentityStore with HS256 JWTs.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	sessions   Sessions
	now        func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration, sessions Sessions) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		sessions:   sessions,
		now:        time.Now,
	}
}

// WithClock is used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Issue(ctx context.Context, id session.Identity) (session.Credential, error) {
	sid := uuid.NewString()
	if err := s.sessions.Create(ctx, sid, id.UserID); err != nil {
		return session.Credential{}, err
	}
	return s.sign(id, sid)
}

// Verify also requires the token's session to be live in the registry.
func (s *Service) Verify(ctx context.Context, accessToken string) (session.Verified, error) {
	claims, err := s.parse(accessToken, TokenTypeAccess)
	if err != nil {
		return session.Verified{}, err
	}
	live, err := s.sessions.Exists(ctx, claims.SessionID, claims.Subject)
	if err != nil {
		return session.Verified{}, err
	}
	if !live {
		return session.Verified{}, fmt.Errorf("session revoked: %w", session.ErrInvalidCredential)
	}
	return session.Verified{
		Identity:  session.Identity{UserID: claims.Subject, Email: claims.Email},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (session.Identity, session.Credential, error) {
	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return session.Identity{}, session.Credential{}, err
	}

	live, err := s.sessions.Touch(ctx, claims.SessionID, claims.Subject)
	if err != nil {
		return session.Identity{}, session.Credential{}, err
	}
	if !live {
		return session.Identity{}, session.Credential{}, fmt.Errorf("session revoked: %w", session.ErrInvalidCredential)
	}

	id := session.Identity{UserID: claims.Subject, Email: claims.Email}
	cred, err := s.sign(id, claims.SessionID)
	if err != nil {
		return session.Identity{}, session.Credential{}, err
	}
	return id, cred, nil
}

// Revoke accepts expired refresh tokens so that sign-out always works.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(refreshToken, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.TokenType != TokenTypeRefresh || claims.SessionID == "" {
		return fmt.Errorf("revoke: %w", session.ErrInvalidCredential)
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

func (s *Service) sign(id session.Identity, sid string) (session.Credential, error) {
	now := s.now()

	access, err := s.signClaims(id, sid, TokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return session.Credential{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.signClaims(id, sid, TokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return session.Credential{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return session.Credential{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) signClaims(id session.Identity, sid string, typ TokenType, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		Email:     id.Email,
		SessionID: sid,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parse(raw string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrInvalidCredential, err)
	}
	if !token.Valid || claims.TokenType != want || claims.Subject == "" || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: unexpected token", session.ErrInvalidCredential)
	}
	return claims, nil
}

func (s *Service) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return s.secret, nil
}
