package session

import (
	"context"
	"errors"
	"time"

	"paywall-app/internal/shared/logger"
)

// Resolution is the outcome of resolving a request's credential.
// Identity is nil for anonymous visitors.
type Resolution struct {
	Identity  *Identity
	Refreshed *Credential
}

func (r Resolution) UserID() string {
	if r.Identity == nil {
		return ""
	}
	return r.Identity.UserID
}

type Resolver struct {
	identities  IdentityStore
	log         logger.Interface
	renewWithin time.Duration
	now         func() time.Time
}

type ResolverOption func(*Resolver)

// WithRenewWindow sets how close to expiry an access token gets rotated.
func WithRenewWindow(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.renewWithin = d }
}

func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

func NewResolver(identities IdentityStore, log logger.Interface, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		identities:  identities,
		log:         log.Named("session"),
		renewWithin: 5 * time.Minute,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: every problem with the credential resolves to an
// anonymous visitor. A rotated credential is written back to store.
func (r *Resolver) Resolve(ctx context.Context, store Store) Resolution {
	raw, ok := store.Get(CookieName)
	if !ok || raw == "" {
		return Resolution{}
	}

	cred, err := Decode(raw)
	if err != nil {
		r.log.Debugw("discarding malformed session cookie")
		store.Delete(CookieName)
		return Resolution{}
	}

	verified, err := r.identities.Verify(ctx, cred.AccessToken)
	switch {
	case err == nil && verified.ExpiresAt.Sub(r.now()) > r.renewWithin:
		id := verified.Identity
		return Resolution{Identity: &id}
	case err == nil:
		// Still valid but close to expiry.
		id := verified.Identity
		return r.refresh(ctx, store, cred, &id)
	case errors.Is(err, ErrInvalidCredential):
		return r.refresh(ctx, store, cred, nil)
	default:
		r.log.Warnw("failed to verify session", "error", err)
		return Resolution{}
	}
}

// refresh rotates cred. current is the identity from a still-valid access
// token, if any, and is kept only when the store cannot answer.
func (r *Resolver) refresh(ctx context.Context, store Store, cred Credential, current *Identity) Resolution {
	if cred.RefreshToken == "" {
		if current == nil {
			store.Delete(CookieName)
		}
		return Resolution{Identity: current}
	}

	id, next, err := r.identities.Refresh(ctx, cred.RefreshToken)
	switch {
	case err == nil:
		store.Set(CookieName, next.Encode())
		return Resolution{Identity: &id, Refreshed: &next}
	case errors.Is(err, ErrInvalidCredential):
		// The session was revoked or expired server-side.
		store.Delete(CookieName)
		return Resolution{}
	default:
		r.log.Warnw("failed to refresh session", "error", err)
		return Resolution{Identity: current}
	}
}

// Establish issues a credential for id and stores it.
func (r *Resolver) Establish(ctx context.Context, store Store, id Identity) error {
	cred, err := r.identities.Issue(ctx, id)
	if err != nil {
		return err
	}
	store.Set(CookieName, cred.Encode())
	return nil
}

// End revokes the stored credential, if any, and deletes it from store.
// Deletion happens even when revocation fails.
func (r *Resolver) End(ctx context.Context, store Store) {
	defer store.Delete(CookieName)

	raw, ok := store.Get(CookieName)
	if !ok {
		return
	}
	cred, err := Decode(raw)
	if err != nil || cred.RefreshToken == "" {
		return
	}
	if err := r.identities.Revoke(ctx, cred.RefreshToken); err != nil {
		r.log.Warnw("failed to revoke session", "error", err)
	}
}
