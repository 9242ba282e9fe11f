package access

import (
	"context"
	"time"

	"paywall-app/internal/domain/content"
	"paywall-app/internal/domain/subscriptions"
)

// SubscriptionChecker is satisfied by *subscriptions.Lookup.
type SubscriptionChecker interface {
	Standing(ctx context.Context, userID string, now time.Time) subscriptions.Standing
}

// Engine decides whether a visitor may read a post in full. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	subs SubscriptionChecker
	now  func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now for expiry comparisons.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(subs SubscriptionChecker, opts ...Option) *Engine {
	e := &Engine{subs: subs, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide never fails: collaborator errors become a deny.
// An empty userID is an anonymous visitor.
func (e *Engine) Decide(ctx context.Context, userID string, post *content.Post) Decision {
	return Evaluate(Facts{
		Paid:          content.IsPaid(post),
		Authenticated: userID != "",
		Subscription: func() subscriptions.Standing {
			return e.subs.Standing(ctx, userID, e.now())
		},
	})
}
