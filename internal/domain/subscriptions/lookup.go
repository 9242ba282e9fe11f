package subscriptions

import (
	"context"
	"errors"
	"time"

	"paywall-app/internal/shared/logger"
)

// Standing is the outcome of a subscription lookup at a point in time.
type Standing int

const (
	StandingNotFound Standing = iota
	StandingInactive
	StandingActive
	// StandingUnavailable means the store could not answer.
	StandingUnavailable
)

func (s Standing) String() string {
	switch s {
	case StandingNotFound:
		return "not_found"
	case StandingInactive:
		return "inactive"
	case StandingActive:
		return "active"
	case StandingUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Lookup struct {
	store Store
	log   logger.Interface
}

func NewLookup(store Store, log logger.Interface) *Lookup {
	return &Lookup{store: store, log: log}
}

// Get returns the user's subscription row and its standing at now. The row
// is nil unless the standing is active or inactive.
func (l *Lookup) Get(ctx context.Context, userID string, now time.Time) (*Subscription, Standing) {
	sub, err := l.store.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, StandingNotFound
	case err != nil:
		l.log.Warnw("failed to fetch subscription", "user_id", userID, "error", err)
		return nil, StandingUnavailable
	case sub == nil:
		return nil, StandingNotFound
	case sub.IsActive(now):
		return sub, StandingActive
	default:
		return sub, StandingInactive
	}
}

// Standing is Get without the row.
func (l *Lookup) Standing(ctx context.Context, userID string, now time.Time) Standing {
	_, standing := l.Get(ctx, userID, now)
	return standing
}
