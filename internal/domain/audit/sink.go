package audit

import (
	"context"
	"time"

	"paywall-app/internal/domain/access"
	"paywall-app/internal/shared/goroutine"
	"paywall-app/internal/shared/logger"
)

// Observer receives decision and failure counts. Implemented by the metrics adapter.
type Observer interface {
	ObserveDecision(d access.Decision)
	ObserveAuditFailure()
}

type nopObserver struct{}

func (nopObserver) ObserveDecision(access.Decision) {}
func (nopObserver) ObserveAuditFailure()            {}

// Sink records decisions best-effort. Failures are logged and swallowed.
type Sink struct {
	store    Store
	log      logger.Interface
	observer Observer
	async    bool
	timeout  time.Duration
}

type SinkOption func(*Sink)

// WithAsync makes Record return before the write is issued.
func WithAsync(async bool) SinkOption {
	return func(s *Sink) { s.async = async }
}

func WithObserver(o Observer) SinkOption {
	return func(s *Sink) {
		if o != nil {
			s.observer = o
		}
	}
}

func NewSink(store Store, log logger.Interface, opts ...SinkOption) *Sink {
	s := &Sink{
		store:    store,
		log:      log.Named("audit"),
		observer: nopObserver{},
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record must be called only after the decision is final.
func (s *Sink) Record(ctx context.Context, userID string, postSlug string, d access.Decision) {
	s.observer.ObserveDecision(d)

	entry := &AccessLog{
		PostSlug:      postSlug,
		AccessGranted: d.Granted,
		Reason:        string(d.Reason),
	}
	if userID != "" {
		entry.UserID = &userID
	}

	if !s.async {
		s.write(ctx, entry)
		return
	}

	// The request may finish first; the write gets its own deadline.
	detached := context.WithoutCancel(ctx)
	goroutine.SafeGo(s.log, "audit-record", func() {
		wctx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()
		s.write(wctx, entry)
	})
}

func (s *Sink) write(ctx context.Context, entry *AccessLog) {
	if err := s.store.Append(ctx, entry); err != nil {
		s.observer.ObserveAuditFailure()
		s.log.Errorw("failed to log access attempt",
			"post_slug", entry.PostSlug,
			"reason", entry.Reason,
			"error", err,
		)
	}
}
