package access

import "paywall-app/internal/domain/subscriptions"

// Facts are the inputs of a decision. The subscription standing is fetched
// lazily so that earlier rules never touch the store.
type Facts struct {
	Paid          bool
	Authenticated bool
	Subscription  func() subscriptions.Standing

	standing *subscriptions.Standing
}

func (f *Facts) subscription() subscriptions.Standing {
	if f.standing == nil {
		s := subscriptions.StandingUnavailable
		if f.Subscription != nil {
			s = f.Subscription()
		}
		f.standing = &s
	}
	return *f.standing
}

type rule struct {
	reason  Reason
	granted bool
	applies func(f *Facts) bool
}

// rules are evaluated in order and the first match wins. The order decides
// which reason is reported, so it is part of the contract.
var rules = []rule{
	{
		reason:  ReasonPublicPost,
		granted: true,
		applies: func(f *Facts) bool { return !f.Paid },
	},
	{
		reason:  ReasonNotAuthenticated,
		granted: false,
		applies: func(f *Facts) bool { return !f.Authenticated },
	},
	{
		reason:  ReasonIsPaid,
		granted: true,
		applies: func(f *Facts) bool { return f.subscription() == subscriptions.StandingActive },
	},
	{
		reason:  ReasonNoSubscription,
		granted: false,
		applies: func(f *Facts) bool {
			switch f.subscription() {
			case subscriptions.StandingNotFound,
				subscriptions.StandingInactive,
				subscriptions.StandingUnavailable:
				return true
			}
			return false
		},
	},
}

// Evaluate applies the rule table to f.
func Evaluate(f Facts) Decision {
	for _, r := range rules {
		if r.applies(&f) {
			return Decision{Granted: r.granted, Reason: r.reason}
		}
	}
	// Unknown standing: fail closed.
	return Deny(ReasonNoSubscription)
}
