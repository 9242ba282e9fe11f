package access

// Reason is the machine-readable cause of a decision. It is surfaced to the
// client and written to the access log.
type Reason string

const (
	ReasonPublicPost       Reason = "public_post"
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonIsPaid           Reason = "is_paid"
	ReasonNoSubscription   Reason = "no_subscription"
)

// Decision is built fresh per request and never persisted directly.
type Decision struct {
	Granted bool   `json:"granted"`
	Reason  Reason `json:"reason"`
}

func Grant(reason Reason) Decision {
	return Decision{Granted: true, Reason: reason}
}

func Deny(reason Reason) Decision {
	return Decision{Granted: false, Reason: reason}
}
