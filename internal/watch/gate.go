package watch

import (
	"context"
	"errors"

	"github.com/neonalpha/alpha-term/internal/api"
)

// Identity is the slice of the API client the session gate needs.
type Identity interface {
	Me(ctx context.Context) (*api.Me, error)
}

// SessionStatus is the result of the pre-watch subscription check.
type SessionStatus struct {
	Valid bool
	Tier  string
	// Message is the user-facing explanation when Valid is false.
	Message string
}

// ValidateSession checks the stored session against the identity endpoint.
// A tier of "free" or absent is rejected even though authentication
// succeeded: the watch feature is gated on subscription, not just login.
// Called exactly once before the scheduler starts.
func ValidateSession(ctx context.Context, id Identity) SessionStatus {
	me, err := id.Me(ctx)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrNotLoggedIn):
			return SessionStatus{Message: "Not logged in. Run 'alpha-term login' first."}
		case errors.Is(err, api.ErrUnauthorized):
			return SessionStatus{Message: "Invalid or expired token. Run 'alpha-term login' again."}
		default:
			return SessionStatus{Message: "Failed to validate subscription. Please try again."}
		}
	}

	tier := me.SubscriptionTier
	if tier == "" || tier == "free" {
		if tier == "" {
			tier = "free"
		}
		return SessionStatus{
			Tier: tier,
			Message: "Alpha-Term CLI requires Pro or Elite subscription.\n" +
				"Visit https://neonalpha.me/upgrade to upgrade.",
		}
	}

	return SessionStatus{Valid: true, Tier: tier}
}
