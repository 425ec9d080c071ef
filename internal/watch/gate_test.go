package watch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neonalpha/alpha-term/internal/api"
)

type fakeIdentity struct {
	me  *api.Me
	err error
}

func (f *fakeIdentity) Me(ctx context.Context) (*api.Me, error) {
	return f.me, f.err
}

func TestValidateSession(t *testing.T) {
	tests := []struct {
		name        string
		identity    fakeIdentity
		wantValid   bool
		wantTier    string
		wantMessage string
	}{
		{
			name:      "pro tier is valid",
			identity:  fakeIdentity{me: &api.Me{SubscriptionTier: "pro"}},
			wantValid: true,
			wantTier:  "pro",
		},
		{
			name:      "elite tier is valid",
			identity:  fakeIdentity{me: &api.Me{SubscriptionTier: "elite"}},
			wantValid: true,
			wantTier:  "elite",
		},
		{
			name:        "free tier is rejected",
			identity:    fakeIdentity{me: &api.Me{SubscriptionTier: "free"}},
			wantTier:    "free",
			wantMessage: "Pro or Elite",
		},
		{
			name:        "missing tier treated as free",
			identity:    fakeIdentity{me: &api.Me{}},
			wantTier:    "free",
			wantMessage: "Pro or Elite",
		},
		{
			name:        "not logged in",
			identity:    fakeIdentity{err: api.ErrNotLoggedIn},
			wantMessage: "Not logged in",
		},
		{
			name:        "expired token",
			identity:    fakeIdentity{err: api.ErrUnauthorized},
			wantMessage: "Invalid or expired token",
		},
		{
			name:        "network failure",
			identity:    fakeIdentity{err: errors.New("connection refused")},
			wantMessage: "Failed to validate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSession(context.Background(), &tt.identity)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", got.Tier, tt.wantTier)
			}
			if tt.wantMessage != "" && !strings.Contains(got.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want it to contain %q", got.Message, tt.wantMessage)
			}
		})
	}
}
