package api

// Platform identifies the social network an alert came from.
type Platform string

const (
	PlatformTwitter Platform = "twitter"
	PlatformBluesky Platform = "bluesky"
	PlatformNostr   Platform = "nostr"
)

// Alert is one post surfaced by a monitor. The wire field names predate
// multi-platform support, hence tweet_id and tweet_text.
type Alert struct {
	ID           string   `json:"id"`
	MonitorID    string   `json:"monitor_id"`
	Platform     Platform `json:"platform"`
	PostID       string   `json:"tweet_id"`
	Text         string   `json:"tweet_text"`
	AuthorHandle string   `json:"author_handle"`
	AuthorName   string   `json:"author_name"`
	AuthorAvatar string   `json:"author_avatar"`
	CreatedAt    string   `json:"created_at"`
}

// EffectivePlatform returns the alert's platform, defaulting to twitter
// for records that predate the platform field.
func (a *Alert) EffectivePlatform() Platform {
	if a.Platform == "" {
		return PlatformTwitter
	}
	return a.Platform
}

// Monitor is a watch rule configured on the dashboard.
type Monitor struct {
	ID          string `json:"id"`
	MonitorType string `json:"monitor_type"`
	Target      string `json:"target"`
	Priority    string `json:"priority"`
	Active      bool   `json:"active"`
}

// Me is the identity of the current session.
type Me struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	SubscriptionTier string `json:"subscription_tier"`
}

// Tokens is the access and refresh token pair issued at login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}
