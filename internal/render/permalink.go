package render

import (
	"strings"

	"github.com/neonalpha/alpha-term/internal/api"
)

// permalinkBuilders maps each platform to its permalink scheme.
var permalinkBuilders = map[api.Platform]func(*api.Alert) string{
	api.PlatformTwitter: func(a *api.Alert) string {
		return "https://x.com/" + a.AuthorHandle + "/status/" + a.PostID
	},
	api.PlatformBluesky: func(a *api.Alert) string {
		// Bluesky post IDs are AT URIs; the record key is the last
		// path segment.
		rkey := a.PostID
		if i := strings.LastIndex(a.PostID, "/"); i >= 0 && i < len(a.PostID)-1 {
			rkey = a.PostID[i+1:]
		}
		return "https://bsky.app/profile/" + a.AuthorHandle + "/post/" + rkey
	},
	api.PlatformNostr: func(a *api.Alert) string {
		return "https://njump.me/" + a.PostID
	},
}

// PostURL builds the permalink for an alert. Unknown platforms yield an
// empty string.
func PostURL(a *api.Alert) string {
	build, ok := permalinkBuilders[a.EffectivePlatform()]
	if !ok {
		return ""
	}
	return build(a)
}
