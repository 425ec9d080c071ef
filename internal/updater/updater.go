// Package updater checks GitHub for newer alpha-term releases. It only
// reports availability; installation is left to the user.
package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/neonalpha/alpha-term/pkg/version"
)

// DefaultReleaseURL is the GitHub latest-release endpoint.
const DefaultReleaseURL = "https://api.github.com/repos/dougfour/alpha-term/releases/latest"

// cacheFileName stores the last check result inside the config directory.
const cacheFileName = "update-check.json"

// checkInterval throttles unforced checks.
const checkInterval = 24 * time.Hour

// Result is the outcome of an update check.
type Result struct {
	HasUpdate     bool
	LatestVersion string
}

type cacheData struct {
	LastCheck   int64  `json:"lastCheck"`
	LastVersion string `json:"lastVersion"`
}

// Checker performs throttled update checks.
type Checker struct {
	releaseURL string
	cachePath  string
	httpClient *http.Client
}

// NewChecker creates a checker caching under the given config directory.
func NewChecker(dir string) *Checker {
	return &Checker{
		releaseURL: DefaultReleaseURL,
		cachePath:  filepath.Join(dir, cacheFileName),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetReleaseURL overrides the release endpoint (used by tests).
func (c *Checker) SetReleaseURL(url string) {
	c.releaseURL = url
}

// Check looks for a newer release. Unforced checks are served from a 24h
// cache. Honors NO_UPDATE_CHECK=1. Never returns an error for network
// failures; an unreachable release endpoint just means "no update".
func (c *Checker) Check(force bool) Result {
	if os.Getenv("NO_UPDATE_CHECK") == "1" {
		return Result{}
	}

	current := currentVersion()

	if !force {
		if cache := c.readCache(); cache != nil {
			if time.Since(time.UnixMilli(cache.LastCheck)) < checkInterval {
				return Result{
					HasUpdate:     compareVersions(cache.LastVersion, current) > 0,
					LatestVersion: cache.LastVersion,
				}
			}
		}
	}

	latest, err := c.fetchLatest()
	if err != nil {
		return Result{}
	}

	c.writeCache(&cacheData{
		LastCheck:   time.Now().UnixMilli(),
		LastVersion: latest,
	})

	return Result{
		HasUpdate:     compareVersions(latest, current) > 0,
		LatestVersion: latest,
	}
}

func (c *Checker) fetchLatest() (string, error) {
	resp, err := c.httpClient.Get(c.releaseURL)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release endpoint status %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}

func (c *Checker) readCache() *cacheData {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return nil
	}
	var cache cacheData
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil
	}
	return &cache
}

func (c *Checker) writeCache(cache *cacheData) {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o700); err != nil {
		return
	}
	os.WriteFile(c.cachePath, data, 0o600)
}

// currentVersion returns the build version, or "0.0.0" for dev builds so
// any tagged release counts as newer.
func currentVersion() string {
	v := version.Short()
	if v == "" || v == "dev" {
		return "0.0.0"
	}
	return strings.TrimPrefix(v, "v")
}

// compareVersions compares dotted version strings numerically.
// Returns 1 if a > b, -1 if a < b, 0 if equal.
func compareVersions(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")

	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		va, vb := 0, 0
		if i < len(pa) {
			va, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			vb, _ = strconv.Atoi(pb[i])
		}
		if va > vb {
			return 1
		}
		if va < vb {
			return -1
		}
	}
	return 0
}
