package updater

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"2.0", "1.9.9", 1},
		{"1.10.0", "1.9.0", 1},
		{"1.0", "1.0.0", 0},
		{"0.0.0", "1.0.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			if got := compareVersions(tt.a, tt.b); got != tt.want {
				t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCheckReportsNewerRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "v9.9.9"}`)
	}))
	defer srv.Close()

	c := NewChecker(t.TempDir())
	c.SetReleaseURL(srv.URL)

	got := c.Check(true)
	if !got.HasUpdate {
		t.Error("HasUpdate = false, want true for a newer release")
	}
	if got.LatestVersion != "9.9.9" {
		t.Errorf("LatestVersion = %q, want 9.9.9 (v prefix stripped)", got.LatestVersion)
	}
}

func TestCheckUsesCacheWithin24Hours(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"tag_name": "v9.9.9"}`)
	}))
	defer srv.Close()

	c := NewChecker(t.TempDir())
	c.SetReleaseURL(srv.URL)

	c.Check(true)
	got := c.Check(false)

	if hits != 1 {
		t.Errorf("release endpoint hit %d times, want 1 (second check served from cache)", hits)
	}
	if !got.HasUpdate || got.LatestVersion != "9.9.9" {
		t.Errorf("cached Check() = %+v", got)
	}
}

func TestCheckForceBypassesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"tag_name": "v9.9.9"}`)
	}))
	defer srv.Close()

	c := NewChecker(t.TempDir())
	c.SetReleaseURL(srv.URL)

	c.Check(true)
	c.Check(true)

	if hits != 2 {
		t.Errorf("release endpoint hit %d times, want 2 with force", hits)
	}
}

func TestCheckHonorsOptOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("release endpoint hit despite NO_UPDATE_CHECK")
	}))
	defer srv.Close()

	t.Setenv("NO_UPDATE_CHECK", "1")

	c := NewChecker(t.TempDir())
	c.SetReleaseURL(srv.URL)

	if got := c.Check(true); got.HasUpdate {
		t.Errorf("Check() = %+v, want zero result", got)
	}
}

func TestCheckUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewChecker(t.TempDir())
	c.SetReleaseURL(srv.URL)

	if got := c.Check(true); got.HasUpdate {
		t.Errorf("Check() = %+v, want zero result on endpoint failure", got)
	}
}
