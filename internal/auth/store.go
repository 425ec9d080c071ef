// Package auth manages the on-disk credential store for alpha-term.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neonalpha/alpha-term/internal/api"
)

// tokenFileName is the credential file inside the config directory.
const tokenFileName = "token"

// Store reads and writes the token file. The file holds either a JSON
// token pair or, for installs predating refresh tokens, a raw access
// token string.
type Store struct {
	path string
}

// NewStore creates a credential store rooted at the given config directory.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, tokenFileName)}
}

// Path returns the token file path.
func (s *Store) Path() string {
	return s.path
}

// LoadTokens reads the stored token pair. Returns (nil, nil) when no
// credentials are stored.
func (s *Store) LoadTokens() (*api.Tokens, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, nil
	}

	var tokens api.Tokens
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		// Legacy format: the file is the bare access token.
		return &api.Tokens{AccessToken: raw}, nil
	}
	return &tokens, nil
}

// SaveTokens persists the token pair with owner-only permissions.
func (s *Store) SaveTokens(tokens *api.Tokens) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the token file. Missing files are not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// LoggedIn reports whether a usable access token is stored.
func (s *Store) LoggedIn() bool {
	tokens, err := s.LoadTokens()
	return err == nil && tokens != nil && tokens.AccessToken != ""
}
