// Package client is a thin Go client for the Artfolio API. Session
// state is held in an explicit AppState value with a load-or-default
// init and a clear teardown; there is no ambient singleton.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AppState is the persisted session for one API user.
type AppState struct {
	BaseURL  string `json:"base_url"`
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// LoggedIn reports whether the state carries a session token.
func (s *AppState) LoggedIn() bool {
	return s.Token != ""
}

// LoadState reads the persisted state from path. A missing file is not
// an error; it yields the zero-value default state.
func LoadState(path string) (*AppState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &AppState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	return &state, nil
}

// Save persists the state to path, creating parent directories.
func (s *AppState) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	// 0600: the file holds a bearer token
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// Clear resets the in-memory state and removes the persisted file.
// Missing files are tolerated so teardown is idempotent.
func (s *AppState) Clear(path string) error {
	*s = AppState{}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}
