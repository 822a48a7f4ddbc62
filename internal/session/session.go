// Package session manages the temporary state file used during the OAuth 2.0
// device code flow. The device code, user code and verification URI are kept
// on disk between the "auth login" invocation that starts the flow and the
// command that completes it. File locking prevents two analyzer instances
// from corrupting the state.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const authStateFile = "auth_session.json"

// AuthState is a pending device code authentication.
type AuthState struct {
	DeviceCode      string    `json:"device_code"`
	UserCode        string    `json:"user_code"`
	VerificationURI string    `json:"verification_uri"`
	Interval        int       `json:"interval"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Expired reports whether the device code is no longer usable.
func (s *AuthState) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Manager handles auth state files under a configurable directory.
type Manager struct {
	configDir string
}

// NewManager returns a Manager rooted at the given config directory.
func NewManager(configDir string) *Manager {
	return &Manager{configDir: configDir}
}

func (m *Manager) statePath() string {
	return filepath.Join(m.configDir, authStateFile)
}

func (m *Manager) lockPath(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring session file lock: %w", err)
	}
	if !locked {
		return nil, errors.New("session file locked, another instance may be authenticating")
	}
	return lock, nil
}

// Save persists a pending authentication to disk.
func (m *Manager) Save(state *AuthState) error {
	path := m.statePath()
	lock, err := m.lockPath(path)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling auth state: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Load returns the pending authentication, or (nil, nil) when none exists.
// An expired state is deleted and reported as absent.
func (m *Manager) Load() (*AuthState, error) {
	path := m.statePath()
	lock, err := m.lockPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		lock.Unlock()
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading auth state: %w", err)
	}

	var state AuthState
	if err := json.Unmarshal(data, &state); err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("unmarshalling auth state: %w", err)
	}
	lock.Unlock()

	if state.Expired() {
		_ = m.Delete()
		return nil, nil
	}
	return &state, nil
}

// Delete removes the pending authentication. Deleting when none exists is
// not an error.
func (m *Manager) Delete() error {
	path := m.statePath()
	lock, err := m.lockPath(path)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting auth state: %w", err)
	}
	return nil
}
