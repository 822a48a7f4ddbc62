// Package credstore keeps the Azure app registration (client ID and tenant
// ID) in the operating system keyring so they never land in a config file
// or shell history.
package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	defaultService = "spanalyzer"

	clientIDKey = "client-id"
	tenantIDKey = "tenant-id"
)

// ErrNotFound is returned when no credential has been stored yet.
var ErrNotFound = errors.New("credential not found in keyring")

// Credentials is an app registration as stored in the keyring.
type Credentials struct {
	ClientID string
	TenantID string
}

// Store reads and writes credentials under a keyring service name.
type Store struct {
	service string
}

// New returns a Store using the default service name.
func New() *Store {
	return &Store{service: defaultService}
}

// Save writes both credential fields to the keyring.
func (s *Store) Save(creds Credentials) error {
	if creds.ClientID == "" {
		return errors.New("client ID must not be empty")
	}
	if err := keyring.Set(s.service, clientIDKey, creds.ClientID); err != nil {
		return fmt.Errorf("storing client ID: %w", err)
	}
	if err := keyring.Set(s.service, tenantIDKey, creds.TenantID); err != nil {
		return fmt.Errorf("storing tenant ID: %w", err)
	}
	return nil
}

// Load returns the stored credentials, or ErrNotFound when nothing has been
// saved.
func (s *Store) Load() (Credentials, error) {
	clientID, err := keyring.Get(s.service, clientIDKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("reading client ID: %w", err)
	}

	tenantID, err := keyring.Get(s.service, tenantIDKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return Credentials{}, fmt.Errorf("reading tenant ID: %w", err)
	}

	return Credentials{ClientID: clientID, TenantID: tenantID}, nil
}

// Delete removes both credential fields. Deleting credentials that were
// never stored is not an error.
func (s *Store) Delete() error {
	for _, key := range []string{clientIDKey, tenantIDKey} {
		if err := keyring.Delete(s.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	return nil
}

// Available reports whether a usable keyring backend exists on this system.
func (s *Store) Available() bool {
	const probe = "availability-probe"
	if err := keyring.Set(s.service, probe, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(s.service, probe)
	return true
}
