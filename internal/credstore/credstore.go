// Package credstore keeps the single bearer token in the OS keychain.
package credstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "jobtrack"
	// One session at a time, so one fixed account label.
	KeyringAccount = "auth"
)

// ErrUnavailable means the secure storage backend could not be reached
// (locked keychain, no dbus session). Callers treat it as "no valid session".
var ErrUnavailable = errors.New("secure storage unavailable")

type Store struct {
	service string
	account string
}

func New() *Store {
	return &Store{service: KeyringService, account: KeyringAccount}
}

func (s *Store) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	if err := keyring.Set(s.service, s.account, token); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get returns the stored token, or "" with no error when none is stored.
func (s *Store) Get() (string, error) {
	token, err := keyring.Get(s.service, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *Store) Clear() error {
	err := keyring.Delete(s.service, s.account)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
