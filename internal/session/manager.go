// Package session owns the login, registration, and logout flows. Login
// state derives from one thing only: whether a token is stored in the
// credential vault. The profile cache is deliberately decoupled from it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"jobtrack/internal/logging"
)

const (
	pathRegister = "auth/register"
	pathLogin    = "auth/login"
	pathProfile  = "auth/myProfile"
	pathLogout   = "users/logout"
)

// ErrMalformedResponse means the backend answered login with 2xx but the
// token field was missing or not a string. No session is established.
var ErrMalformedResponse = errors.New("login response did not contain a usable token")

// API is the slice of the request pipeline the session flows need.
type API interface {
	Get(ctx context.Context, path string) (map[string]any, error)
	Post(ctx context.Context, path string, body any) (map[string]any, error)
}

// Credentials is the token vault contract.
type Credentials interface {
	Save(token string) error
	Get() (string, error)
	Clear() error
}

type Manager struct {
	api     API
	creds   Credentials
	profile *ProfileCache
	log     logging.Logger

	mu       sync.Mutex
	loggedIn bool
	loading  bool

	fetch singleflight.Group
}

func NewManager(api API, creds Credentials, profile *ProfileCache, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop{}
	}
	return &Manager{
		api:     api,
		creds:   creds,
		profile: profile,
		log:     log,
		loading: true,
	}
}

// Initialize performs the startup token check. A storage failure degrades to
// "logged out" rather than an error: the stored token is the sole authority
// for login state, and an unreadable vault means no usable session.
func (m *Manager) Initialize(ctx context.Context) {
	token, err := m.creds.Get()
	if err != nil {
		m.log.Warn(ctx, "token check failed, starting logged out", "err", err)
	}

	m.mu.Lock()
	m.loggedIn = err == nil && token != ""
	m.loading = false
	m.mu.Unlock()
}

// IsLoggedIn reports whether a token is currently stored.
func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// Loading is true only until the initial token check completes.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Register creates an account. It never mutates session state; the user
// still has to sign in afterwards.
func (m *Manager) Register(ctx context.Context, name, email, password string) (map[string]any, error) {
	return m.api.Post(ctx, pathRegister, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// Login authenticates, persists the extracted token, and caches the profile
// fields from the response. A non-string token is treated as no session at
// all, even on a 2xx: nothing is saved and ErrMalformedResponse is returned.
func (m *Manager) Login(ctx context.Context, email, password string) (map[string]any, error) {
	payload, err := m.api.Post(ctx, pathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	data, _ := payload["data"].(map[string]any)
	token, ok := data["token"].(string)
	if !ok || token == "" {
		m.log.Warn(ctx, "login succeeded but token is not a string")
		return nil, ErrMalformedResponse
	}

	if err := m.creds.Save(token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	m.mu.Lock()
	m.loggedIn = true
	m.mu.Unlock()

	m.profile.SetUser(profileFrom(data))

	return payload, nil
}

// FetchProfile returns the raw profile payload. It does not update the
// cache; that is the caller's call. Concurrent fetches are collapsed into
// one request.
func (m *Manager) FetchProfile(ctx context.Context) (map[string]any, error) {
	v, err, _ := m.fetch.Do("profile", func() (any, error) {
		return m.api.Get(ctx, pathProfile)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// Logout tears the session down best-effort: the server call and the vault
// clear may fail, but in-memory state is always reset and the caller never
// sees an error.
func (m *Manager) Logout(ctx context.Context) {
	if _, err := m.api.Post(ctx, pathLogout, nil); err != nil {
		m.log.Warn(ctx, "logout request failed", "err", err)
	}
	if err := m.creds.Clear(); err != nil {
		m.log.Warn(ctx, "token clear failed, session may linger on device", "err", err)
	}

	m.profile.ClearUser()

	m.mu.Lock()
	m.loggedIn = false
	m.mu.Unlock()
}

func profileFrom(data map[string]any) Profile {
	str := func(key string) string {
		s, _ := data[key].(string)
		return s
	}
	return Profile{
		ID:        str("_id"),
		Name:      str("name"),
		Email:     str("email"),
		CreatedAt: str("createdAt"),
		UpdatedAt: str("updatedAt"),
	}
}
