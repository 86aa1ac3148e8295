package session

import "sync"

// Profile holds the authenticated user's fields as the backend sends them.
// Memory-only: a restart loses it until the caller re-fetches.
type Profile struct {
	ID        string
	Name      string
	Email     string
	CreatedAt string
	UpdatedAt string
}

// ProfileCache is a single mutable slot for the current user's profile.
type ProfileCache struct {
	mu   sync.Mutex
	user *Profile
}

func NewProfileCache() *ProfileCache {
	return &ProfileCache{}
}

func (c *ProfileCache) SetUser(p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = &p
}

func (c *ProfileCache) ClearUser() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
}

// User returns a copy of the cached profile and whether one is set.
func (c *ProfileCache) User() (Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return Profile{}, false
	}
	return *c.user, true
}
