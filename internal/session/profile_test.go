package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileCacheSlot(t *testing.T) {
	c := NewProfileCache()

	_, ok := c.User()
	require.False(t, ok)

	c.SetUser(Profile{ID: "u1", Name: "Sarah"})
	user, ok := c.User()
	require.True(t, ok)
	require.Equal(t, "u1", user.ID)

	// overwrite wins
	c.SetUser(Profile{ID: "u2", Name: "Sam"})
	user, _ = c.User()
	require.Equal(t, "u2", user.ID)

	c.ClearUser()
	_, ok = c.User()
	require.False(t, ok)
}

func TestUserReturnsCopy(t *testing.T) {
	c := NewProfileCache()
	c.SetUser(Profile{Name: "Sarah"})

	user, _ := c.User()
	user.Name = "mutated"

	again, _ := c.User()
	require.Equal(t, "Sarah", again.Name)
}
