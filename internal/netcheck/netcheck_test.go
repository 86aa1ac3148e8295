package netcheck

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDialCheckerOnline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	c := NewDialChecker([]string{ln.Addr().String()}, time.Second)
	require.True(t, c.Online(context.Background()))
}

func TestDialCheckerOffline(t *testing.T) {
	// grab a port and close it again so nothing listens there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := NewDialChecker([]string{addr}, 200*time.Millisecond)
	require.False(t, c.Online(context.Background()))
}

func TestDialCheckerTriesAllTargets(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	dead, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadAddr := dead.Addr().String()
	require.NoError(t, dead.Close())

	c := NewDialChecker([]string{deadAddr, ln.Addr().String()}, 200*time.Millisecond)
	require.True(t, c.Online(context.Background()))
}

func TestStatic(t *testing.T) {
	require.True(t, Static(true).Online(context.Background()))
	require.False(t, Static(false).Online(context.Background()))
}
