// Package netcheck answers one question: does the device currently have a
// usable network connection.
package netcheck

import (
	"context"
	"net"
	"time"
)

type Checker interface {
	Online(ctx context.Context) bool
}

// DialChecker probes a list of host:port targets with short TCP dials.
// The device counts as online as soon as any target accepts a connection.
type DialChecker struct {
	targets []string
	timeout time.Duration
}

func NewDialChecker(targets []string, timeout time.Duration) *DialChecker {
	if len(targets) == 0 {
		targets = []string{"1.1.1.1:443", "8.8.8.8:53"}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &DialChecker{targets: targets, timeout: timeout}
}

func (c *DialChecker) Online(ctx context.Context) bool {
	var d net.Dialer
	for _, target := range c.targets {
		dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
		conn, err := d.DialContext(dialCtx, "tcp", target)
		cancel()
		if err == nil {
			_ = conn.Close()
			return true
		}
	}
	return false
}

// Static reports a fixed answer. Used in tests and to force offline mode.
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }
