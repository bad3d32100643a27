// Package fingerprint derives a stable device identifier from machine
// identifiers. The same machine always produces the same fingerprint; two
// machines practically never collide.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync"
	"time"
)

// Test seams for the identifier sources.
var (
	readFileFn = os.ReadFile
	hostnameFn = os.Hostname
)

var machineIDFiles = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// ErrUnavailable means no machine identifier could be determined.
var ErrUnavailable = errors.New("device fingerprint unavailable")

// Provider computes the fingerprint once, in the background, and hands it
// out with a bounded wait. Callers that cannot get a fingerprint within
// the timeout fall back to the email sign-in flow.
type Provider struct {
	timeout time.Duration

	once sync.Once
	done chan struct{}
	fp   string
	err  error
}

func NewProvider(timeout time.Duration) *Provider {
	return &Provider{timeout: timeout, done: make(chan struct{})}
}

// Get returns the device fingerprint, waiting at most the configured
// timeout for the background computation.
func (p *Provider) Get(ctx context.Context) (string, error) {
	p.once.Do(func() {
		go func() {
			p.fp, p.err = compute()
			close(p.done)
		}()
	})

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return p.fp, p.err
	case <-timer.C:
		return "", ErrUnavailable
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func compute() (string, error) {
	var parts []string

	for _, path := range machineIDFiles {
		if raw, err := readFileFn(path); err == nil {
			if id := strings.TrimSpace(string(raw)); id != "" {
				parts = append(parts, id)
				break
			}
		}
	}

	if host, err := hostnameFn(); err == nil && host != "" {
		parts = append(parts, host)
	}

	if len(parts) == 0 {
		return "", ErrUnavailable
	}

	sum := sha256.Sum256([]byte("lunchpilot|" + strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:]), nil
}
