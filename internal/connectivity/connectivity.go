// ABOUTME: Network reachability check consulted before API fetches
// ABOUTME: Probe dials the API host; Always returns a fixed answer

package connectivity

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"time"
)

// Checker reports whether the API is reachable
type Checker interface {
	HasNetwork(ctx context.Context) bool
}

// DefaultProbeTimeout bounds a single reachability check
const DefaultProbeTimeout = 3 * time.Second

// Probe checks reachability by opening a TCP connection to the API host
type Probe struct {
	address string
	timeout time.Duration
	dialer  func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewProbe builds a probe for baseURL. The port defaults from the scheme.
func NewProbe(baseURL string) (*Probe, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}

	d := &net.Dialer{}
	return &Probe{
		address: net.JoinHostPort(u.Hostname(), port),
		timeout: DefaultProbeTimeout,
		dialer:  d.DialContext,
	}, nil
}

// Address returns the host:port being probed
func (p *Probe) Address() string {
	return p.address
}

// HasNetwork implements Checker
func (p *Probe) HasNetwork(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dialer(ctx, "tcp", p.address)
	if err != nil {
		slog.Debug("Connectivity probe failed", "address", p.address, "error", err)
		return false
	}
	conn.Close()
	return true
}

// Always is a Checker with a fixed answer
type Always bool

// HasNetwork implements Checker
func (a Always) HasNetwork(context.Context) bool {
	return bool(a)
}
