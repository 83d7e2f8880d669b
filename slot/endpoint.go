// Package slot groups a peer's bound interfaces into slots, enforces the
// FEC-matching and configure-before-bind rules of §4.8, and tracks the
// broken/complete lifecycle of each one. Grounded on the teacher's
// dialog registry (dialog_cache.go's sync.Map keyed by dialog ID) for the
// lookup shape, and on media.RTPPacketReader's sync.RWMutex for the
// "don't block concurrent frame reads" locking discipline (§5).
package slot

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/rocstream/roc-go/packet"
)

// Protocol identifies the wire protocol an endpoint speaks.
type Protocol int

const (
	ProtoUnknown Protocol = iota
	ProtoRTP
	ProtoRTCP
)

func (p Protocol) String() string {
	switch p {
	case ProtoRTP:
		return "rtp"
	case ProtoRTCP:
		return "rtcp"
	default:
		return "unknown"
	}
}

// schemeInfo maps a URI scheme to the (protocol, FEC scheme) pair it
// encodes, per §6 "URI schemes".
var schemeInfo = map[string]struct {
	proto  Protocol
	scheme packet.Scheme
}{
	"rtp":      {ProtoRTP, packet.SchemeNone},
	"rtp+rs8m": {ProtoRTP, packet.SchemeRS8M},
	"rs8m":     {ProtoRTP, packet.SchemeRS8M},
	"rtp+ldpc": {ProtoRTP, packet.SchemeLDPC},
	"ldpc":     {ProtoRTP, packet.SchemeLDPC},
	"rtcp":     {ProtoRTCP, packet.SchemeNone},
}

// Endpoint is a parsed, bindable address: scheme://host[:port][/path][?query].
type Endpoint struct {
	Raw       string
	Proto     Protocol
	FECScheme packet.Scheme
	Host      string
	Port      int
	HasPort   bool
	Path      string
	Query     url.Values
}

// ParseEndpoint validates and decomposes a URI per §6. Host may be a
// domain name or an IP literal (IPv6 in square brackets, as
// net/url already requires).
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("slot: invalid endpoint %q: %w", raw, err)
	}
	info, ok := schemeInfo[strings.ToLower(u.Scheme)]
	if !ok {
		return Endpoint{}, fmt.Errorf("slot: unknown scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("slot: endpoint %q has no host", raw)
	}

	ep := Endpoint{
		Raw:       raw,
		Proto:     info.proto,
		FECScheme: info.scheme,
		Host:      u.Hostname(),
		Path:      u.Path,
		Query:     u.Query(),
	}
	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Endpoint{}, fmt.Errorf("slot: invalid port in %q: %w", raw, err)
		}
		ep.Port = port
		ep.HasPort = true
	}
	return ep, nil
}

// Addr renders a net.Addr-shaped "host:port" string, for use once the
// interface's default port (if any) has been resolved by the caller.
func (e Endpoint) Addr(defaultPort int) string {
	port := e.Port
	if !e.HasPort {
		port = defaultPort
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(port))
}
