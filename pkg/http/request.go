package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig holds the proxies whose forwarding headers are trusted
type IPConfig struct {
	trusted []netip.Prefix
}

// NewIPConfig parses CIDR ranges of trusted proxies. Invalid entries are
// skipped so a typo fails closed (headers ignored) instead of open.
func NewIPConfig(cidrs []string) *IPConfig {
	cfg := &IPConfig{}
	for _, cidr := range cidrs {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			continue
		}
		cfg.trusted = append(cfg.trusted, prefix.Masked())
	}
	return cfg
}

// ExtractClientIP returns the client address for r. X-Forwarded-For and
// X-Real-IP are honoured only when the direct peer is a trusted proxy.
//
// X-Forwarded-For is read right to left: each trusted hop vouches for the
// entry before it, and the first address that is not a trusted proxy is the
// client. Entries left of it are client-supplied and ignored.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remote := remoteHost(r)

	if !config.trusts(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return forwardedClient(strings.Split(xff, ","), remote, config)
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}

	return remote
}

// forwardedClient walks hops from the right. An unparsable entry stops the
// walk at the last hop that could be verified.
func forwardedClient(hops []string, remote string, config *IPConfig) string {
	client := remote
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return client
		}
		client = addr.String()
		if !config.trusts(client) {
			return client
		}
	}
	return client
}

func (c *IPConfig) trusts(ip string) bool {
	if c == nil || len(c.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// remoteHost strips the port from RemoteAddr
func remoteHost(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
