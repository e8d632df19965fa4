package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// IPResolver extracts the client IP used as the rate limit key. Forwarded
// headers are honoured only when the direct peer is a trusted proxy.
type IPResolver struct {
	trustedProxies []*net.IPNet
}

// NewIPResolver parses trusted proxies given as CIDRs or bare IPs.
// An empty list trusts no proxy.
func NewIPResolver(trusted []string) (*IPResolver, error) {
	nets, err := ParseTrustedProxies(trusted)
	if err != nil {
		return nil, err
	}
	return &IPResolver{trustedProxies: nets}, nil
}

// ParseTrustedProxies converts CIDRs or bare IPs into networks.
func ParseTrustedProxies(entries []string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			ip := net.ParseIP(e)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", e)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(e)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", e, err)
		}
		nets = append(nets, network)
	}
	return nets, nil
}

// ClientIP returns the peer address without its port. From a trusted proxy
// the first valid X-Forwarded-For hop wins, then X-Real-IP.
func (res *IPResolver) ClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	peer := net.ParseIP(directIP)
	if peer == nil || !res.isTrusted(peer) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}
	return directIP
}

func (res *IPResolver) isTrusted(ip net.IP) bool {
	if res == nil {
		return false
	}
	for _, network := range res.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP resolves the peer address with no trusted proxies.
func ClientIP(r *http.Request) string {
	var res *IPResolver
	return res.ClientIP(r)
}
