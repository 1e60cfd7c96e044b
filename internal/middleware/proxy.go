package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies installs an IP extractor that believes X-Real-IP and
// X-Forwarded-For only when the direct peer is inside one of the given
// CIDRs. The server sits behind a TLS-terminating proxy in production;
// without this, c.RealIP() is the proxy address and the login rate
// limiter would bucket every client together.
func TrustedProxies(e *echo.Echo, cidrs []string) {
	var nets []*net.IPNet
	for _, cidr := range cidrs {
		if _, n, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, n)
		}
	}
	e.IPExtractor = clientIPExtractor(nets)
}

func clientIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	return func(req *http.Request) string {
		peer := peerIP(req.RemoteAddr)
		if !inTrusted(peer, trusted) {
			// Headers from an untrusted peer are attacker-controlled.
			return peer
		}
		if v := req.Header.Get("X-Real-IP"); v != "" {
			return strings.TrimSpace(v)
		}
		if v := req.Header.Get("X-Forwarded-For"); v != "" {
			// Leftmost entry is the original client.
			first, _, _ := strings.Cut(v, ",")
			return strings.TrimSpace(first)
		}
		return peer
	}
}

func peerIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func inTrusted(ipStr string, nets []*net.IPNet) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
