package throttle

import (
	"crypto/sha1"
	"encoding/hex"
	"net"
	"net/http"
	"strings"

	"github.com/rangka/lumen/handler"
)

// ClientIP returns the client address of r. Proxy headers are consulted in
// the order CF-Connecting-IP, X-Forwarded-For (first valid entry), X-Real-IP
// before falling back to RemoteAddr. Invalid addresses are skipped.
func ClientIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for part := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}
	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

// KeyFunc derives the bucket key for a request.
type KeyFunc func(ctx handler.Context) string

// Signature keys authenticated users by identifier and guests by a hash of
// the host and client IP.
func Signature(ctx handler.Context) string {
	if u, ok := ctx.User().(interface{ AuthIdentifier() string }); ok && u.AuthIdentifier() != "" {
		return "user:" + u.AuthIdentifier()
	}
	r := ctx.Request()
	sum := sha1.Sum([]byte(r.Host + "|" + ClientIP(r)))
	return "ip:" + hex.EncodeToString(sum[:])
}
