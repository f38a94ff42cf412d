// Package metadata extracts client metadata (IP, User-Agent, device) from
// incoming requests and makes it available through the request context.
package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"covera/pkg/requestcontext"
)

// ClientMetadata extracts the client IP address and User-Agent from the
// request and adds them to the context for use by handlers and services.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIPFromRequest(r)
		rawUA := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, rawUA)
		ctx = requestcontext.WithDeviceInfo(ctx, parseDevice(rawUA))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseDevice derives a coarse device description from the User-Agent header.
// Audit events attach it; nothing security-relevant depends on it.
func parseDevice(rawUA string) requestcontext.Device {
	if rawUA == "" {
		return requestcontext.Device{}
	}
	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	return requestcontext.Device{
		Browser: browser,
		OS:      ua.OS(),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}

// ClientIPFromRequest extracts the real client IP from the request, handling
// proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...).
	// The first entry is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// X-Real-IP is used by nginx and other proxies.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" ("[::1]:port" for IPv6); strip the port.
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}

	// No address at all. Return empty so consumers like the rate limiter can
	// tell "no IP" from a real key instead of pooling such clients together.
	return ""
}
