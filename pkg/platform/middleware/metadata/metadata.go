package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"lcm/pkg/requestcontext"
)

// Client kinds reported by ClientKind.
const (
	ClientUnknown = "unknown"
	ClientBot     = "bot"
	ClientMobile  = "mobile"
	ClientDesktop = "desktop"
)

// ClientKind classifies a User-Agent coarsely for logs and metrics labels.
// The raw header is never a label.
func ClientKind(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ClientUnknown
	}
	ua := useragent.New(userAgent)
	switch {
	case ua.Bot():
		return ClientBot
	case ua.Mobile():
		return ClientMobile
	default:
		return ClientDesktop
	}
}

// ClientMetadata extracts client IP address and User-Agent from the request
// and adds them to the context. Apply it early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest extracts the client IP, preferring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For is "client, proxy1, proxy2"; the first entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
