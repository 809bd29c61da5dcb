package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownKey is the bucket shared by every request that carries no proxy
// address header.
const UnknownKey = "unknown"

// ClientKey derives the limiter key from X-Forwarded-For, then X-Real-IP.
// The forwarded value is used as sent, including any proxy chain.
func ClientKey(header http.Header) string {
	if forwarded := strings.TrimSpace(header.Get("X-Forwarded-For")); forwarded != "" {
		return forwarded
	}
	if realIP := strings.TrimSpace(header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownKey
}
