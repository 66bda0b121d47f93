// Package device derives a coarse device fingerprint from the User-Agent.
// The fingerprint feeds the registry's device-change risk signal.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"trustestate/pkg/requestcontext"
)

// Fingerprint hashes the browser family, OS and platform. Minor browser
// version bumps do not change it.
func Fingerprint(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	browser, version := ua.Browser()
	major, _, _ := strings.Cut(version, ".")
	parts := []string{
		browser,
		major,
		ua.OS(),
		ua.Platform(),
	}
	if ua.Mobile() {
		parts = append(parts, "mobile")
	}
	if ua.Bot() {
		parts = append(parts, "bot")
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Middleware stores the fingerprint of the request's User-Agent in context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp := Fingerprint(r.Header.Get("User-Agent"))
		ctx := requestcontext.WithDeviceFingerprint(r.Context(), fp)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
