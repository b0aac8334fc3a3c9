// Package auth guards routes with a single static bearer token.
package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gemini-gateway/internal/httputil"
)

// DetailUnauthorized is the body detail for every rejected credential.
const DetailUnauthorized = "Invalid or missing API Key"

var ErrUnauthorized = errors.New("invalid or missing bearer token")

// Guard compares caller credentials against the configured gateway token.
type Guard struct {
	token []byte
}

// NewGuard builds a guard for token. An empty token rejects every request.
func NewGuard(token string) *Guard {
	return &Guard{token: []byte(token)}
}

// Check validates an Authorization header value.
func (g *Guard) Check(header string) error {
	token, ok := ParseBearerToken(header)
	if !ok || len(g.token) == 0 {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), g.token) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Middleware rejects requests without a valid bearer token with 401.
func (g *Guard) Middleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Check(r.Header.Get("Authorization")); err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				httputil.Fail(httputil.RequestLog(log, r), w, DetailUnauthorized, err, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParseBearerToken extracts the token from an Authorization: Bearer header.
func ParseBearerToken(h string) (string, bool) {
	parts := strings.Fields(h)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
