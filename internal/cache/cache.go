package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores validated summaries keyed by their request fingerprint.
type Cache interface {
	// GetSummary retrieves a cached summary by key
	// Returns nil if not found
	GetSummary(ctx context.Context, key string) (*Summary, error)

	// SetSummary stores a summary with TTL
	SetSummary(ctx context.Context, key string, summary *Summary, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// Summary is a cached summarize result.
type Summary struct {
	Summary string `json:"summary"`
	Topic   string `json:"topic"`
}

// GenerateCacheKey fingerprints the parts of a request that determine its result.
func GenerateCacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
