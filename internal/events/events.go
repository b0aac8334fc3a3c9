// Package events publishes per-request usage records for metering.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gemini-gateway/internal/retry"
)

// Operation names the gateway call an event describes.
type Operation string

const (
	OperationAsk       Operation = "ask"
	OperationSummarize Operation = "summarize"
	OperationUpload    Operation = "summarize_upload"
)

// Event is one completed gateway call.
type Event struct {
	ID         uuid.UUID `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	Operation  Operation `json:"operation"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Status     int       `json:"status"`
	Cached     bool      `json:"cached,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher exposes a minimal contract to emit events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// maxBackoff bounds the wait between publish attempts.
const maxBackoff = 2 * time.Second

// PublishWithRetry attempts to publish with retries and exponential backoff.
func PublishWithRetry(ctx context.Context, p Publisher, event Event, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := p.Publish(ctx, event); err == nil {
			return nil
		} else if attempt == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.CappedBackoff(attempt, base, maxBackoff)):
		}
	}
	return nil
}
