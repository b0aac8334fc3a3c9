package retry

import "time"

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt. Negative attempts count as 0.
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return base * (1 << attempt)
}

// CappedBackoff is ExponentialBackoff limited to limit.
func CappedBackoff(attempt int, base, limit time.Duration) time.Duration {
	// 2^30 already exceeds any sane limit; avoid shifting into overflow.
	if attempt > 30 {
		return limit
	}
	if d := ExponentialBackoff(attempt, base); d < limit {
		return d
	}
	return limit
}
