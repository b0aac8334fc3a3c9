package service

import (
	"errors"
	"fmt"
)

// Kind classifies a provider-facing failure. The set is closed.
type Kind int

const (
	KindUnexpected Kind = iota
	KindEmpty
	KindInvalidJSON
	KindMissingKeys
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty_response"
	case KindInvalidJSON:
		return "invalid_json"
	case KindMissingKeys:
		return "missing_keys"
	default:
		return "unexpected"
	}
}

// Detail is the caller-visible message for the kind. It never includes provider text.
func (k Kind) Detail() string {
	switch k {
	case KindEmpty:
		return "Empty response from upstream model"
	case KindInvalidJSON:
		return "Invalid JSON from upstream model"
	case KindMissingKeys:
		return "Missing keys in upstream JSON response ('summary' or 'topic')"
	default:
		return "Unexpected error from upstream model"
	}
}

// UpstreamError is a failure attributed to the model provider.
type UpstreamError struct {
	Kind Kind
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return "upstream: " + e.Kind.String()
	}
	return fmt.Sprintf("upstream: %s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(kind Kind, err error) error {
	return &UpstreamError{Kind: kind, Err: err}
}

// KindOf reports the upstream kind of err, if it is an UpstreamError.
func KindOf(err error) (Kind, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind, true
	}
	return 0, false
}

var (
	// ErrInvalidRequest marks input the HTTP layer should have rejected.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidResult marks a model reply that parsed but failed response-shape validation.
	ErrInvalidResult = errors.New("summary result failed validation")
)
