package llm

import (
	"context"
	"errors"
)

// Format hints the kind of completion the caller expects.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Request is a single generate-content call.
type Request struct {
	Prompt            string
	SystemInstruction string
	Format            Format
}

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
