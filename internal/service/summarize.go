package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gemini-gateway/internal/cache"
	"gemini-gateway/internal/llm"
)

// SummarizeRequest is a validated summarize call.
type SummarizeRequest struct {
	Text   string
	Length Length
	Focus  Focus
}

// SummarizerOptions tunes a Summarizer.
type SummarizerOptions struct {
	// Model is part of the cache key so switching models never serves stale entries.
	Model string
	// Strict enables topic and word-count validation of model replies.
	Strict   bool
	CacheTTL time.Duration
}

// Summarizer turns text into a {summary, topic} pair via the model.
type Summarizer struct {
	client llm.Client
	cache  cache.Cache
	opts   SummarizerOptions
	log    *slog.Logger
}

// NewSummarizer builds a Summarizer. A nil cache disables caching.
func NewSummarizer(client llm.Client, c cache.Cache, opts SummarizerOptions, log *slog.Logger) *Summarizer {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Summarizer{client: client, cache: c, opts: opts, log: log}
}

// Summarize builds the prompt, requests a JSON completion, and extracts and
// validates the reply. Provider failures are returned as *UpstreamError;
// shape failures wrap ErrInvalidResult.
func (s *Summarizer) Summarize(ctx context.Context, req SummarizeRequest) (Result, error) {
	length, focus := normalize(req.Length, req.Focus)
	log := s.log.With("length", length, "focus", focus)
	log.InfoContext(ctx, "summarize request received", "text_length", len(req.Text))

	prompt, err := BuildPrompt(req.Text, length, focus)
	if err != nil {
		return Result{}, err
	}

	key := cache.GenerateCacheKey(s.opts.Model, string(length), string(focus), req.Text)
	if cached, err := s.cache.GetSummary(ctx, key); err != nil {
		log.WarnContext(ctx, "cache read failed", "err", err)
	} else if cached != nil {
		log.InfoContext(ctx, "cache hit")
		return Result{Summary: cached.Summary, Topic: cached.Topic, Length: length, Cached: true}, nil
	}

	raw, err := s.client.Generate(ctx, llm.Request{
		Prompt:            prompt,
		SystemInstruction: systemInstruction,
		Format:            llm.FormatJSON,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return Result{}, upstream(KindEmpty, err)
		}
		return Result{}, upstream(KindUnexpected, err)
	}
	if raw == "" {
		return Result{}, upstream(KindEmpty, nil)
	}
	log.DebugContext(ctx, "model reply received", "preview", preview(raw, 100))

	summary, topic, err := parseReply(raw)
	if err != nil {
		return Result{}, err
	}
	res := Result{Summary: summary, Topic: topic, Length: length}
	if s.opts.Strict {
		if err := res.Validate(); err != nil {
			return Result{}, err
		}
	}

	if err := s.cache.SetSummary(ctx, key, &cache.Summary{Summary: summary, Topic: topic}, s.opts.CacheTTL); err != nil {
		log.WarnContext(ctx, "cache write failed", "err", err)
	}
	log.InfoContext(ctx, "summarization completed", "summary_words", CountWords(summary))
	return res, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(r[:n]))
}
