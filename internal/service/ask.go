package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gemini-gateway/internal/llm"
)

// Asker forwards free-form questions to the model.
type Asker struct {
	client llm.Client
	log    *slog.Logger
}

func NewAsker(client llm.Client, log *slog.Logger) *Asker {
	return &Asker{client: client, log: log}
}

// Ask sends question verbatim as the prompt and returns the model's answer.
// There is a single attempt; every provider failure becomes an *UpstreamError.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is blank", ErrInvalidRequest)
	}
	a.log.DebugContext(ctx, "ask request received", "question_length", len(question))

	answer, err := a.client.Generate(ctx, llm.Request{Prompt: question, Format: llm.FormatText})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return "", upstream(KindEmpty, err)
		}
		return "", upstream(KindUnexpected, err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", upstream(KindEmpty, nil)
	}
	return answer, nil
}
