package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// jsonObjectPattern matches from the first '{' to the last '}', across lines.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON picks the candidate JSON text out of a model reply that may be
// wrapped in prose or a ```json fence.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed
	}
	if span := jsonObjectPattern.FindString(trimmed); span != "" {
		return span
	}
	return raw
}

// parseReply extracts summary and topic from a model reply.
func parseReply(raw string) (summary, topic string, err error) {
	candidate := extractJSON(raw)

	var decoded any
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return "", "", upstream(KindInvalidJSON, err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return "", "", upstream(KindMissingKeys, fmt.Errorf("reply is a %T, not an object", decoded))
	}
	rawSummary, hasSummary := obj["summary"]
	rawTopic, hasTopic := obj["topic"]
	if !hasSummary || !hasTopic {
		return "", "", upstream(KindMissingKeys, fmt.Errorf("summary present=%t, topic present=%t", hasSummary, hasTopic))
	}

	summary, ok = rawSummary.(string)
	if !ok {
		return "", "", fmt.Errorf("%w: summary is a %T", ErrInvalidResult, rawSummary)
	}
	topic, ok = rawTopic.(string)
	if !ok {
		return "", "", fmt.Errorf("%w: topic is a %T", ErrInvalidResult, rawTopic)
	}
	return summary, topic, nil
}
