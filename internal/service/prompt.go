package service

import (
	"fmt"
	"strings"
)

// Length selects the target size of a summary.
type Length string

const (
	LengthShort    Length = "short"
	LengthMedium   Length = "medium"
	LengthDetailed Length = "detailed"
)

// Focus selects the tone of a summary.
type Focus string

const (
	FocusSimple       Focus = "simple"
	FocusNormal       Focus = "normal"
	FocusProfessional Focus = "professional"
)

const (
	DefaultLength = LengthMedium
	DefaultFocus  = FocusNormal

	systemInstruction = "You are an assistant that always returns VALID JSON."
)

var lengthRules = map[Length]string{
	LengthShort:    "Write exactly 1 paragraph between 80 and 120 words.",
	LengthMedium:   "Write 2 paragraphs totaling between 160 and 240 words.",
	LengthDetailed: "Write 3 paragraphs totaling between 240 and 360 words.",
}

var focusRules = map[Focus]string{
	FocusSimple:       "Use very simple language, explain like to a child.",
	FocusNormal:       "Neutral tone, easy to understand.",
	FocusProfessional: "Formal and precise tone, include technical terms.",
}

const promptTemplate = `Return ONLY a JSON object with the following format:
{
    "summary": "<string>",
    "topic": "<string>"
}
Rules:
- 'summary' must follow:
    - %s
    - %s
- 'topic' must be a single clear sentence describing the main theme.
Text to summarize:
"""%s"""
`

// BuildPrompt renders the summarize instruction for text. The text is embedded verbatim.
func BuildPrompt(text string, length Length, focus Focus) (string, error) {
	lengthRule, ok := lengthRules[length]
	if !ok {
		return "", fmt.Errorf("%w: unknown length %q", ErrInvalidRequest, length)
	}
	focusRule, ok := focusRules[focus]
	if !ok {
		return "", fmt.Errorf("%w: unknown focus %q", ErrInvalidRequest, focus)
	}
	return fmt.Sprintf(promptTemplate, lengthRule, focusRule, text), nil
}

// normalize applies defaults for omitted knobs.
func normalize(length Length, focus Focus) (Length, Focus) {
	if strings.TrimSpace(string(length)) == "" {
		length = DefaultLength
	}
	if strings.TrimSpace(string(focus)) == "" {
		focus = DefaultFocus
	}
	return length, focus
}
