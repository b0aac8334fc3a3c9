package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tolerancePercent widens every length band on both sides.
const tolerancePercent = 10

// Band is a target word-count range before tolerance widening.
type Band struct {
	Min int
	Max int
}

var lengthBands = map[Length]Band{
	LengthShort:    {Min: 80, Max: 120},
	LengthMedium:   {Min: 160, Max: 240},
	LengthDetailed: {Min: 240, Max: 360},
}

// BandFor returns the word-count band for length.
func BandFor(length Length) (Band, bool) {
	b, ok := lengthBands[length]
	return b, ok
}

// Allowed returns the accepted word-count range: the band widened by the
// tolerance with integer truncation, i.e. floor(min*0.9) and floor(max*1.1).
func (b Band) Allowed() (lo, hi int) {
	return b.Min * (100 - tolerancePercent) / 100, b.Max * (100 + tolerancePercent) / 100
}

// Result is a validated summary. Length is kept for validation only and is not serialized.
type Result struct {
	Summary string `json:"summary"`
	Topic   string `json:"topic" validate:"min=3,max=200"`
	Length  Length `json:"-"`
	Cached  bool   `json:"-"`
}

var resultValidator = validator.New()

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Validate checks the topic length and that the summary's word count falls in
// the tolerance band of its Length.
func (r Result) Validate() error {
	if err := resultValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: topic must be 3-200 characters: %v", ErrInvalidResult, err)
	}
	band, ok := BandFor(r.Length)
	if !ok {
		return fmt.Errorf("%w: unknown length %q", ErrInvalidResult, r.Length)
	}
	lo, hi := band.Allowed()
	if words := CountWords(r.Summary); words < lo || words > hi {
		return fmt.Errorf("%w: summary has %d words, want %d-%d for %s", ErrInvalidResult, words, lo, hi, r.Length)
	}
	return nil
}
