package verify

import (
	"strings"
	"unicode/utf8"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

// GroundingReason explains why a span failed (or passed) grounding.
type GroundingReason string

const (
	ReasonGrounded     GroundingReason = "grounded"
	ReasonOutOfBounds  GroundingReason = "out_of_bounds"
	ReasonTextMismatch GroundingReason = "text_mismatch"
)

// Result is the outcome of grounding one span against a passage buffer.
type Result struct {
	Grounded bool
	Reason   GroundingReason

	// Actual is the literal substring found at the claimed offsets when the
	// reason is text_mismatch.
	Actual string
}

// Buffer wraps passage text for offset-addressed access. Claimed offsets are
// character (rune) offsets, matching the upstream producer contract, so byte
// slicing would corrupt Vietnamese text.
type Buffer struct {
	text  string
	runes []rune
}

// NewBuffer prepares a passage buffer for repeated span checks.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, runes: []rune(text)}
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Slice returns the literal substring at [start,end). Callers must bounds
// check first.
func (b *Buffer) Slice(start, end int) string {
	return string(b.runes[start:end])
}

// Find returns the rune offset of the first occurrence of text in the
// buffer, or -1 when it occurs nowhere.
func (b *Buffer) Find(text string) int {
	if text == "" {
		return -1
	}
	idx := strings.Index(b.text, text)
	if idx < 0 {
		return -1
	}
	return utf8.RuneCountInString(b.text[:idx])
}

// Ground decides whether a claimed span is verbatim-grounded in the buffer.
// Comparison is exact, with no normalization: grounding must be verbatim to
// eliminate silent hallucination. Absent spans must never be passed here;
// they are a valid non-claim, not a mismatch.
//
// Ground is pure and is the single source of truth for "is this fact real".
// The issue detector, confidence gating, and provenance building all call it
// rather than re-deriving their own notion of groundedness.
func Ground(b *Buffer, s model.Span) Result {
	if s.Start < 0 || s.End > b.Len() || s.Start >= s.End {
		return Result{Reason: ReasonOutOfBounds}
	}
	actual := b.Slice(s.Start, s.End)
	if actual != s.Text {
		return Result{Reason: ReasonTextMismatch, Actual: actual}
	}
	return Result{Grounded: true, Reason: ReasonGrounded}
}
