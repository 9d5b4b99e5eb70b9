package completeness

import (
	"context"
	"strings"
	"unicode"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/vntext"
)

// Candidate is one proper-name occurrence found by a spotting pass.
type Candidate struct {
	Name  string
	Start int
	End   int
}

// Spotter is the pluggable name-spotting capability behind the completeness
// check. Any implementation works: the rule-based heuristic below, a
// classical NER model, or a second model call.
type Spotter interface {
	// SpotNames returns person-name candidates found in the passage.
	// knownNames lists names already extracted so backends that take an
	// exclusion list (the LLM backend) can use it; heuristic backends may
	// ignore it and let the checker diff.
	SpotNames(ctx context.Context, passage *model.Passage, knownNames []string) ([]Candidate, error)
}

// HeuristicSpotter approximates Vietnamese person mentions with a
// capitalized-token heuristic: runs of capitalized, non-numeric,
// non-all-caps tokens, optionally led by an honorific.
type HeuristicSpotter struct{}

// NewHeuristicSpotter creates the rule-based default backend.
func NewHeuristicSpotter() *HeuristicSpotter {
	return &HeuristicSpotter{}
}

type token struct {
	text  string
	start int
	end   int
}

// SpotNames scans each sentence for capitalized token runs.
func (s *HeuristicSpotter) SpotNames(_ context.Context, passage *model.Passage, _ []string) ([]Candidate, error) {
	runes := []rune(passage.Text)

	sentences := passage.Sentences
	if len(sentences) == 0 {
		sentences = []model.SentenceSpan{{SentenceID: 0, Start: 0, End: len(runes)}}
	}

	var candidates []Candidate
	for _, sent := range sentences {
		if sent.Start < 0 || sent.End > len(runes) || sent.Start >= sent.End {
			continue
		}
		candidates = append(candidates, spotSentence(runes, sent.Start, sent.End)...)
	}
	return candidates, nil
}

func spotSentence(runes []rune, start, end int) []Candidate {
	tokens := tokenize(runes, start, end)

	var candidates []Candidate
	var run []token
	for _, tok := range tokens {
		if isNameToken(tok.text) {
			run = append(run, tok)
			// Trailing punctuation ends the name: "Hoa, Trần Văn Bình"
			// is two people, not one.
			if hasTrailingPunct(tok.text) {
				if c, ok := flushRun(runes, tokens, run); ok {
					candidates = append(candidates, c)
				}
				run = nil
			}
			continue
		}
		if c, ok := flushRun(runes, tokens, run); ok {
			candidates = append(candidates, c)
		}
		run = nil
	}
	if c, ok := flushRun(runes, tokens, run); ok {
		candidates = append(candidates, c)
	}
	return candidates
}

// flushRun turns a capitalized-token run into a candidate, pulling in a
// preceding honorific when present. A single capitalized word is usually
// just a sentence start, so lone tokens only count when honorific-led
// ("ông Sử").
func flushRun(runes []rune, tokens []token, run []token) (Candidate, bool) {
	if len(run) == 0 {
		return Candidate{}, false
	}

	start := run[0].start
	end := run[len(run)-1].end

	// Trim punctuation clinging to the run edges ("Hoa," -> "Hoa").
	for end > start && isPunct(runes[end-1]) {
		end--
	}
	for start < end && isPunct(runes[start]) {
		start++
	}
	if start >= end {
		return Candidate{}, false
	}

	// Extend over a directly preceding honorific ("ông Phạm Văn Sử").
	honorificLed := false
	for i, tok := range tokens {
		if tok.start == start && i > 0 {
			prev := tokens[i-1]
			if vntext.IsHonorific(vntext.Fold(cleanToken(prev.text))) {
				start = prev.start
				honorificLed = true
			}
			break
		}
	}

	if len(run) == 1 && !honorificLed {
		return Candidate{}, false
	}

	return Candidate{
		Name:  string(runes[start:end]),
		Start: start,
		End:   end,
	}, true
}

func tokenize(runes []rune, start, end int) []token {
	var tokens []token
	i := start
	for i < end {
		for i < end && unicode.IsSpace(runes[i]) {
			i++
		}
		j := i
		for j < end && !unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i {
			tokens = append(tokens, token{text: string(runes[i:j]), start: i, end: j})
		}
		i = j
	}
	return tokens
}

func cleanToken(s string) string {
	return strings.Trim(s, ".,:;!?()[]{}\"'“”‘’")
}

func isPunct(r rune) bool {
	return strings.ContainsRune(".,:;!?()[]{}\"'“”‘’", r)
}

func hasTrailingPunct(s string) bool {
	runes := []rune(s)
	return len(runes) > 0 && isPunct(runes[len(runes)-1])
}

// isNameToken accepts tokens that look like one word of a proper name:
// capitalized first letter, no digits, not shouting-case.
func isNameToken(s string) bool {
	cleaned := cleanToken(s)
	if cleaned == "" {
		return false
	}
	runes := []rune(cleaned)
	for _, r := range runes {
		if unicode.IsDigit(r) {
			return false
		}
	}
	if len(runes) > 1 && strings.ToUpper(cleaned) == cleaned {
		return false
	}
	return unicode.IsUpper(runes[0])
}
