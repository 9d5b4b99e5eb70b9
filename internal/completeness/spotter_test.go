package completeness

import (
	"context"
	"testing"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

func spotAll(t *testing.T, text string) []Candidate {
	t.Helper()
	spotter := NewHeuristicSpotter()
	candidates, err := spotter.SpotNames(context.Background(), &model.Passage{Text: text}, nil)
	if err != nil {
		t.Fatalf("SpotNames: %v", err)
	}
	return candidates
}

func candidateNames(candidates []Candidate) []string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	return names
}

func hasCandidate(candidates []Candidate, name string) bool {
	for _, c := range candidates {
		if c.Name == name {
			return true
		}
	}
	return false
}

func TestHeuristicSpotter_CapitalizedRuns(t *testing.T) {
	text := "Cơ quan điều tra đã bắt Nguyễn Thị Hoa và Trần Minh Đức hôm qua."
	candidates := spotAll(t, text)

	if !hasCandidate(candidates, "Nguyễn Thị Hoa") {
		t.Errorf("expected to spot Nguyễn Thị Hoa, got %v", candidateNames(candidates))
	}
	if !hasCandidate(candidates, "Trần Minh Đức") {
		t.Errorf("expected to spot Trần Minh Đức, got %v", candidateNames(candidates))
	}
}

func TestHeuristicSpotter_LoneSentenceStartIgnored(t *testing.T) {
	// "Ngày" and "Trước" are capitalized only because they open a sentence.
	text := "Ngày hôm qua trời mưa. Trước đó trời nắng."
	candidates := spotAll(t, text)

	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %v", candidateNames(candidates))
	}
}

func TestHeuristicSpotter_HonorificLedSingleToken(t *testing.T) {
	text := "Theo lời khai, ông Sử đã nhận tiền của nhiều người."
	candidates := spotAll(t, text)

	if !hasCandidate(candidates, "ông Sử") {
		t.Errorf("expected honorific-led mention, got %v", candidateNames(candidates))
	}
}

func TestHeuristicSpotter_OffsetsAreGroundable(t *testing.T) {
	text := "Cơ quan điều tra đã bắt Nguyễn Thị Hoa, thu giữ tang vật."
	runes := []rune(text)
	for _, c := range spotAll(t, text) {
		if c.Start < 0 || c.End > len(runes) || c.Start >= c.End {
			t.Fatalf("candidate %q has bad offsets [%d:%d]", c.Name, c.Start, c.End)
		}
		if got := string(runes[c.Start:c.End]); got != c.Name {
			t.Errorf("candidate %q does not match buffer text %q at its offsets", c.Name, got)
		}
	}
}

func TestHeuristicSpotter_SkipsDigitsAndAcronyms(t *testing.T) {
	text := "UBND tỉnh và 29.10 không phải tên người, nhưng Lê Văn Tám thì có."
	candidates := spotAll(t, text)

	for _, c := range candidates {
		if c.Name == "UBND" || c.Name == "29.10" {
			t.Errorf("spotted non-name token %q", c.Name)
		}
	}
	if !hasCandidate(candidates, "Lê Văn Tám") {
		t.Errorf("expected to spot Lê Văn Tám, got %v", candidateNames(candidates))
	}
}

func TestHeuristicSpotter_TrailingPunctuationTrimmed(t *testing.T) {
	text := "Bị hại gồm Nguyễn Thị Hoa, Trần Văn Bình."
	candidates := spotAll(t, text)

	for _, c := range candidates {
		last := []rune(c.Name)[len([]rune(c.Name))-1]
		if last == ',' || last == '.' {
			t.Errorf("candidate %q ends in punctuation", c.Name)
		}
	}
}

func TestHeuristicSpotter_RespectsSentenceBounds(t *testing.T) {
	// A name split across a sentence boundary must not join.
	text := "Họ gặp Trần Văn. Bình đi vắng."
	passage := &model.Passage{
		Text: text,
		Sentences: []model.SentenceSpan{
			{SentenceID: 0, Start: 0, End: 16},
			{SentenceID: 1, Start: 17, End: len([]rune(text))},
		},
	}
	candidates, err := NewHeuristicSpotter().SpotNames(context.Background(), passage, nil)
	if err != nil {
		t.Fatalf("SpotNames: %v", err)
	}
	if hasCandidate(candidates, "Trần Văn. Bình") || hasCandidate(candidates, "Văn Bình") {
		t.Errorf("run crossed a sentence boundary: %v", candidateNames(candidates))
	}
}
