package model

// Span is a claimed occurrence of text at exact character offsets in a
// passage buffer. Offsets are 0-based and end-exclusive.
type Span struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// AbsentSpan is the sentinel for "field not claimed".
func AbsentSpan() Span {
	return Span{Start: -1, End: -1}
}

// Absent reports whether the span is the -1/-1 sentinel. An absent span is a
// valid state, not an error, and must never reach the grounding check.
func (s Span) Absent() bool {
	return s.Start == -1 || s.End == -1
}

// SentenceSpan is one pre-segmented sentence inside a passage buffer.
type SentenceSpan struct {
	SentenceID int `json:"sentence_id"`
	Start      int `json:"start"`
	End        int `json:"end"`
}

// Passage is an immutable text buffer with pre-computed sentence offsets,
// produced by the external acquisition pipeline. The core never mutates it.
type Passage struct {
	DocID     string         `json:"doc_id"`
	PassageID int            `json:"passage_id"`
	Text      string         `json:"text"`
	Sentences []SentenceSpan `json:"sentences,omitempty"`
}

// SentenceAt returns the sentence id covering the given character offset,
// or -1 if the passage has no sentence segmentation for that offset.
func (p *Passage) SentenceAt(offset int) int {
	for _, s := range p.Sentences {
		if offset >= s.Start && offset < s.End {
			return s.SentenceID
		}
	}
	return -1
}

// Snippet returns passage text around [start,end) padded by pad runes on each
// side, clamped to the buffer. Used for issue context.
func (p *Passage) Snippet(start, end, pad int) string {
	runes := []rune(p.Text)
	// Offsets are rune offsets; out-of-range bounds are clamped.
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(runes) {
		hi = len(runes)
	}
	if lo >= hi {
		return ""
	}
	return string(runes[lo:hi])
}

// DocumentPayload is the input contract from the extraction producer: one
// record per (doc_id, passage_id).
type DocumentPayload struct {
	Passage Passage           `json:"passage"`
	People  []ExtractedPerson `json:"people"`
	// Model that produced the extraction, carried into reports for audit.
	ExtractorModel string `json:"extractor_model,omitempty"`
	ArticleTitle   string `json:"article_title,omitempty"`
	SourceFile     string `json:"source_file,omitempty"`
}
