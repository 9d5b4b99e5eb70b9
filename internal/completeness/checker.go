package completeness

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/verify"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/vntext"
)

// Checker finds named individuals present in the passage but absent from the
// extraction. It only annotates reports; it never blocks or mutates the
// extraction, because recall gaps are expected and should be surfaced, not
// treated as fatal.
type Checker struct {
	spotter    Spotter
	snippetPad int
}

// NewChecker wires a checker around any Spotter backend.
func NewChecker(spotter Spotter, snippetPad int) *Checker {
	if snippetPad <= 0 {
		snippetPad = 40
	}
	return &Checker{spotter: spotter, snippetPad: snippetPad}
}

// FindMissing runs the spotting pass and diffs candidates against the
// extracted names and aliases under diacritic- and case-folding. Candidates
// that do not literally occur in the passage are dropped: the second pass is
// held to the same grounding bar as the first.
func (c *Checker) FindMissing(ctx context.Context, passage *model.Passage, people []model.ExtractedPerson) ([]model.MissingEntity, error) {
	if c.spotter == nil {
		return nil, nil
	}

	known := make(map[string]bool)
	var knownNames []string
	for i := range people {
		for _, name := range people[i].AllNames() {
			knownNames = append(knownNames, name)
			known[vntext.NameKey(name)] = true
		}
	}

	candidates, err := c.spotter.SpotNames(ctx, passage, knownNames)
	if err != nil {
		return nil, eris.Wrap(err, "completeness: spot names")
	}

	buf := verify.NewBuffer(passage.Text)
	seen := make(map[string]bool)
	var missing []model.MissingEntity

	for _, cand := range candidates {
		key := vntext.NameKey(cand.Name)
		if key == "" || known[key] || seen[key] {
			continue
		}

		// Ground the candidate before reporting it. Backends that return
		// offsets are checked verbatim; offset-less backends (the LLM one)
		// are resolved by substring search.
		start, end := cand.Start, cand.End
		if start < 0 || end <= start {
			start = buf.Find(cand.Name)
			if start < 0 {
				continue
			}
			end = start + len([]rune(cand.Name))
		} else if !verify.Ground(buf, model.Span{Text: cand.Name, Start: start, End: end}).Grounded {
			continue
		}

		seen[key] = true
		missing = append(missing, model.MissingEntity{
			Name:    cand.Name,
			Snippet: passage.Snippet(start, end, c.snippetPad),
		})
	}

	if len(missing) > 0 {
		zap.L().Debug("completeness: missing entities found",
			zap.String("doc_id", passage.DocID),
			zap.Int("passage_id", passage.PassageID),
			zap.Int("missing", len(missing)))
	}
	return missing, nil
}

// Annotate appends missing_entity warnings to a report for each finding.
func Annotate(report *model.ValidationReport, missing []model.MissingEntity) {
	report.MissingEntities = append(report.MissingEntities, missing...)
	for _, m := range missing {
		report.AddIssue(model.ValidationIssue{
			Type:        model.IssueMissingEntity,
			Severity:    model.SeverityWarning,
			Field:       "people",
			Expected:    "extraction should include " + m.Name,
			Actual:      "not extracted",
			Description: "Person " + m.Name + " appears in the passage but was not extracted",
			TextSnippet: m.Snippet,
		})
	}
}
