package verify

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

// Detector runs the per-document check battery: position grounding, factual
// plausibility, and schema conformance, in that order, so issue ordering
// within a report is reproducible.
type Detector struct {
	cfg model.VerifyConfig
}

// NewDetector creates a detector with the given tunables.
func NewDetector(cfg model.VerifyConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Check validates one document's extracted people against its passage and
// returns the report plus the narrowed survivors. Ungrounded fields are
// nulled on the survivor copy; a malformed record yields one critical
// schema_violation and is excluded, but the rest of the document continues.
func (d *Detector) Check(payload *model.DocumentPayload) (*model.ValidationReport, []model.VerifiedPerson) {
	passage := &payload.Passage
	report := &model.ValidationReport{
		DocID:          passage.DocID,
		PassageID:      passage.PassageID,
		ArticleTitle:   payload.ArticleTitle,
		ExtractorModel: payload.ExtractorModel,
		SourceFile:     payload.SourceFile,
		ValidatedAt:    time.Now().UTC(),
		Summary: model.ValidationSummary{
			TotalPeopleExtracted: len(payload.People),
		},
	}

	buf := NewBuffer(passage.Text)
	var survivors []model.VerifiedPerson

	for _, person := range payload.People {
		if person.Name.Absent() || person.Name.Text == "" {
			report.AddIssue(model.ValidationIssue{
				Type:        model.IssueSchemaViolation,
				Severity:    model.SeverityCritical,
				Field:       "name",
				Expected:    "person record with a name claim",
				Actual:      "missing",
				Description: "Person record has no name and cannot be validated",
			})
			continue
		}

		v := d.checkPerson(report, buf, passage, person)
		survivors = append(survivors, v)
	}

	zap.L().Debug("detector: document checked",
		zap.String("doc_id", passage.DocID),
		zap.Int("passage_id", passage.PassageID),
		zap.Int("people", len(payload.People)),
		zap.Int("issues", report.Summary.TotalIssuesFound))

	return report, survivors
}

// checkPerson runs all checks for one person and builds the narrowed copy.
func (d *Detector) checkPerson(report *model.ValidationReport, buf *Buffer, passage *model.Passage, person model.ExtractedPerson) model.VerifiedPerson {
	personName := person.Name.Text
	v := model.VerifiedPerson{
		Person:   clonePerson(person),
		Grounded: make(map[string]bool),
	}

	// 1. Position grounding, field by field in schema order.
	if d.checkSpan(report, buf, passage, personName, "name", person.Name) {
		v.Grounded["name"] = true
	} else {
		v.Grounded["name"] = false
		v.Person.Name = model.Span{Text: personName, Start: -1, End: -1}
	}

	for i, alias := range person.Aliases {
		field := model.FieldIndex("aliases", i)
		if alias.Absent() {
			continue
		}
		if d.checkSpan(report, buf, passage, personName, field, alias) {
			v.Grounded[field] = true
		} else {
			v.Grounded[field] = false
			v.Person.Aliases[i] = model.AbsentSpan()
		}
	}

	if person.Age.Value != nil && !person.Age.Span.Absent() {
		if d.checkSpan(report, buf, passage, personName, "age", person.Age.Span) {
			v.Grounded["age"] = true
		} else {
			v.Grounded["age"] = false
			v.Person.Age = model.AgeClaim{Span: model.AbsentSpan()}
		}
	}

	if person.BirthPlace != nil && !person.BirthPlace.Absent() {
		if d.checkSpan(report, buf, passage, personName, "birth_place", *person.BirthPlace) {
			v.Grounded["birth_place"] = true
		} else {
			v.Grounded["birth_place"] = false
			v.Person.BirthPlace = nil
		}
	}

	for i, phone := range person.Phones {
		field := model.FieldIndex("phones", i)
		if phone.Absent() {
			continue
		}
		if d.checkSpan(report, buf, passage, personName, field, phone) {
			v.Grounded[field] = true
		} else {
			v.Grounded[field] = false
			v.Person.Phones[i] = model.AbsentSpan()
		}
	}

	if person.NationalID != nil && !person.NationalID.Absent() {
		if d.checkSpan(report, buf, passage, personName, "national_id", *person.NationalID) {
			v.Grounded["national_id"] = true
		} else {
			v.Grounded["national_id"] = false
			v.Person.NationalID = nil
		}
	}

	// 2. Factual plausibility over actions.
	d.checkFactual(report, buf, personName, person)

	// 3. Schema conformance: closed role and predicate sets. Invalid actions
	// are dropped from the survivor so they never reach confidence scoring;
	// the person itself survives.
	var keptActions []model.Action
	for i, action := range v.Person.Actions {
		if action.Predicate.Valid() {
			keptActions = append(keptActions, action)
			continue
		}
		report.AddIssue(model.ValidationIssue{
			Type:        model.IssueSchemaViolation,
			Severity:    model.SeverityError,
			PersonName:  personName,
			Field:       fmt.Sprintf("actions[%d].predicate", i),
			Expected:    fmt.Sprintf("one of %v", model.AllowedPredicates()),
			Actual:      string(action.Predicate),
			Description: fmt.Sprintf("Action predicate %q is not in the allowed set", action.Predicate),
		})
	}
	v.Person.Actions = keptActions

	for i, role := range v.Person.Roles {
		if role.Label.Valid() {
			continue
		}
		report.AddIssue(model.ValidationIssue{
			Type:        model.IssueSchemaViolation,
			Severity:    model.SeverityError,
			PersonName:  personName,
			Field:       fmt.Sprintf("roles[%d].label", i),
			Expected:    fmt.Sprintf("one of %v", model.AllowedRoles()),
			Actual:      string(role.Label),
			Description: fmt.Sprintf("Role label %q is not in the allowed set", role.Label),
		})
	}

	return v
}

// checkSpan grounds one claimed span and records the appropriate issue on
// failure. Returns true when the span is verbatim-grounded.
func (d *Detector) checkSpan(report *model.ValidationReport, buf *Buffer, passage *model.Passage, personName, field string, span model.Span) bool {
	if span.Absent() {
		return false
	}

	res := Ground(buf, span)
	switch res.Reason {
	case ReasonGrounded:
		return true

	case ReasonOutOfBounds:
		report.AddIssue(model.ValidationIssue{
			Type:        model.IssueWrongPosition,
			Severity:    model.SeverityError,
			PersonName:  personName,
			Field:       field,
			Expected:    fmt.Sprintf("valid position in range [0, %d]", buf.Len()),
			Actual:      fmt.Sprintf("start=%d, end=%d", span.Start, span.End),
			Description: "Position indices are out of bounds or inverted",
		})
		return false

	case ReasonTextMismatch:
		// The true offset is diagnostic: many extractions claim correct text
		// at a shifted position. Report where the text really occurs, or
		// escalate to hallucination when it occurs nowhere.
		found := buf.Find(span.Text)
		if found >= 0 {
			report.AddIssue(model.ValidationIssue{
				Type:        model.IssueWrongPosition,
				Severity:    model.SeverityError,
				PersonName:  personName,
				Field:       field,
				Expected:    fmt.Sprintf("%q at position %d", span.Text, found),
				Actual:      fmt.Sprintf("%q at position %d", res.Actual, span.Start),
				Description: fmt.Sprintf("Text at claimed position does not match; found at position %d instead", found),
				TextSnippet: passage.Snippet(found, found+(span.End-span.Start), d.cfg.SnippetPad),
			})
			return false
		}
		report.AddIssue(model.ValidationIssue{
			Type:        model.IssueHallucination,
			Severity:    model.SeverityCritical,
			PersonName:  personName,
			Field:       field,
			Expected:    "text present in passage",
			Actual:      fmt.Sprintf("%q not found", span.Text),
			Description: fmt.Sprintf("Text %q does not appear anywhere in the passage", span.Text),
		})
		return false
	}
	return false
}

// checkFactual validates law-article citations and monetary amounts.
func (d *Detector) checkFactual(report *model.ValidationReport, buf *Buffer, personName string, person model.ExtractedPerson) {
	for i, action := range person.Actions {
		if action.LawArticle != "" {
			// Law citations wrap across lines in news prose, so the compare
			// is whitespace-normalized rather than verbatim.
			if !containsNormalized(buf.text, action.LawArticle) {
				report.AddIssue(model.ValidationIssue{
					Type:        model.IssueWrongLawArticle,
					Severity:    model.SeverityError,
					PersonName:  personName,
					Field:       fmt.Sprintf("actions[%d].law_article", i),
					Expected:    "law article cited verbatim in passage",
					Actual:      action.LawArticle,
					Description: fmt.Sprintf("Law article %q not found in passage text", action.LawArticle),
				})
			}
		}

		if action.AmountVND != nil {
			amount := *action.AmountVND
			if amount < d.cfg.MinAmountVND || amount > d.cfg.MaxAmountVND {
				report.AddIssue(model.ValidationIssue{
					Type:        model.IssueHallucination,
					Severity:    model.SeverityWarning,
					PersonName:  personName,
					Field:       fmt.Sprintf("actions[%d].amount_vnd", i),
					Expected:    fmt.Sprintf("amount within [%d, %d] VND", d.cfg.MinAmountVND, d.cfg.MaxAmountVND),
					Actual:      fmt.Sprintf("%d", amount),
					Description: fmt.Sprintf("Amount %d VND is outside the plausible band for news prose", amount),
				})
			}
		}
	}
}

// containsNormalized reports whether needle occurs in haystack after
// collapsing all whitespace runs to single spaces.
func containsNormalized(haystack, needle string) bool {
	return strings.Contains(normalizeSpace(haystack), normalizeSpace(needle))
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// clonePerson deep-copies the slices a survivor record may narrow, so the
// input payload is never mutated.
func clonePerson(p model.ExtractedPerson) model.ExtractedPerson {
	out := p
	out.Aliases = append([]model.Span(nil), p.Aliases...)
	out.Phones = append([]model.Span(nil), p.Phones...)
	out.Roles = append([]model.Role(nil), p.Roles...)
	out.Actions = append([]model.Action(nil), p.Actions...)
	if p.BirthPlace != nil {
		bp := *p.BirthPlace
		out.BirthPlace = &bp
	}
	if p.NationalID != nil {
		id := *p.NationalID
		out.NationalID = &id
	}
	if p.Age.Value != nil {
		age := *p.Age.Value
		out.Age.Value = &age
	}
	if p.FieldConfidence != nil {
		out.FieldConfidence = make(map[string]float64, len(p.FieldConfidence))
		for k, val := range p.FieldConfidence {
			out.FieldConfidence[k] = val
		}
	}
	return out
}
