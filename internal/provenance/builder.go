// Package provenance attaches doc/sentence/offset trails to verified facts
// and derives the deterministic keys downstream storage upserts on.
package provenance

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/vntext"
)

// Namespace UUIDs for v5 key derivation. Fixed inputs keep keys stable
// across runs and hosts, so repeated pipeline runs upsert instead of
// duplicating.
var (
	personNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("peoplex://person"))
	actionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("peoplex://action"))
)

// PersonKey derives the upsert key for a canonical person from its
// normalized identity features. It is a pure function: same inputs, same
// key, on every run.
func PersonKey(nameKey, nationalID string, birthYear *int) string {
	year := ""
	if birthYear != nil {
		year = fmt.Sprintf("%d", *birthYear)
	}
	material := nameKey + "|" + nationalID + "|" + year
	return uuid.NewSHA1(personNamespace, []byte(material)).String()
}

// ActionKey derives the upsert key for one reported action.
func ActionKey(docID string, passageID, sentenceID int, predicate model.ActionPredicate, objectDescription string) string {
	material := fmt.Sprintf("%s|%d|%d|%s|%s",
		docID, passageID, sentenceID, predicate, vntext.Fold(objectDescription))
	return uuid.NewSHA1(actionNamespace, []byte(material)).String()
}

// Builder attaches provenance tuples to verified people.
type Builder struct{}

// NewBuilder creates a provenance builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Attach records one provenance tuple per grounded span on the survivor, in
// schema order, so reports are reproducible. Ungrounded fields were nulled
// by the detector and get no provenance, upholding the invariant that every
// surviving fact traces to at least one source offset. Surviving actions
// get their upsert keys here as well.
func (b *Builder) Attach(passage *model.Passage, v *model.VerifiedPerson) {
	add := func(field string, span model.Span) {
		if span.Absent() || !v.Grounded[field] {
			return
		}
		v.Provenance = append(v.Provenance, model.Provenance{
			DocID:      passage.DocID,
			PassageID:  passage.PassageID,
			SentenceID: passage.SentenceAt(span.Start),
			Start:      span.Start,
			End:        span.End,
			SourceText: span.Text,
		})
	}

	add("name", v.Person.Name)
	for i, alias := range v.Person.Aliases {
		add(model.FieldIndex("aliases", i), alias)
	}
	add("age", v.Person.Age.Span)
	if v.Person.BirthPlace != nil {
		add("birth_place", *v.Person.BirthPlace)
	}
	for i, phone := range v.Person.Phones {
		add(model.FieldIndex("phones", i), phone)
	}
	if v.Person.NationalID != nil {
		add("national_id", *v.Person.NationalID)
	}

	for _, act := range v.Person.Actions {
		v.Actions = append(v.Actions, model.VerifiedAction{
			Key: ActionKey(passage.DocID, passage.PassageID, act.SentenceID,
				act.Predicate, act.ObjectPersonName),
			Action: act,
		})
	}
}
