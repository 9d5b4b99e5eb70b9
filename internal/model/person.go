package model

import (
	"fmt"
	"strings"
)

// FieldIndex builds an indexed field path such as "phones[0]".
func FieldIndex(field string, idx int) string {
	return fmt.Sprintf("%s[%d]", field, idx)
}

// RoleLabel categorizes how a person figures in the reported events.
type RoleLabel string

const (
	RoleSuspect  RoleLabel = "suspect"
	RoleVictim   RoleLabel = "victim"
	RoleOfficial RoleLabel = "official"
	RoleWitness  RoleLabel = "witness"
	RoleLawyer   RoleLabel = "lawyer"
	RoleJudge    RoleLabel = "judge"
	RoleOther    RoleLabel = "other"
)

// allowedRoles is the closed set accepted by schema validation.
var allowedRoles = map[RoleLabel]bool{
	RoleSuspect:  true,
	RoleVictim:   true,
	RoleOfficial: true,
	RoleWitness:  true,
	RoleLawyer:   true,
	RoleJudge:    true,
	RoleOther:    true,
}

// Valid reports whether the label is in the allowed set.
func (r RoleLabel) Valid() bool {
	return allowedRoles[r]
}

// AllowedRoles returns the closed role set in stable order (for messages).
func AllowedRoles() []RoleLabel {
	return []RoleLabel{RoleSuspect, RoleVictim, RoleOfficial, RoleWitness, RoleLawyer, RoleJudge, RoleOther}
}

// ActionPredicate categorizes a reported action.
type ActionPredicate string

const (
	PredicateArrested  ActionPredicate = "arrested"
	PredicateCharged   ActionPredicate = "charged"
	PredicateSentenced ActionPredicate = "sentenced"
	PredicateConfessed ActionPredicate = "confessed"
	PredicateSearched  ActionPredicate = "searched"
	PredicateSeized    ActionPredicate = "seized"
	PredicateOther     ActionPredicate = "other"
)

var allowedPredicates = map[ActionPredicate]bool{
	PredicateArrested:  true,
	PredicateCharged:   true,
	PredicateSentenced: true,
	PredicateConfessed: true,
	PredicateSearched:  true,
	PredicateSeized:    true,
	PredicateOther:     true,
}

// Valid reports whether the predicate is in the allowed set.
func (p ActionPredicate) Valid() bool {
	return allowedPredicates[p]
}

// AllowedPredicates returns the closed predicate set in stable order.
func AllowedPredicates() []ActionPredicate {
	return []ActionPredicate{PredicateArrested, PredicateCharged, PredicateSentenced, PredicateConfessed, PredicateSearched, PredicateSeized, PredicateOther}
}

// Role is a role claim tied to a specific sentence.
type Role struct {
	Label      RoleLabel `json:"label"`
	SentenceID int       `json:"sentence_id"`
}

// Action is one reported action involving the person.
type Action struct {
	Predicate        ActionPredicate `json:"predicate"`
	ObjectPersonName string          `json:"object_person_name,omitempty"`
	AmountVND        *int64          `json:"amount_vnd,omitempty"`
	LawArticle       string          `json:"law_article,omitempty"`
	SentenceYears    *float64        `json:"sentence_years,omitempty"`
	SentenceID       int             `json:"sentence_id"`
}

// AgeClaim is a numeric age with the span it was read from. The value is
// derived, so the span grounds it indirectly.
type AgeClaim struct {
	Value *int `json:"value,omitempty"`
	Span  Span `json:"span"`
}

// ExtractedPerson is one person as claimed by a single extraction pass over
// one passage. Stages never mutate it in place; each stage produces a new,
// possibly narrower record.
type ExtractedPerson struct {
	Name       Span     `json:"name"`
	Aliases    []Span   `json:"aliases,omitempty"`
	Age        AgeClaim `json:"age"`
	BirthPlace *Span    `json:"birth_place,omitempty"`
	Phones     []Span   `json:"phones,omitempty"`
	NationalID *Span    `json:"national_id,omitempty"`
	Roles      []Role   `json:"roles,omitempty"`
	Actions    []Action `json:"actions,omitempty"`

	// FieldConfidence holds raw per-field detector confidence keyed by field
	// path ("name", "phones[0]", ...). Missing keys default to 0.5.
	FieldConfidence map[string]float64 `json:"field_confidence,omitempty"`
}

// DetectorConfidence returns the raw detector confidence for a field path.
// Indexed paths ("phones[0]") fall back to their base field, then to 0.5
// when the extractor reported nothing.
func (p *ExtractedPerson) DetectorConfidence(field string) float64 {
	if c, ok := p.FieldConfidence[field]; ok {
		return c
	}
	if i := strings.IndexByte(field, '['); i >= 0 {
		if c, ok := p.FieldConfidence[field[:i]]; ok {
			return c
		}
	}
	return 0.5
}

// AllNames returns the claimed name plus all alias texts, skipping absent
// spans. Used by the completeness diff and the linker.
func (p *ExtractedPerson) AllNames() []string {
	var names []string
	if !p.Name.Absent() && p.Name.Text != "" {
		names = append(names, p.Name.Text)
	}
	for _, a := range p.Aliases {
		if !a.Absent() && a.Text != "" {
			names = append(names, a.Text)
		}
	}
	return names
}
