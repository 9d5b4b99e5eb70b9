package confidence

import (
	"strings"
	"time"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

// Aggregator combines per-field detector confidence with grounding outcomes
// into field-level and entity-level confidence.
type Aggregator struct {
	cfg model.ConfidenceConfig

	// nowYear is injectable so birth-year derivation is deterministic in
	// tests.
	nowYear func() int
}

// NewAggregator creates an aggregator with the given blending rules.
func NewAggregator(cfg model.ConfidenceConfig) *Aggregator {
	return &Aggregator{
		cfg:     cfg,
		nowYear: func() int { return time.Now().UTC().Year() },
	}
}

// Score fills FieldConfidence, DerivedBirthYear and EntityConfidence on the
// survivor in place.
//
// Field confidence is detector confidence times a groundedness factor: 1.0
// when grounded, exactly 0.0 when the field was claimed but ungrounded (a
// hard gate), and the derived discount for fields with no direct span that
// are grounded via a present source span (age -> birth_year).
func (a *Aggregator) Score(v *model.VerifiedPerson) {
	v.FieldConfidence = make(map[string]float64, len(v.Grounded)+1)

	for field, grounded := range v.Grounded {
		if !grounded {
			v.FieldConfidence[field] = 0
			continue
		}
		v.FieldConfidence[field] = v.Person.DetectorConfidence(field)
	}

	// Birth year is derived from a grounded age claim, never read directly,
	// so it carries the derived discount.
	if v.Grounded["age"] && v.Person.Age.Value != nil {
		year := a.nowYear() - *v.Person.Age.Value
		v.DerivedBirthYear = &year
		v.FieldConfidence["birth_year"] = v.Person.DetectorConfidence("age") * a.cfg.DerivedDiscount
	}

	v.EntityConfidence = a.entityConfidence(v)
}

// entityConfidence blends field scores under the identifier-strength policy:
// an entity is actionable only with at least one strong identifier (grounded
// phone or national id) or at least two medium signals; otherwise its
// confidence is capped so many weak fields cannot masquerade as a strong
// identity.
func (a *Aggregator) entityConfidence(v *model.VerifiedPerson) float64 {
	var sum float64
	var n int
	for _, c := range v.FieldConfidence {
		sum += c
		n++
	}
	if n == 0 {
		return 0
	}
	base := sum / float64(n)

	if a.hasStrongIdentifier(v) || a.mediumSignals(v) >= 2 {
		return clamp01(base)
	}
	if base > a.cfg.WeakCap {
		return a.cfg.WeakCap
	}
	return clamp01(base)
}

// hasStrongIdentifier reports whether the mention carries a grounded
// national id or phone. An age mention is not strong: the schema has no
// birth-date span, and "45 tuổi" narrows identity far less than an id, so
// the year derived from it counts as a medium signal instead.
func (a *Aggregator) hasStrongIdentifier(v *model.VerifiedPerson) bool {
	if v.Grounded["national_id"] {
		return true
	}
	for field, grounded := range v.Grounded {
		if grounded && strings.HasPrefix(field, "phones[") {
			return true
		}
	}
	return false
}

// mediumSignals counts medium-strength identity signals: hometown and the
// derived birth year. The extraction schema has no organization field, so
// organization co-mention cannot contribute here.
func (a *Aggregator) mediumSignals(v *model.VerifiedPerson) int {
	var n int
	if v.Grounded["birth_place"] {
		n++
	}
	if v.DerivedBirthYear != nil {
		n++
	}
	return n
}

// Blend updates a rolling confidence with a new sighting: the old value
// dominates so repeated sightings stabilize monotonically instead of
// overwriting.
func (a *Aggregator) Blend(old, incoming float64) float64 {
	return clamp01(old*a.cfg.BlendOld + incoming*a.cfg.BlendIncoming)
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
