package model

// Provenance is the document/sentence/offset trail justifying an accepted
// fact. Every fact surviving verification carries at least one.
type Provenance struct {
	DocID      string `json:"doc_id"`
	PassageID  int    `json:"passage_id"`
	SentenceID int    `json:"sentence_id"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	SourceText string `json:"source_text"`
}

// VerifiedPerson is an ExtractedPerson after grounding: ungrounded fields are
// nulled, schema-invalid actions dropped, and confidence attached. It is the
// unit consumed by linking.
type VerifiedPerson struct {
	Person ExtractedPerson `json:"person"`

	// Grounded marks field paths whose spans passed verbatim grounding.
	Grounded map[string]bool `json:"grounded,omitempty"`

	// DerivedBirthYear comes from the age claim and the report year. It has
	// no direct span, so its confidence carries the derived discount.
	DerivedBirthYear *int `json:"derived_birth_year,omitempty"`

	FieldConfidence  map[string]float64 `json:"field_confidence,omitempty"`
	EntityConfidence float64            `json:"entity_confidence"`

	Provenance []Provenance `json:"provenance,omitempty"`

	// Actions are the surviving actions with their upsert keys attached.
	Actions []VerifiedAction `json:"actions,omitempty"`
}

// VerifiedAction pairs a surviving action with the deterministic key
// downstream storage upserts it on.
type VerifiedAction struct {
	Key    string `json:"key"`
	Action Action `json:"action"`
}

// GroundedNationalID returns the national id text if claimed and grounded.
func (v *VerifiedPerson) GroundedNationalID() string {
	if v.Person.NationalID != nil && v.Grounded["national_id"] {
		return v.Person.NationalID.Text
	}
	return ""
}

// GroundedPhones returns grounded phone texts in claim order.
func (v *VerifiedPerson) GroundedPhones() []string {
	var phones []string
	for i, p := range v.Person.Phones {
		if v.Grounded[FieldIndex("phones", i)] {
			phones = append(phones, p.Text)
		}
	}
	return phones
}

// CanonicalPerson is the merged, corpus-wide identity for all mentions judged
// to be the same real individual. Never deleted; superseded by updates.
type CanonicalPerson struct {
	UID         string   `json:"uid"`
	DisplayName string   `json:"display_name"`
	Aliases     []string `json:"aliases,omitempty"`

	BirthYear  *int   `json:"birth_year,omitempty"`
	Hometown   string `json:"hometown,omitempty"`
	NationalID string `json:"national_id,omitempty"`

	Confidence   float64  `json:"confidence"`
	MemberDocIDs []string `json:"member_doc_ids"`

	Provenance []Provenance `json:"provenance,omitempty"`
}

// PendingMerge is a cluster pair whose similarity fell in the review band.
// It is queued for external review and never merged silently.
type PendingMerge struct {
	LeftUID   string             `json:"left_uid"`
	RightUID  string             `json:"right_uid"`
	LeftName  string             `json:"left_name"`
	RightName string             `json:"right_name"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// LinkResult is the output of one linking batch commit.
type LinkResult struct {
	Canonical []CanonicalPerson `json:"canonical_people"`
	Pending   []PendingMerge    `json:"pending_merges"`
}
