package provenance

import (
	"testing"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

func TestPersonKey_Deterministic(t *testing.T) {
	year := 1981
	first := PersonKey("pham van su", "079123456789", &year)
	second := PersonKey("pham van su", "079123456789", &year)
	if first != second {
		t.Errorf("same identity produced different keys: %s vs %s", first, second)
	}
}

func TestPersonKey_DistinguishesIdentities(t *testing.T) {
	year := 1981
	otherYear := 1990

	base := PersonKey("pham van su", "079123456789", &year)
	cases := map[string]string{
		"different name": PersonKey("nguyen thi hoa", "079123456789", &year),
		"different id":   PersonKey("pham van su", "079999999999", &year),
		"different year": PersonKey("pham van su", "079123456789", &otherYear),
		"missing id":     PersonKey("pham van su", "", &year),
		"missing year":   PersonKey("pham van su", "079123456789", nil),
	}
	for name, key := range cases {
		if key == base {
			t.Errorf("%s should produce a different key", name)
		}
	}
}

func TestActionKey_Deterministic(t *testing.T) {
	first := ActionKey("doc-1", 0, 2, model.PredicateArrested, "Nguyễn Thị Hoa")
	second := ActionKey("doc-1", 0, 2, model.PredicateArrested, "Nguyễn Thị Hoa")
	if first != second {
		t.Errorf("same action produced different keys")
	}

	// Folded object descriptions collapse diacritic variants.
	folded := ActionKey("doc-1", 0, 2, model.PredicateArrested, "Nguyen Thi Hoa")
	if folded != first {
		t.Errorf("diacritic variants of the object should share a key")
	}

	other := ActionKey("doc-1", 0, 3, model.PredicateArrested, "Nguyễn Thị Hoa")
	if other == first {
		t.Errorf("different sentences must produce different keys")
	}
}

func TestBuilder_Attach_OnlyGroundedFields(t *testing.T) {
	passage := model.Passage{
		DocID:     "doc-1",
		PassageID: 0,
		Text:      "Công an đã bắt Phạm Văn Sử tại Cà Mau.",
		Sentences: []model.SentenceSpan{{SentenceID: 0, Start: 0, End: 38}},
	}
	bp := model.Span{Text: "Cà Mau", Start: 31, End: 37}
	v := model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name:       model.Span{Text: "Phạm Văn Sử", Start: 15, End: 26},
			BirthPlace: &bp,
		},
		Grounded: map[string]bool{"name": true, "birth_place": false},
	}

	NewBuilder().Attach(&passage, &v)

	if len(v.Provenance) != 1 {
		t.Fatalf("expected provenance only for grounded fields, got %d entries", len(v.Provenance))
	}
	p := v.Provenance[0]
	if p.DocID != "doc-1" || p.Start != 15 || p.End != 26 {
		t.Errorf("provenance tuple wrong: %+v", p)
	}
	if p.SentenceID != 0 {
		t.Errorf("sentence id = %d, want 0", p.SentenceID)
	}
	if p.SourceText != "Phạm Văn Sử" {
		t.Errorf("source text = %q", p.SourceText)
	}
}

func TestBuilder_Attach_KeysSurvivingActions(t *testing.T) {
	passage := model.Passage{
		DocID:     "doc-1",
		PassageID: 0,
		Text:      "Công an đã bắt Phạm Văn Sử tại Cà Mau.",
	}
	v := model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name: model.Span{Text: "Phạm Văn Sử", Start: 15, End: 26},
			Actions: []model.Action{
				{Predicate: model.PredicateArrested, ObjectPersonName: "Nguyễn Thị Hoa", SentenceID: 0},
				{Predicate: model.PredicateCharged, SentenceID: 1},
			},
		},
		Grounded: map[string]bool{"name": true},
	}

	NewBuilder().Attach(&passage, &v)

	if len(v.Actions) != 2 {
		t.Fatalf("expected 2 keyed actions, got %d", len(v.Actions))
	}
	want := ActionKey("doc-1", 0, 0, model.PredicateArrested, "Nguyễn Thị Hoa")
	if v.Actions[0].Key != want {
		t.Errorf("action key = %s, want %s", v.Actions[0].Key, want)
	}
	if v.Actions[0].Action.Predicate != model.PredicateArrested {
		t.Errorf("keyed record should carry the action, got %+v", v.Actions[0].Action)
	}
	if v.Actions[1].Key == v.Actions[0].Key {
		t.Errorf("distinct actions must get distinct keys")
	}

	// Re-running the builder over the same input reproduces the same keys.
	again := v
	again.Actions = nil
	NewBuilder().Attach(&passage, &again)
	if again.Actions[0].Key != v.Actions[0].Key {
		t.Errorf("action keys must be stable across runs")
	}
}

func TestBuilder_Attach_NoSentenceSegmentation(t *testing.T) {
	passage := model.Passage{
		DocID: "doc-2",
		Text:  "Phạm Văn Sử bị bắt.",
	}
	v := model.VerifiedPerson{
		Person:   model.ExtractedPerson{Name: model.Span{Text: "Phạm Văn Sử", Start: 0, End: 11}},
		Grounded: map[string]bool{"name": true},
	}

	NewBuilder().Attach(&passage, &v)

	if len(v.Provenance) != 1 {
		t.Fatalf("expected 1 provenance entry, got %d", len(v.Provenance))
	}
	if v.Provenance[0].SentenceID != -1 {
		t.Errorf("sentence id without segmentation = %d, want -1", v.Provenance[0].SentenceID)
	}
}
