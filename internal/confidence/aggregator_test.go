package confidence

import (
	"math"
	"testing"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

func testAggregator() *Aggregator {
	a := NewAggregator(model.ConfidenceConfig{
		DerivedDiscount: 0.5,
		WeakCap:         0.4,
		BlendOld:        0.8,
		BlendIncoming:   0.2,
	})
	a.nowYear = func() int { return 2026 }
	return a
}

func TestAggregator_UngroundedFieldIsExactlyZero(t *testing.T) {
	a := testAggregator()
	v := &model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name:            model.Span{Text: "Phạm Văn Sử", Start: 10, End: 21},
			FieldConfidence: map[string]float64{"name": 0.95, "national_id": 0.9},
		},
		Grounded: map[string]bool{"name": true, "national_id": false},
	}

	a.Score(v)

	// The hard gate: claimed but ungrounded means exactly zero, regardless
	// of how confident the extractor was.
	if got := v.FieldConfidence["national_id"]; got != 0 {
		t.Errorf("ungrounded field confidence = %v, want exactly 0", got)
	}
	if got := v.FieldConfidence["name"]; got != 0.95 {
		t.Errorf("grounded field confidence = %v, want detector confidence 0.95", got)
	}
}

func TestAggregator_DefaultDetectorConfidence(t *testing.T) {
	a := testAggregator()
	v := &model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name: model.Span{Text: "Phạm Văn Sử", Start: 10, End: 21},
		},
		Grounded: map[string]bool{"name": true},
	}

	a.Score(v)

	// Missing extractor confidence falls back to 0.5, not 1.0.
	if got := v.FieldConfidence["name"]; got != 0.5 {
		t.Errorf("default field confidence = %v, want 0.5", got)
	}
}

func TestAggregator_DerivedBirthYear(t *testing.T) {
	a := testAggregator()
	age := 45
	v := &model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name:            model.Span{Text: "Phạm Văn Sử", Start: 10, End: 21},
			Age:             model.AgeClaim{Value: &age, Span: model.Span{Text: "45 tuổi", Start: 23, End: 30}},
			FieldConfidence: map[string]float64{"age": 0.8},
		},
		Grounded: map[string]bool{"name": true, "age": true},
	}

	a.Score(v)

	if v.DerivedBirthYear == nil {
		t.Fatal("expected derived birth year")
	}
	if *v.DerivedBirthYear != 1981 {
		t.Errorf("derived birth year = %d, want 1981", *v.DerivedBirthYear)
	}
	if got, want := v.FieldConfidence["birth_year"], 0.8*0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("derived confidence = %v, want %v (age confidence times discount)", got, want)
	}
}

func TestAggregator_WeakIdentityCapped(t *testing.T) {
	a := testAggregator()
	// Name only: no strong identifier, no medium signals.
	v := &model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name:            model.Span{Text: "Phạm Văn Sử", Start: 10, End: 21},
			FieldConfidence: map[string]float64{"name": 0.99},
		},
		Grounded: map[string]bool{"name": true},
	}

	a.Score(v)

	if v.EntityConfidence > 0.4 {
		t.Errorf("weakly identified entity confidence = %v, want <= weak cap 0.4", v.EntityConfidence)
	}
}

func TestAggregator_StrongIdentifierUncapped(t *testing.T) {
	a := testAggregator()
	id := model.Span{Text: "079123456789", Start: 40, End: 52}
	v := &model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name:            model.Span{Text: "Phạm Văn Sử", Start: 10, End: 21},
			NationalID:      &id,
			FieldConfidence: map[string]float64{"name": 0.9, "national_id": 0.9},
		},
		Grounded: map[string]bool{"name": true, "national_id": true},
	}

	a.Score(v)

	if v.EntityConfidence <= 0.4 {
		t.Errorf("strong-identifier entity confidence = %v, want above the weak cap", v.EntityConfidence)
	}
}

func TestAggregator_TwoMediumSignalsUncapped(t *testing.T) {
	a := testAggregator()
	age := 45
	bp := model.Span{Text: "Cà Mau", Start: 25, End: 31}
	v := &model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name:            model.Span{Text: "Phạm Văn Sử", Start: 10, End: 21},
			Age:             model.AgeClaim{Value: &age, Span: model.Span{Text: "45 tuổi", Start: 33, End: 40}},
			BirthPlace:      &bp,
			FieldConfidence: map[string]float64{"name": 0.9, "age": 0.9, "birth_place": 0.9},
		},
		Grounded: map[string]bool{"name": true, "age": true, "birth_place": true},
	}

	a.Score(v)

	// Hometown plus derived birth year are two medium signals.
	if v.EntityConfidence <= 0.4 {
		t.Errorf("entity confidence = %v, want above the weak cap with two medium signals", v.EntityConfidence)
	}
}

func TestAggregator_SingleMediumSignalCapped(t *testing.T) {
	a := testAggregator()
	age := 45
	// Name plus a grounded age: the derived year alone is one medium signal,
	// and an age mention is not a strong identifier.
	v := &model.VerifiedPerson{
		Person: model.ExtractedPerson{
			Name:            model.Span{Text: "Phạm Văn Sử", Start: 10, End: 21},
			Age:             model.AgeClaim{Value: &age, Span: model.Span{Text: "45 tuổi", Start: 23, End: 30}},
			FieldConfidence: map[string]float64{"name": 0.9, "age": 0.9},
		},
		Grounded: map[string]bool{"name": true, "age": true},
	}

	a.Score(v)

	if v.EntityConfidence > 0.4 {
		t.Errorf("entity confidence = %v, want capped at 0.4 with only one medium signal", v.EntityConfidence)
	}
}

func TestAggregator_NoFieldsIsZero(t *testing.T) {
	a := testAggregator()
	v := &model.VerifiedPerson{
		Person:   model.ExtractedPerson{},
		Grounded: map[string]bool{},
	}

	a.Score(v)

	if v.EntityConfidence != 0 {
		t.Errorf("entity confidence with no fields = %v, want 0", v.EntityConfidence)
	}
}

func TestAggregator_Blend(t *testing.T) {
	a := testAggregator()

	cases := []struct {
		old, incoming, want float64
	}{
		{0.5, 0.5, 0.5},
		{0.8, 0.4, 0.72},
		{0.2, 1.0, 0.36},
	}
	for _, tc := range cases {
		if got := a.Blend(tc.old, tc.incoming); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Blend(%v, %v) = %v, want %v", tc.old, tc.incoming, got, tc.want)
		}
	}

	// Old value dominates: a single new sighting moves the estimate by at
	// most the incoming weight.
	if got := a.Blend(0.9, 0.0); got < 0.7 {
		t.Errorf("Blend(0.9, 0) = %v, old value should dominate", got)
	}
}
