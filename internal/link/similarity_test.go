package link

import (
	"testing"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/vntext"
)

func cluster(name, id string) *Cluster {
	return &Cluster{
		Key:        vntext.NameKey(name),
		NameCounts: map[string]int{name: 1},
		AliasNames: map[string]bool{},
		NationalID: id,
	}
}

func TestScorePair_IdentityDominatedByNationalID(t *testing.T) {
	a := cluster("Phạm Văn Sử", "079123456789")
	b := cluster("ông Phạm Văn Sử", "079123456789")

	score, breakdown, conflict := scorePair(a, b)
	if conflict {
		t.Fatal("matching ids must not conflict")
	}
	if score < 0.9 {
		t.Errorf("score = %v, want auto-merge territory with matching id", score)
	}
	if breakdown["national_id"] != 1 {
		t.Errorf("breakdown missing national_id match: %v", breakdown)
	}
}

func TestScorePair_NameAloneBelowReview(t *testing.T) {
	a := cluster("Nguyễn Văn An", "")
	b := cluster("Nguyễn Văn An", "")

	score, _, conflict := scorePair(a, b)
	if conflict {
		t.Fatal("unexpected conflict")
	}
	if score >= 0.6 {
		t.Errorf("score = %v, bare name identity should stay below the review band", score)
	}
}

func TestScorePair_ConflictingIDs(t *testing.T) {
	a := cluster("Nguyễn Văn An", "079111111111")
	b := cluster("Nguyễn Văn An", "079222222222")

	_, breakdown, conflict := scorePair(a, b)
	if !conflict {
		t.Fatal("different grounded ids must conflict")
	}
	if breakdown["national_id_conflict"] != 1 {
		t.Errorf("breakdown should mark the conflict: %v", breakdown)
	}
}

func TestScorePair_IrreconcilableBirthYears(t *testing.T) {
	y1981, y1990 := 1981, 1990
	a := cluster("Nguyễn Văn An", "")
	a.BirthYear = &y1981
	b := cluster("Nguyễn Văn An", "")
	b.BirthYear = &y1990

	_, _, conflict := scorePair(a, b)
	if !conflict {
		t.Fatal("birth years nine years apart must conflict")
	}
}

func TestScorePair_AdjacentBirthYearsTolerated(t *testing.T) {
	// Age-derived years are off by one around birthdays.
	y1981, y1982 := 1981, 1982
	a := cluster("Nguyễn Văn An", "")
	a.BirthYear = &y1981
	b := cluster("Nguyễn Văn An", "")
	b.BirthYear = &y1982

	score, breakdown, conflict := scorePair(a, b)
	if conflict {
		t.Fatal("adjacent birth years must not conflict")
	}
	if breakdown["birth_year"] != 0.5 {
		t.Errorf("adjacent years should score half credit: %v", breakdown)
	}
	if score <= 0.5 {
		t.Errorf("score = %v, expected name plus partial birth-year credit", score)
	}
}

func TestNameSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		// Identical after folding.
		{"Phạm Văn Sử", "ông Phạm Văn Sử", 1, 1},
		{"Phạm Văn Sử", "Pham Van Su", 1, 1},
		// Close but distinct.
		{"Nguyễn Văn An", "Nguyễn Văn Anh", 0.6, 0.999},
		// Unrelated.
		{"Phạm Văn Sử", "Trần Thị Mai", 0, 0.5},
	}
	for _, tc := range cases {
		got := nameSimilarity(tc.a, tc.b)
		if got < tc.min || got > tc.max {
			t.Errorf("nameSimilarity(%q, %q) = %v, want in [%v, %v]", tc.a, tc.b, got, tc.min, tc.max)
		}
	}
}

func TestPhoneOverlap(t *testing.T) {
	if !phoneOverlap([]string{"0901234567"}, []string{"0909999999", "0901234567"}) {
		t.Error("expected overlap")
	}
	if phoneOverlap([]string{"0901234567"}, []string{"0909999999"}) {
		t.Error("unexpected overlap")
	}
	if phoneOverlap(nil, []string{"0901234567"}) {
		t.Error("nil list must not overlap")
	}
}
