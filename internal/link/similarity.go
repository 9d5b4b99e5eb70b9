package link

import (
	"github.com/agext/levenshtein"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/vntext"
)

// Feature weights for pairwise cluster scoring. The national id dominates:
// an exact match plus a reasonable name lands in the auto-merge band on its
// own. Name similarity alone never does, because common Vietnamese full
// names collide across unrelated people.
const (
	nameWeight       = 0.50
	weightNationalID = 0.45
	weightPhone      = 0.25
	weightBirthYear  = 0.20
	weightBirthNear  = 0.10
	weightHometown   = 0.12
	attributeCap     = 0.50
)

var levParams = levenshtein.NewParams()

// scorePair computes the match score for two clusters plus a per-feature
// breakdown for review queues. conflict reports an irreconcilable strong
// identifier; the caller floors the score in that case.
func scorePair(a, b *Cluster) (score float64, breakdown map[string]float64, conflict bool) {
	breakdown = make(map[string]float64, 6)

	if a.NationalID != "" && b.NationalID != "" && a.NationalID != b.NationalID {
		breakdown["national_id_conflict"] = 1
		return 0, breakdown, true
	}
	if a.BirthYear != nil && b.BirthYear != nil && absInt(*a.BirthYear-*b.BirthYear) > 1 {
		breakdown["birth_year_conflict"] = 1
		return 0, breakdown, true
	}

	name := bestNameSimilarity(a, b)
	breakdown["name"] = name
	score = nameWeight * name

	var attrs float64
	if a.NationalID != "" && a.NationalID == b.NationalID {
		breakdown["national_id"] = 1
		attrs += weightNationalID
	}
	if phoneOverlap(a.Phones, b.Phones) {
		breakdown["phone"] = 1
		attrs += weightPhone
	}
	if a.BirthYear != nil && b.BirthYear != nil {
		switch absInt(*a.BirthYear - *b.BirthYear) {
		case 0:
			breakdown["birth_year"] = 1
			attrs += weightBirthYear
		case 1:
			breakdown["birth_year"] = 0.5
			attrs += weightBirthNear
		}
	}
	if a.Hometown != "" && vntext.Fold(a.Hometown) == vntext.Fold(b.Hometown) {
		breakdown["hometown"] = 1
		attrs += weightHometown
	}
	if attrs > attributeCap {
		attrs = attributeCap
	}

	score += attrs
	if score > 1 {
		score = 1
	}
	return score, breakdown, false
}

// bestNameSimilarity takes the best pairing over both clusters' surface
// spellings. Each pairing blends diacritic-sensitive and diacritic-folded
// edit similarity, with a small bonus when folded initials agree (catches
// "N.V.A" style abbreviations against full names).
func bestNameSimilarity(a, b *Cluster) float64 {
	var best float64
	for _, na := range a.names() {
		for _, nb := range b.names() {
			if s := nameSimilarity(na, nb); s > best {
				best = s
			}
		}
	}
	return best
}

func nameSimilarity(a, b string) float64 {
	fa, fb := vntext.NameKey(a), vntext.NameKey(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1
	}

	folded := levenshtein.Similarity(fa, fb, levParams)
	raw := levenshtein.Similarity(a, b, levParams)
	s := 0.7*folded + 0.3*raw

	if vntext.Initials(fa) == vntext.Initials(fb) {
		s += 0.05
	}
	if s > 1 {
		s = 1
	}
	return s
}

func phoneOverlap(a, b []string) bool {
	for _, pa := range a {
		for _, pb := range b {
			if pa != "" && pa == pb {
				return true
			}
		}
	}
	return false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
