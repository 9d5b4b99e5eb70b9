// Package vntext provides Vietnamese text normalization for name comparison:
// diacritic folding, honorific stripping, and name keys for entity blocking.
package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// honorifics are titles and ranks that precede names in Vietnamese news
// prose, in diacritic-folded lowercase. Longest phrases first so compound
// ranks strip before their suffix words.
var honorifics = []string{
	"thuong tuong", "trung tuong", "thieu tuong",
	"thuong ta", "trung ta", "thieu ta", "dai ta",
	"luat su", "tham phan",
	"ong", "ba", "anh", "chi", "em", "co", "chu", "bac", "ngai", "cu",
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics strips combining marks and maps đ/Đ to d/D, preserving
// case. "Phạm Văn Sử" -> "Pham Van Su".
func FoldDiacritics(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case 'đ':
			return 'd'
		case 'Đ':
			return 'D'
		}
		return r
	}, out)
}

// Fold lowercases, strips diacritics, and collapses whitespace. This is the
// comparison form used by the completeness diff and pairwise scoring.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(FoldDiacritics(s))), " ")
}

// StripHonorifics removes leading honorific phrases from an already-folded
// name: "ong pham van su" -> "pham van su".
func StripHonorifics(folded string) string {
	for {
		stripped := false
		for _, h := range honorifics {
			if folded == h {
				return ""
			}
			if strings.HasPrefix(folded, h+" ") {
				folded = strings.TrimPrefix(folded, h+" ")
				stripped = true
				break
			}
		}
		if !stripped {
			return folded
		}
	}
}

// NameKey produces the blocking key for a name: folded, lowercased, with
// honorific tokens removed. Identical keys place clusters in the same
// comparison bucket.
func NameKey(name string) string {
	return StripHonorifics(Fold(name))
}

// Tokens splits a string on whitespace.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// Initials returns the first letter of each folded token: "pham van su" ->
// "pvs". Used as a weak name-similarity signal.
func Initials(folded string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(folded) {
		r := []rune(tok)
		if len(r) > 0 {
			b.WriteRune(r[0])
		}
	}
	return b.String()
}

// IsHonorific reports whether a folded token or phrase is an honorific.
func IsHonorific(folded string) bool {
	for _, h := range honorifics {
		if folded == h {
			return true
		}
	}
	return false
}
