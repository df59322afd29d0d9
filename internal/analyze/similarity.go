// Package analyze provides string similarity scoring for xaheen command keys.
package analyze

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Score weights for the fast paths. An exact match scores 1.0, a prefix match
// lands in [PrefixBase, PrefixBase+PrefixSpan] and a substring match in
// [SubstringBase, SubstringBase+SubstringSpan].
const (
	PrefixBase    = 0.9
	PrefixSpan    = 0.1
	SubstringBase = 0.7
	SubstringSpan = 0.2
)

// Similarity returns a case-insensitive score in [0, 1] estimating how closely
// input matches target. The first matching rule wins: exact, prefix,
// substring, then the better of normalized Levenshtein and token overlap.
//
// The score is not symmetric: Similarity("make", "make:component") is a
// prefix hit while the reverse falls through to edit distance.
func Similarity(input, target string) float64 {
	a := normalize(input)
	b := normalize(target)

	if a == b {
		return 1.0
	}

	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)

	if strings.HasPrefix(b, a) {
		return PrefixBase + float64(la)/float64(lb)*PrefixSpan
	}
	if strings.Contains(b, a) {
		return SubstringBase + float64(la)/float64(lb)*SubstringSpan
	}

	return clamp(max(editSimilarity(a, b), TokenOverlap(a, b)))
}

// editSimilarity is 1 - distance/max(len(a), len(b)). Two empty strings are
// identical.
func editSimilarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// TokenOverlap splits both strings on ':', '-', '_' and whitespace and returns
// the fraction of input tokens that equal or prefix some target token,
// normalized by the larger token count. It rescues reordered vocabulary such
// as "component-make" against "make:component".
func TokenOverlap(input, target string) float64 {
	in := Tokens(normalize(input))
	tg := Tokens(normalize(target))
	denom := max(len(in), len(tg))
	if denom == 0 {
		return 0
	}

	matched := 0
	for _, it := range in {
		for _, tt := range tg {
			if tt == it || strings.HasPrefix(tt, it) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(denom)
}

// Tokens splits s on the command separators.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

func isSeparator(r rune) bool {
	return r == ':' || r == '-' || r == '_' || unicode.IsSpace(r)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
