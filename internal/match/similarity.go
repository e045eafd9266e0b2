package match

import (
	"strings"
	"unicode"
)

// NormalizeLabel folds a raw label into matchable form: lowercase, letters
// and digits only, separators collapsed to single spaces. "Approx. Living
// Area:" and "approx living area" normalize identically.
func NormalizeLabel(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(v))
	lastSpace := false
	for _, r := range v {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '#':
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '/', r == '.', r == ',', r == ':', r == ';':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// partialSimilarity returns a 0..1 score where 1.0 means one string is
// fully contained within the other, allowing minor edits. The shorter
// string is slid across the longer one and the best normalized Levenshtein
// window wins.
func partialSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	ar := []rune(a)
	br := []rune(b)
	short, long := ar, br
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return levenshteinRatio(short, long)
	}
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		if r := levenshteinRatio(short, long[i:i+len(short)]); r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}

// levenshteinRatio is 1 - dist/maxLen over rune slices.
func levenshteinRatio(ar, br []rune) float64 {
	if len(ar) == 0 && len(br) == 0 {
		return 1
	}
	maxLen := len(ar)
	if len(br) > maxLen {
		maxLen = len(br)
	}
	if maxLen == 0 {
		return 0
	}
	d := make([][]int, len(ar)+1)
	for i := range d {
		d[i] = make([]int, len(br)+1)
	}
	for i := 0; i <= len(ar); i++ {
		d[i][0] = i
	}
	for j := 0; j <= len(br); j++ {
		d[0][j] = j
	}
	for i := 1; i <= len(ar); i++ {
		for j := 1; j <= len(br); j++ {
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			d[i][j] = minInt(del, minInt(ins, sub))
		}
	}
	dist := d[len(ar)][len(br)]
	return 1 - float64(dist)/float64(maxLen)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
