// Package postproc converts matched raw values into typed canonical
// values. Every processor is total: it never panics and returns nil for
// unparseable input. Unparseable values surface downstream as unset draft
// fields, never as errors.
package postproc

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hatch-crm/mlsdraft/internal/schema"
)

// BathCounts is the decomposition of a composite bathroom value such as
// "2 (2 0)" into total/full/half counts. Components the parser could not
// determine are nil.
type BathCounts struct {
	Total *float64
	Full  *float64
	Half  *float64
}

var (
	reNumJunk     = regexp.MustCompile(`[^0-9.\-+]`)
	reNumToken    = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	reSqftUnit    = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:sq\.?\s*ft\.?|sqft|sf\b|square\s+feet|square\s+foot)`)
	reAcresUnit   = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:acres?\b|ac\.?(?:\s|$))`)
	reBathsComp   = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*\(\s*(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)\s*\)\s*$`)
	reStatePostal = regexp.MustCompile(`(?i)\b([A-Za-z]{2})\b[,\s]*(\d{5}(?:-\d{4})?)`)
	reWhitespace  = regexp.MustCompile(`\s+`)
)

// Currency strips formatting noise from a monetary string and returns the
// amount rounded to the nearest whole unit.
func Currency(raw string) *int {
	cleaned := reNumJunk.ReplaceAllString(raw, "")
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

// Int strips every non-digit character, preserving only a leading sign,
// and parses what remains.
func Int(raw string) *int {
	s := strings.TrimSpace(raw)
	neg := strings.HasPrefix(s, "-")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return nil
	}
	if neg {
		n = -n
	}
	return &n
}

// Float strips non-numeric characters and parses the remainder.
func Float(raw string) *float64 {
	cleaned := reNumJunk.ReplaceAllString(strings.ReplaceAll(raw, ",", ""), "")
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Bool maps yes/no spellings onto booleans. Anything unrecognized returns
// nil: "Unknown" is explicitly ambiguous, not false.
func Bool(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1":
		v := true
		return &v
	case "n", "no", "false", "0":
		v := false
		return &v
	}
	return nil
}

// CleanString trims the value; an empty result is nil.
func CleanString(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// ParseAddress splits a free-text address on commas. Fewer than three
// comma-separated parts is treated as a bare street line; otherwise the
// second part is the city and the remainder is scanned for a two-letter
// state with a 5- or 9-digit postal code.
func ParseAddress(raw string) *schema.Address {
	s := strings.TrimSpace(reWhitespace.ReplaceAllString(raw, " "))
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	addr := &schema.Address{Country: schema.DefaultCountry}
	if len(parts) < 3 {
		addr.Street = s
		return addr
	}
	addr.Street = parts[0]
	addr.City = titleCase(parts[1])
	rest := strings.Join(parts[2:], ", ")
	if m := reStatePostal.FindStringSubmatch(rest); m != nil {
		addr.State = strings.ToUpper(m[1])
		addr.PostalCode = m[2]
	}
	return addr
}

// titleCase lowercases each word and capitalizes its first letter.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// AreaFt extracts a square-footage figure. A number with an explicit sqft
// unit token wins; otherwise the largest numeric token in the string is
// taken, since the area is typically the dominant number in mixed source
// text. The result is rounded to the nearest foot.
func AreaFt(raw string) *int {
	if m := reSqftUnit.FindStringSubmatch(raw); m != nil {
		if f := parseNumToken(m[1]); f != nil {
			n := int(math.Round(*f))
			return &n
		}
	}
	best := pickNumericToken(raw, false)
	if best == nil {
		return nil
	}
	n := int(math.Round(*best))
	return &n
}

// Acres extracts an acreage figure. A number with an explicit acres unit
// token wins; otherwise the smallest numeric token is taken, since the
// acreage is typically the smaller of competing numbers printed next to a
// square-footage figure. Known limitation: extra embedded numbers (e.g. a
// street number) can mislead the fallback.
func Acres(raw string) *float64 {
	if m := reAcresUnit.FindStringSubmatch(raw); m != nil {
		if f := parseNumToken(m[1]); f != nil {
			return f
		}
	}
	return pickNumericToken(raw, true)
}

// Baths recognizes the composite "<total> (<full> <half>)" encoding, then
// falls back to parsing the whole string as a bare total.
func Baths(raw string) *BathCounts {
	if m := reBathsComp.FindStringSubmatch(raw); m != nil {
		total := parseNumToken(m[1])
		full := parseNumToken(m[2])
		half := parseNumToken(m[3])
		return &BathCounts{Total: total, Full: full, Half: half}
	}
	if f := Float(raw); f != nil {
		return &BathCounts{Total: f}
	}
	return &BathCounts{}
}

// parseNumToken parses a single comma-grouped numeric token.
func parseNumToken(tok string) *float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// pickNumericToken scans all numeric tokens in the string and returns the
// smallest or largest.
func pickNumericToken(raw string, smallest bool) *float64 {
	var best *float64
	for _, tok := range reNumToken.FindAllString(raw, -1) {
		f := parseNumToken(tok)
		if f == nil {
			continue
		}
		if best == nil || (smallest && *f < *best) || (!smallest && *f > *best) {
			best = f
		}
	}
	return best
}
