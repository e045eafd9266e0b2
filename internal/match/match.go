// Package match scores raw label/value extractions against the canonical
// field catalog and returns the single best match per extraction. Scoring
// is an explicit numeric pipeline: every bonus and threshold is a named
// constant so each contributing factor can be tested in isolation.
package match

import (
	"fmt"
	"strconv"

	"github.com/hatch-crm/mlsdraft/internal/postproc"
	"github.com/hatch-crm/mlsdraft/internal/schema"
)

// Scoring constants. The primary threshold accepts a match outright; the
// fallback threshold accepts only with regex corroboration, letting a
// structural signal rescue a borderline textual match.
const (
	DefaultPrimaryThreshold  = 0.80
	DefaultFallbackThreshold = 0.65

	sectionAffinityBonus = 0.05
	regexRescueBonus     = 0.10
	boldBonus            = 0.02
	uppercaseBonus       = 0.015
)

// Options tunes the acceptance thresholds. Zero values fall back to the
// defaults.
type Options struct {
	PrimaryThreshold  float64
	FallbackThreshold float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		PrimaryThreshold:  DefaultPrimaryThreshold,
		FallbackThreshold: DefaultFallbackThreshold,
	}
}

// FieldMatchResult is the outcome of matching one extraction: the winning
// canonical field, its typed value after post-processing, and the scoring
// evidence for audit display.
type FieldMatchResult struct {
	Canonical    schema.CanonicalField         `json:"canonical"`
	Value        any                           `json:"value"`
	Raw          schema.ExtractedLabelValue    `json:"raw"`
	Score        float64                       `json:"score"`
	MatchedAlias string                        `json:"matched_alias,omitempty"`
	Applied      []schema.PostKey              `json:"applied_post_processors,omitempty"`
	RegexMatched bool                          `json:"regex_matched,omitempty"`
	Derived      map[schema.CanonicalField]any `json:"derived,omitempty"`
}

// Matcher scores extractions against a fixed candidate catalog. It is
// stateless after construction and safe for concurrent use.
type Matcher struct {
	catalog []schema.Candidate
	aliases [][]string // normalized labels, parallel to catalog
	opts    Options
}

// NewMatcher builds a matcher over the full field catalog.
func NewMatcher(opts Options) *Matcher {
	return newMatcher(schema.Candidates(), opts)
}

func newMatcher(catalog []schema.Candidate, opts Options) *Matcher {
	if opts.PrimaryThreshold <= 0 {
		opts.PrimaryThreshold = DefaultPrimaryThreshold
	}
	if opts.FallbackThreshold <= 0 {
		opts.FallbackThreshold = DefaultFallbackThreshold
	}
	aliases := make([][]string, len(catalog))
	for i, c := range catalog {
		norm := make([]string, len(c.Labels))
		for j, l := range c.Labels {
			norm[j] = NormalizeLabel(l)
		}
		aliases[i] = norm
	}
	return &Matcher{catalog: catalog, aliases: aliases, opts: opts}
}

// Match returns the best-scoring accepted candidate for one extraction, or
// nil when nothing clears the thresholds. A nil result is an expected
// outcome for noise labels, not an error.
func (m *Matcher) Match(ex schema.ExtractedLabelValue) *FieldMatchResult {
	label := NormalizeLabel(ex.Label)
	if label == "" {
		return nil
	}

	bucket := ClassifySection(ex.Section)
	rawValue := CoerceString(ex.Value)

	bestIdx := -1
	bestScore := 0.0
	bestAlias := ""
	bestRegex := false

	for i, cand := range m.catalog {
		aliasScore := 0.0
		alias := ""
		for j, a := range m.aliases[i] {
			if a == "" {
				continue
			}
			if s := partialSimilarity(label, a); s > aliasScore {
				aliasScore = s
				alias = cand.Labels[j]
			}
		}

		regexHit := false
		for _, re := range cand.Regex {
			if rawValue != "" && re.MatchString(rawValue) {
				regexHit = true
				break
			}
		}

		// Totally unrelated candidate: no textual overlap and no
		// structural signal.
		if aliasScore == 0 && !regexHit {
			continue
		}

		score := aliasScore
		if cand.Weight > 0 {
			score *= cand.Weight
		}
		if boost := sectionPrior(bucket) - 1; boost != 0 {
			score *= 1 + boost
		}
		if bucket != schema.SectionNone && bucketIn(bucket, cand.Sections) {
			score += sectionAffinityBonus
		}
		if regexHit && score < m.opts.PrimaryThreshold {
			score += regexRescueBonus
		}
		if ex.Bold {
			score += boldBonus
		}
		if ex.Uppercase {
			score += uppercaseBonus
		}
		score = clamp01(score)

		accepted := score >= m.opts.PrimaryThreshold ||
			(score >= m.opts.FallbackThreshold && regexHit)
		if !accepted {
			continue
		}
		// Strictly-higher wins; catalog declaration order breaks ties.
		if score > bestScore {
			bestIdx = i
			bestScore = score
			bestAlias = alias
			bestRegex = regexHit
		}
	}

	if bestIdx < 0 {
		return nil
	}

	winner := m.catalog[bestIdx]
	out := postproc.Run(winner.Post, winner.Canonical, rawValue)
	return &FieldMatchResult{
		Canonical:    winner.Canonical,
		Value:        out.Value,
		Raw:          ex,
		Score:        bestScore,
		MatchedAlias: bestAlias,
		Applied:      out.Applied,
		RegexMatched: bestRegex,
		Derived:      out.Derived,
	}
}

// CoerceString renders an extraction value for regex tests and
// post-processing. Nil becomes the empty string.
func CoerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func bucketIn(b schema.SectionBucket, list []schema.SectionBucket) bool {
	for _, s := range list {
		if s == b {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
