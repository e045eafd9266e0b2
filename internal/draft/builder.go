// Package draft assembles canonical draft listings from extraction
// batches. A build is a single synchronous pass: match every extraction,
// assign winners into the draft, merge the remarks and media side
// channels, then compute diagnostics. Builds are pure functions of their
// inputs, so concurrent callers need no locking.
package draft

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hatch-crm/mlsdraft/internal/match"
	"github.com/hatch-crm/mlsdraft/internal/schema"
)

// Input is one extraction batch plus the optional side channels.
type Input struct {
	Extractions []schema.ExtractedLabelValue `json:"extractions"`

	// RemarksList and RemarksText are the two accepted remarks forms.
	// A non-nil list wins over the text form; blank entries are dropped.
	// Explicit remarks always override a remarks-labeled extraction.
	RemarksList []string `json:"remarks_list,omitempty"`
	RemarksText string   `json:"remarks_text,omitempty"`

	Media  MediaInput              `json:"media,omitempty"`
	Source schema.SourceDescriptor `json:"source,omitempty"`
}

// Result pairs the finished draft with the ordered audit list of every
// individual field match that produced it.
type Result struct {
	Draft   schema.CanonicalDraftListing `json:"draft"`
	Matches []match.FieldMatchResult     `json:"matches"`
}

// Builder runs the matcher over extraction batches. Stateless; one
// instance may serve many builds.
type Builder struct {
	matcher *match.Matcher
}

// NewBuilder constructs a builder over the standard field catalog.
func NewBuilder(opts match.Options) *Builder {
	return &Builder{matcher: match.NewMatcher(opts)}
}

var (
	reMLSToken      = regexp.MustCompile(`[A-Za-z]{0,3}\d{5,}[A-Za-z0-9]*`)
	reParenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
)

// Build produces one canonical draft from a batch. It never fails:
// unmatched extractions are dropped, unparseable values stay unset, and
// data-quality findings land in diagnostics.
func (b *Builder) Build(in Input) Result {
	d := schema.CanonicalDraftListing{
		Basic: schema.Basic{
			Status:        schema.LifecycleDraft,
			Lifecycle:     schema.LifecycleDraft,
			PriceCurrency: schema.DefaultCurrency,
		},
		Media:  schema.Media{URLs: []string{}},
		Source: in.Source,
		Diagnostics: schema.Diagnostics{
			Confidence: map[schema.CanonicalField]float64{},
			Missing:    []schema.CanonicalField{},
			Warnings:   []string{},
			Issues:     []string{},
		},
	}

	var matches []match.FieldMatchResult
	for _, ex := range in.Extractions {
		res := b.matcher.Match(ex)
		if res == nil {
			continue
		}
		matches = append(matches, *res)
		b.assignMatch(&d, res)
	}

	applyRemarks(&d, in)
	applyMedia(&d, in.Media)
	computeMissing(&d)
	computeWarnings(&d)

	return Result{Draft: d, Matches: matches}
}

// assignMatch writes one match into the draft. Direct assignments follow
// highest-score-wins with a first-seen tie-break; derived values overwrite
// and carry the same score as their source match.
func (b *Builder) assignMatch(d *schema.CanonicalDraftListing, res *match.FieldMatchResult) {
	if res.Value == nil {
		raw := match.CoerceString(res.Raw.Value)
		d.Diagnostics.Issues = append(d.Diagnostics.Issues,
			fmt.Sprintf("unparseable value for %s: %q", res.Canonical, raw))
	} else {
		prev, seen := d.Diagnostics.Confidence[res.Canonical]
		if !seen || res.Score > prev {
			if assignField(d, res.Canonical, res.Value) {
				d.Diagnostics.Confidence[res.Canonical] = res.Score
			}
		}
	}
	for field, v := range res.Derived {
		if assignField(d, field, v) {
			d.Diagnostics.Confidence[field] = res.Score
		}
	}
}

// assignField routes a typed value into its draft slot, applying the
// field-specific cleanup rules. Returns false when the value could not be
// coerced to the field's type, in which case no confidence is recorded.
func assignField(d *schema.CanonicalDraftListing, field schema.CanonicalField, v any) bool {
	switch field {
	case schema.FieldListPrice:
		return setInt(&d.Basic.ListPrice, v)
	case schema.FieldMLSNumber:
		s, ok := v.(string)
		if !ok {
			return false
		}
		cleaned := cleanMLSNumber(s)
		if cleaned == "" {
			return false
		}
		d.Basic.MLSNumber = &cleaned
		return true
	case schema.FieldAddress:
		switch t := v.(type) {
		case *schema.Address:
			if t.Empty() {
				return false
			}
			d.Basic.Address = t
			return true
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				return false
			}
			d.Basic.Address = &schema.Address{Street: s, Country: schema.DefaultCountry}
			return true
		}
		return false
	case schema.FieldStatus:
		s, ok := v.(string)
		if !ok {
			return false
		}
		status := strings.TrimSpace(reParenthetical.ReplaceAllString(s, ""))
		if status == "" {
			return false
		}
		d.Basic.Status = status
		if lc := inferLifecycle(status); lc != "" {
			d.Basic.Lifecycle = lc
		}
		return true
	case schema.FieldPropertyType:
		return setString(&d.Basic.PropertyType, v)
	case schema.FieldBeds:
		return setInt(&d.Details.Beds, v)
	case schema.FieldBathsTotal:
		return setFloat(&d.Details.BathsTotal, v)
	case schema.FieldBathsFull:
		return setFloat(&d.Details.BathsFull, v)
	case schema.FieldBathsHalf:
		return setFloat(&d.Details.BathsHalf, v)
	case schema.FieldYearBuilt:
		return setInt(&d.Details.YearBuilt, v)
	case schema.FieldLivingAreaSqft:
		return setInt(&d.Details.LivingAreaSqft, v)
	case schema.FieldTotalAreaSqft:
		return setInt(&d.Details.TotalAreaSqft, v)
	case schema.FieldLotAcres:
		return setFloat(&d.Details.LotAcres, v)
	case schema.FieldLotSqft:
		return setInt(&d.Details.LotSqft, v)
	case schema.FieldGarageSpaces:
		return setInt(&d.Details.GarageSpaces, v)
	case schema.FieldWaterfront:
		return setBool(&d.Details.Waterfront, v)
	case schema.FieldPool:
		return setBool(&d.Details.Pool, v)
	case schema.FieldSubdivision:
		return setString(&d.Details.Subdivision, v)
	case schema.FieldTaxYear:
		return setInt(&d.TaxesFees.TaxYear, v)
	case schema.FieldTotalTaxBill:
		return setInt(&d.TaxesFees.TotalTaxBill, v)
	case schema.FieldHOAFee:
		return setInt(&d.TaxesFees.HOAFee, v)
	case schema.FieldMasterHOAFee:
		return setInt(&d.TaxesFees.MasterHOAFee, v)
	case schema.FieldZoning:
		return setString(&d.TaxesFees.Zoning, v)
	case schema.FieldRemarksPublic:
		return setString(&d.Remarks.Public, v)
	case schema.FieldImagesDetected:
		var n *int
		if !setInt(&n, v) {
			return false
		}
		d.Media.DetectedTotal = *n
		return true
	}
	return false
}

// cleanMLSNumber re-extracts an identifier token, guarding against leading
// label fragments picked up by the upstream extraction.
func cleanMLSNumber(s string) string {
	s = strings.TrimSpace(s)
	if tok := reMLSToken.FindString(s); tok != "" {
		return tok
	}
	return s
}

// inferLifecycle maps status text onto the draft's coarse lifecycle
// state. Unrecognized text returns "" and leaves the prior state alone.
func inferLifecycle(status string) string {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "active"), strings.Contains(s, "pending"),
		strings.Contains(s, "live"), strings.Contains(s, "sold"),
		strings.Contains(s, "closed"):
		return schema.LifecyclePublished
	case strings.Contains(s, "draft"), strings.Contains(s, "coming soon"):
		return schema.LifecycleDraft
	}
	return ""
}

// applyRemarks merges the explicit remarks side channel, which always
// wins over remarks matched from label extractions.
func applyRemarks(d *schema.CanonicalDraftListing, in Input) {
	if in.RemarksList != nil {
		parts := make([]string, 0, len(in.RemarksList))
		for _, r := range in.RemarksList {
			if s := strings.TrimSpace(r); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			joined := strings.Join(parts, "\n\n")
			d.Remarks.Public = &joined
		}
		return
	}
	if s := strings.TrimSpace(in.RemarksText); s != "" {
		d.Remarks.Public = &s
	}
}

func computeMissing(d *schema.CanonicalDraftListing) {
	seen := map[schema.CanonicalField]bool{}
	for _, field := range schema.RequiredFields() {
		if seen[field] {
			continue
		}
		_, extracted := d.Diagnostics.Confidence[field]
		if !extracted || fieldEmpty(d, field) {
			seen[field] = true
			d.Diagnostics.Missing = append(d.Diagnostics.Missing, field)
		}
	}
}

// fieldEmpty applies the per-field semantic emptiness check for required
// fields: an address without a street is as missing as no address at all.
func fieldEmpty(d *schema.CanonicalDraftListing, field schema.CanonicalField) bool {
	switch field {
	case schema.FieldMLSNumber:
		return d.Basic.MLSNumber == nil || *d.Basic.MLSNumber == ""
	case schema.FieldListPrice:
		return d.Basic.ListPrice == nil
	case schema.FieldAddress:
		return d.Basic.Address.Empty()
	case schema.FieldBeds:
		return d.Details.Beds == nil
	case schema.FieldBathsTotal:
		return d.Details.BathsTotal == nil
	case schema.FieldLivingAreaSqft:
		return d.Details.LivingAreaSqft == nil
	case schema.FieldPropertyType:
		return d.Basic.PropertyType == nil || *d.Basic.PropertyType == ""
	case schema.FieldSubdivision:
		return d.Details.Subdivision == nil || *d.Details.Subdivision == ""
	}
	return false
}

func computeWarnings(d *schema.CanonicalDraftListing) {
	living := d.Details.LivingAreaSqft
	total := d.Details.TotalAreaSqft
	if living != nil && total != nil && *living > *total {
		d.Diagnostics.Warnings = append(d.Diagnostics.Warnings,
			fmt.Sprintf("living area (%d sqft) exceeds total area (%d sqft)", *living, *total))
	}
}

// --- typed slot setters ---

func setInt(dst **int, v any) bool {
	switch t := v.(type) {
	case int:
		n := t
		*dst = &n
		return true
	case float64:
		n := int(t)
		*dst = &n
		return true
	}
	return false
}

func setFloat(dst **float64, v any) bool {
	switch t := v.(type) {
	case float64:
		f := t
		*dst = &f
		return true
	case int:
		f := float64(t)
		*dst = &f
		return true
	}
	return false
}

func setBool(dst **bool, v any) bool {
	if b, ok := v.(bool); ok {
		val := b
		*dst = &val
		return true
	}
	return false
}

func setString(dst **string, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	val := s
	*dst = &val
	return true
}
