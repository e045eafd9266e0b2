package schema

import "regexp"

// PostKey names a post-processor in the conversion pipeline. The catalog
// attaches an ordered list of keys to every candidate; the postproc package
// maps each key to its implementation.
type PostKey string

const (
	PostCurrency PostKey = "currency"
	PostInt      PostKey = "int"
	PostFloat    PostKey = "float"
	PostBool     PostKey = "bool"
	PostAddress  PostKey = "address"
	PostAreaFt   PostKey = "area_ft"
	PostAcres    PostKey = "acres"
	PostBaths    PostKey = "baths"
	PostString   PostKey = "string"
)

// SectionBucket is one of the coarse document-section classes a raw
// extraction's section name is folded into before matching.
type SectionBucket string

const (
	SectionGeneral  SectionBucket = "general information"
	SectionDetails  SectionBucket = "details"
	SectionRooms    SectionBucket = "room features"
	SectionLotTaxes SectionBucket = "lot & taxes"
	SectionFees     SectionBucket = "fees"
	SectionRemarks  SectionBucket = "remarks"
	SectionMedia    SectionBucket = "media"
	SectionOther    SectionBucket = "other"
	SectionNone     SectionBucket = ""
)

// Candidate is one catalog entry: a canonical field together with the
// signals that identify it in source documents.
type Candidate struct {
	Canonical CanonicalField
	// Labels are known alias spellings, compared against the normalized
	// input label with partial-string similarity.
	Labels []string
	// Regex detectors match against the raw value (not the label) as a
	// corroborating signal independent of alias similarity.
	Regex []*regexp.Regexp
	// Weight multiplies the alias score when non-zero. 1.0 is neutral.
	Weight float64
	// Sections lists buckets this field has an affinity for; a bucket hit
	// earns a flat bonus during scoring.
	Sections []SectionBucket
	// Post is the ordered list of post-processors applied to the raw value
	// when this candidate wins.
	Post []PostKey
}

var (
	reMoney     = regexp.MustCompile(`^\$?\s*\d[\d,]*(?:\.\d{1,2})?$`)
	reMLSNumber = regexp.MustCompile(`(?i)^[a-z]{0,3}[-#]?\d{6,12}$`)
	reYear      = regexp.MustCompile(`^(?:18|19|20)\d{2}$`)
	reAddress   = regexp.MustCompile(`(?i)^\d+\s+[\w.#\- ]+,`)
	reBathsComp = regexp.MustCompile(`^\d+(?:\.\d+)?\s*\(\s*\d+(?:\.\d+)?\s+\d+(?:\.\d+)?\s*\)$`)
	reBareNum   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reSqftText  = regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d+)?\s*(?:sq\.?\s*ft|sf\b|sqft|square\s+f(?:ee|oo)t)`)
	reAcresText = regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d+)?\s*(?:acres?\b|ac\.?\b)`)
)

// catalog is the full candidate table, iterated linearly by the matcher.
// Declaration order is the documented tie-break for equal scores, so
// broader fields (baths_total) precede their refinements (baths_full,
// baths_half) deliberately.
var catalog = []Candidate{
	{
		Canonical: FieldMLSNumber,
		Labels:    []string{"mls#", "mls number", "mls", "listing id", "listing number", "ml number"},
		Regex:     []*regexp.Regexp{reMLSNumber},
		Sections:  []SectionBucket{SectionGeneral},
		Post:      []PostKey{PostString},
	},
	{
		Canonical: FieldListPrice,
		Labels:    []string{"list price", "listing price", "asking price", "price", "current price"},
		Regex:     []*regexp.Regexp{reMoney},
		Sections:  []SectionBucket{SectionGeneral},
		Post:      []PostKey{PostCurrency},
	},
	{
		Canonical: FieldAddress,
		Labels:    []string{"address", "property address", "street address", "site address", "location"},
		Regex:     []*regexp.Regexp{reAddress},
		Sections:  []SectionBucket{SectionGeneral},
		Post:      []PostKey{PostAddress},
	},
	{
		Canonical: FieldStatus,
		Labels:    []string{"status", "listing status", "mls status", "current status"},
		Sections:  []SectionBucket{SectionGeneral},
		Post:      []PostKey{PostString},
	},
	{
		Canonical: FieldBeds,
		Labels:    []string{"bedrooms", "beds", "bed", "total bedrooms", "br"},
		Sections:  []SectionBucket{SectionDetails, SectionRooms},
		Post:      []PostKey{PostInt},
	},
	{
		Canonical: FieldBathsTotal,
		Labels:    []string{"bathrooms", "baths", "total baths", "baths total", "full and half baths"},
		Regex:     []*regexp.Regexp{reBathsComp, reBareNum},
		Sections:  []SectionBucket{SectionDetails, SectionRooms},
		Post:      []PostKey{PostBaths},
	},
	{
		Canonical: FieldBathsFull,
		Labels:    []string{"full baths", "full bathrooms", "baths full"},
		Sections:  []SectionBucket{SectionDetails, SectionRooms},
		Post:      []PostKey{PostInt},
	},
	{
		Canonical: FieldBathsHalf,
		Labels:    []string{"half baths", "half bathrooms", "baths half"},
		Sections:  []SectionBucket{SectionDetails, SectionRooms},
		Post:      []PostKey{PostInt},
	},
	{
		Canonical: FieldYearBuilt,
		Labels:    []string{"year built", "yr built", "built", "construction year"},
		Regex:     []*regexp.Regexp{reYear},
		Sections:  []SectionBucket{SectionDetails},
		Post:      []PostKey{PostInt},
	},
	{
		Canonical: FieldLivingAreaSqft,
		Labels:    []string{"approx living area", "living area", "living sqft", "sqft living", "heated area"},
		Regex:     []*regexp.Regexp{reSqftText},
		Sections:  []SectionBucket{SectionDetails},
		Post:      []PostKey{PostAreaFt},
	},
	{
		Canonical: FieldTotalAreaSqft,
		Labels:    []string{"approx total area", "total area", "total sqft", "area total", "gross area"},
		Regex:     []*regexp.Regexp{reSqftText},
		Sections:  []SectionBucket{SectionDetails},
		Post:      []PostKey{PostAreaFt},
	},
	{
		Canonical: FieldLotAcres,
		Labels:    []string{"lot size", "lot acres", "acreage", "approx acreage", "lot size acres"},
		Regex:     []*regexp.Regexp{reAcresText},
		Sections:  []SectionBucket{SectionLotTaxes},
		Post:      []PostKey{PostAcres},
	},
	{
		Canonical: FieldLotSqft,
		Labels:    []string{"lot sqft", "lot size sqft", "lot square feet", "lot area"},
		Regex:     []*regexp.Regexp{reSqftText},
		Sections:  []SectionBucket{SectionLotTaxes},
		Post:      []PostKey{PostAreaFt},
	},
	{
		Canonical: FieldPropertyType,
		Labels:    []string{"property type", "prop type", "property style", "type", "style"},
		Sections:  []SectionBucket{SectionGeneral, SectionDetails},
		Post:      []PostKey{PostString},
	},
	{
		Canonical: FieldSubdivision,
		Labels:    []string{"subdivision", "subdivision name", "neighborhood", "community", "development name"},
		Sections:  []SectionBucket{SectionGeneral, SectionDetails},
		Post:      []PostKey{PostString},
	},
	{
		Canonical: FieldWaterfront,
		Labels:    []string{"waterfront", "water front", "waterfront yn", "on water"},
		Sections:  []SectionBucket{SectionDetails},
		Post:      []PostKey{PostBool},
	},
	{
		Canonical: FieldPool,
		Labels:    []string{"private pool", "pool", "pool yn", "has pool"},
		Sections:  []SectionBucket{SectionDetails},
		Post:      []PostKey{PostBool},
	},
	{
		Canonical: FieldGarageSpaces,
		Labels:    []string{"garage spaces", "garage stalls", "garages", "garage"},
		Sections:  []SectionBucket{SectionDetails},
		Post:      []PostKey{PostInt},
	},
	{
		Canonical: FieldTaxYear,
		Labels:    []string{"tax year"},
		Regex:     []*regexp.Regexp{reYear},
		Sections:  []SectionBucket{SectionLotTaxes},
		Post:      []PostKey{PostInt},
	},
	{
		Canonical: FieldTotalTaxBill,
		Labels:    []string{"total tax bill", "annual taxes", "tax amount", "total taxes", "taxes"},
		Regex:     []*regexp.Regexp{reMoney},
		Sections:  []SectionBucket{SectionLotTaxes},
		Post:      []PostKey{PostCurrency},
	},
	{
		Canonical: FieldHOAFee,
		Labels:    []string{"hoa fee", "association fee", "hoa dues", "hoa"},
		Regex:     []*regexp.Regexp{reMoney},
		Sections:  []SectionBucket{SectionFees},
		Post:      []PostKey{PostCurrency},
	},
	{
		Canonical: FieldMasterHOAFee,
		Labels:    []string{"master hoa fee", "master hoa", "master association fee"},
		Regex:     []*regexp.Regexp{reMoney},
		Sections:  []SectionBucket{SectionFees},
		Post:      []PostKey{PostCurrency},
	},
	{
		Canonical: FieldZoning,
		Labels:    []string{"zoning", "zoning code", "zoned"},
		Sections:  []SectionBucket{SectionLotTaxes},
		Post:      []PostKey{PostString},
	},
	{
		Canonical: FieldRemarksPublic,
		Labels:    []string{"public remarks", "remarks", "property description", "description"},
		Weight:    0.95,
		Sections:  []SectionBucket{SectionRemarks},
		Post:      []PostKey{PostString},
	},
	{
		Canonical: FieldImagesDetected,
		Labels:    []string{"photo count", "photos", "image count", "images"},
		Weight:    0.95,
		Sections:  []SectionBucket{SectionMedia},
		Post:      []PostKey{PostInt},
	},
}

// Candidates returns the full candidate catalog in stable declaration
// order. Callers must not mutate the returned slice.
func Candidates() []Candidate {
	return catalog
}
