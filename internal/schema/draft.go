package schema

// DefaultCountry is the ISO country code assigned to parsed addresses when
// the source text carries none. Every supported MLS feed is US-based.
const DefaultCountry = "US"

// DefaultCurrency is the currency assumed for all monetary fields.
const DefaultCurrency = "USD"

// Lifecycle states inferred from status text during a build.
const (
	LifecycleDraft     = "draft"
	LifecyclePublished = "published"
)

// BoundingBox locates a label/value pair on the source page. Optional;
// carried through for audit display only.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExtractedLabelValue is one raw observation from the upstream document
// extraction layer. The engine never mutates it.
type ExtractedLabelValue struct {
	Label     string       `json:"label"`
	Value     any          `json:"value"` // string, float64, bool, or nil
	Section   string       `json:"section,omitempty"`
	BBox      *BoundingBox `json:"bbox,omitempty"`
	Bold      bool         `json:"bold,omitempty"`
	Uppercase bool         `json:"uppercase,omitempty"`
}

// Address is the structured form of a parsed listing address. Components
// the parser could not determine are empty strings.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Empty reports whether the address carries no usable street component.
func (a *Address) Empty() bool {
	return a == nil || a.Street == ""
}

// SourceDescriptor identifies where an extraction batch came from. It is
// carried through the build unchanged.
type SourceDescriptor struct {
	IngestionType string `json:"ingestion_type,omitempty"` // document, spreadsheet, api
	Vendor        string `json:"vendor,omitempty"`
	FormatVersion string `json:"format_version,omitempty"`
	MLSNumber     string `json:"mls_number,omitempty"`
}

// Basic holds the identity block of a draft listing.
type Basic struct {
	Status        string   `json:"status"`
	Lifecycle     string   `json:"lifecycle"`
	MLSNumber     *string  `json:"mls_number"`
	PropertyType  *string  `json:"property_type"`
	ListPrice     *int     `json:"list_price"`
	PriceCurrency string   `json:"price_currency"`
	Address       *Address `json:"address"`
}

// Details holds the physical attributes of a draft listing.
type Details struct {
	Beds           *int     `json:"beds"`
	BathsTotal     *float64 `json:"baths_total"`
	BathsFull      *float64 `json:"baths_full"`
	BathsHalf      *float64 `json:"baths_half"`
	YearBuilt      *int     `json:"year_built"`
	LivingAreaSqft *int     `json:"living_area_sqft"`
	TotalAreaSqft  *int     `json:"total_area_sqft"`
	LotAcres       *float64 `json:"lot_acres"`
	LotSqft        *int     `json:"lot_sqft"`
	GarageSpaces   *int     `json:"garage_spaces"`
	Waterfront     *bool    `json:"waterfront"`
	Pool           *bool    `json:"pool"`
	Subdivision    *string  `json:"subdivision"`
}

// TaxesFees holds tax and association-fee fields.
type TaxesFees struct {
	TaxYear      *int    `json:"tax_year"`
	TotalTaxBill *int    `json:"total_tax_bill"`
	HOAFee       *int    `json:"hoa_fee"`
	MasterHOAFee *int    `json:"master_hoa_fee"`
	Zoning       *string `json:"zoning"`
}

// Remarks holds free-text listing copy.
type Remarks struct {
	Public *string `json:"public"`
}

// Media holds the deduplicated image list for a draft.
type Media struct {
	URLs          []string `json:"urls"`
	CoverIndex    int      `json:"cover_index"`
	DetectedTotal int      `json:"detected_total"`
}

// Diagnostics is the per-build data-quality report. Confidence holds an
// entry iff some extraction was assigned into that field; a field populated
// only by a default (e.g. currency) has no entry.
type Diagnostics struct {
	Confidence map[CanonicalField]float64 `json:"confidence"`
	Missing    []CanonicalField           `json:"missing"`
	Warnings   []string                   `json:"warnings"`
	Issues     []string                   `json:"issues"`
}

// CanonicalDraftListing is the finished output record. It is created fresh
// per extraction batch, fully populated in one pass, and never mutated by
// the engine afterwards.
type CanonicalDraftListing struct {
	Basic       Basic            `json:"basic"`
	Details     Details          `json:"details"`
	TaxesFees   TaxesFees        `json:"taxes_fees"`
	Remarks     Remarks          `json:"remarks"`
	Media       Media            `json:"media"`
	Source      SourceDescriptor `json:"source"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}
