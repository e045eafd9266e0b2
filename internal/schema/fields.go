// Package schema defines the canonical listing schema for the field
// extraction engine: the closed set of canonical fields, the typed draft
// record produced for each extraction batch, and the static catalog of
// fuzzy label candidates used by the matcher.
//
// Everything in this package is pure data. Malformed catalog entries are a
// programming error caught by tests, not a runtime condition.
package schema

// CanonicalField identifies one entry in the fixed target schema that
// source labels are mapped onto. The set is closed: adding a field requires
// a catalog entry and a draft slot together.
type CanonicalField string

const (
	FieldListPrice      CanonicalField = "list_price"
	FieldMLSNumber      CanonicalField = "mls_number"
	FieldAddress        CanonicalField = "address"
	FieldStatus         CanonicalField = "status"
	FieldBeds           CanonicalField = "beds"
	FieldBathsTotal     CanonicalField = "baths_total"
	FieldBathsFull      CanonicalField = "baths_full"
	FieldBathsHalf      CanonicalField = "baths_half"
	FieldYearBuilt      CanonicalField = "year_built"
	FieldLivingAreaSqft CanonicalField = "living_area_sqft"
	FieldTotalAreaSqft  CanonicalField = "total_area_sqft"
	FieldLotAcres       CanonicalField = "lot_acres"
	FieldLotSqft        CanonicalField = "lot_sqft"
	FieldPropertyType   CanonicalField = "property_type"
	FieldSubdivision    CanonicalField = "subdivision"
	FieldWaterfront     CanonicalField = "waterfront"
	FieldPool           CanonicalField = "pool"
	FieldGarageSpaces   CanonicalField = "garage_spaces"
	FieldTaxYear        CanonicalField = "tax_year"
	FieldTotalTaxBill   CanonicalField = "total_tax_bill"
	FieldHOAFee         CanonicalField = "hoa_fee"
	FieldMasterHOAFee   CanonicalField = "master_hoa_fee"
	FieldZoning         CanonicalField = "zoning"
	FieldRemarksPublic  CanonicalField = "remarks_public"
	FieldImagesDetected CanonicalField = "images_detected"
)

// AllFields lists every canonical field in declaration order.
var AllFields = []CanonicalField{
	FieldListPrice, FieldMLSNumber, FieldAddress, FieldStatus,
	FieldBeds, FieldBathsTotal, FieldBathsFull, FieldBathsHalf,
	FieldYearBuilt, FieldLivingAreaSqft, FieldTotalAreaSqft,
	FieldLotAcres, FieldLotSqft, FieldPropertyType, FieldSubdivision,
	FieldWaterfront, FieldPool, FieldGarageSpaces,
	FieldTaxYear, FieldTotalTaxBill, FieldHOAFee, FieldMasterHOAFee,
	FieldZoning, FieldRemarksPublic, FieldImagesDetected,
}

// requiredFields is the fixed set whose absence is reported in
// diagnostics.missing: identifiers, price, address, core physical
// attributes, property type, and subdivision.
var requiredFields = []CanonicalField{
	FieldMLSNumber,
	FieldListPrice,
	FieldAddress,
	FieldBeds,
	FieldBathsTotal,
	FieldLivingAreaSqft,
	FieldPropertyType,
	FieldSubdivision,
}

// RequiredFields returns the canonical fields whose absence must be
// reported as missing. The returned slice is a copy.
func RequiredFields() []CanonicalField {
	out := make([]CanonicalField, len(requiredFields))
	copy(out, requiredFields)
	return out
}
