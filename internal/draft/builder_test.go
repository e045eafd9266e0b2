package draft

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hatch-crm/mlsdraft/internal/match"
	"github.com/hatch-crm/mlsdraft/internal/schema"
)

func sampleBatch() Input {
	return Input{
		Extractions: []schema.ExtractedLabelValue{
			{Label: "MLS #", Value: "2025014110", Section: "General Information"},
			{Label: "Status", Value: "Active", Section: "General Information"},
			{Label: "List Price", Value: "$264,800", Section: "General Information"},
			{Label: "Address", Value: "123 Oak Lane, Lehigh Acres, FL 33971", Section: "General Information"},
			{Label: "Property Type", Value: "Single Family Residence", Section: "General Information"},
			{Label: "Bedrooms", Value: "3", Section: "Property Details"},
			{Label: "Bathrooms", Value: "2 (2 0)", Section: "Property Details"},
			{Label: "Year Built", Value: "2005", Section: "Property Details"},
			{Label: "Approx. Living Area", Value: "1,150 Sq Ft", Section: "Property Details"},
			{Label: "Approx. Total Area", Value: "1,500 Sq Ft", Section: "Property Details"},
			{Label: "Lot Size", Value: "0.25 Acres / 10,890 Sq Ft", Section: "Lot & Taxes"},
			{Label: "# Garage Spaces", Value: "1", Section: "Property Details"},
			{Label: "Waterfront", Value: "N", Section: "Property Details"},
			{Label: "Private Pool", Value: "No", Section: "Property Details"},
			{Label: "Subdivision", Value: "MIRROR LAKES", Section: "General Information"},
			{Label: "Zoning", Value: "RS-1", Section: "Lot & Taxes"},
			{Label: "Tax Year", Value: "2024", Section: "Tax Information"},
			{Label: "Annual Taxes", Value: "$3,100", Section: "Tax Information"},
			{Label: "Photo Count", Value: "24", Section: "Photos"},
		},
		RemarksText: "Charming three bedroom home with a fenced yard.",
		Source: schema.SourceDescriptor{
			IngestionType: "document",
			Vendor:        "flexmls",
		},
	}
}

func TestBuild_SampleRecord(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	res := b.Build(sampleBatch())
	d := res.Draft

	if d.Basic.MLSNumber == nil || *d.Basic.MLSNumber != "2025014110" {
		t.Errorf("mls_number = %v", d.Basic.MLSNumber)
	}
	if d.Basic.Status != "Active" || d.Basic.Lifecycle != schema.LifecyclePublished {
		t.Errorf("status = %q lifecycle = %q", d.Basic.Status, d.Basic.Lifecycle)
	}
	if d.Basic.ListPrice == nil || *d.Basic.ListPrice != 264800 {
		t.Errorf("list_price = %v", d.Basic.ListPrice)
	}
	if d.Basic.PriceCurrency != "USD" {
		t.Errorf("price_currency = %q", d.Basic.PriceCurrency)
	}
	addr := d.Basic.Address
	if addr == nil {
		t.Fatal("address not set")
	}
	if addr.Street != "123 Oak Lane" || addr.City != "Lehigh Acres" ||
		addr.State != "FL" || addr.PostalCode != "33971" || addr.Country != "US" {
		t.Errorf("address = %+v", addr)
	}
	if d.Details.Beds == nil || *d.Details.Beds != 3 {
		t.Errorf("beds = %v", d.Details.Beds)
	}
	if d.Details.BathsTotal == nil || *d.Details.BathsTotal != 2 {
		t.Errorf("baths_total = %v", d.Details.BathsTotal)
	}
	if d.Details.BathsFull == nil || *d.Details.BathsFull != 2 {
		t.Errorf("baths_full = %v", d.Details.BathsFull)
	}
	if d.Details.BathsHalf == nil || *d.Details.BathsHalf != 0 {
		t.Errorf("baths_half = %v", d.Details.BathsHalf)
	}
	if d.Details.YearBuilt == nil || *d.Details.YearBuilt != 2005 {
		t.Errorf("year_built = %v", d.Details.YearBuilt)
	}
	if d.Details.LivingAreaSqft == nil || *d.Details.LivingAreaSqft != 1150 {
		t.Errorf("living_area_sqft = %v", d.Details.LivingAreaSqft)
	}
	if d.Details.TotalAreaSqft == nil || *d.Details.TotalAreaSqft != 1500 {
		t.Errorf("total_area_sqft = %v", d.Details.TotalAreaSqft)
	}
	if d.Details.LotAcres == nil || *d.Details.LotAcres != 0.25 {
		t.Errorf("lot_acres = %v", d.Details.LotAcres)
	}
	if d.Details.LotSqft == nil || *d.Details.LotSqft != 10890 {
		t.Errorf("lot_sqft = %v (derived from the acreage line)", d.Details.LotSqft)
	}
	if d.Details.GarageSpaces == nil || *d.Details.GarageSpaces != 1 {
		t.Errorf("garage_spaces = %v", d.Details.GarageSpaces)
	}
	if d.Details.Waterfront == nil || *d.Details.Waterfront {
		t.Errorf("waterfront = %v", d.Details.Waterfront)
	}
	if d.Details.Pool == nil || *d.Details.Pool {
		t.Errorf("pool = %v", d.Details.Pool)
	}
	if d.Details.Subdivision == nil || *d.Details.Subdivision != "MIRROR LAKES" {
		t.Errorf("subdivision = %v", d.Details.Subdivision)
	}
	if d.TaxesFees.Zoning == nil || *d.TaxesFees.Zoning != "RS-1" {
		t.Errorf("zoning = %v", d.TaxesFees.Zoning)
	}
	if d.TaxesFees.TaxYear == nil || *d.TaxesFees.TaxYear != 2024 {
		t.Errorf("tax_year = %v", d.TaxesFees.TaxYear)
	}
	if d.TaxesFees.TotalTaxBill == nil || *d.TaxesFees.TotalTaxBill != 3100 {
		t.Errorf("total_tax_bill = %v", d.TaxesFees.TotalTaxBill)
	}
	if d.Remarks.Public == nil || !strings.Contains(*d.Remarks.Public, "fenced yard") {
		t.Errorf("remarks = %v", d.Remarks.Public)
	}
	if d.Media.DetectedTotal != 24 {
		t.Errorf("detected_total = %d", d.Media.DetectedTotal)
	}

	if len(d.Diagnostics.Missing) != 0 {
		t.Errorf("missing = %v, want none", d.Diagnostics.Missing)
	}
	if len(d.Diagnostics.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", d.Diagnostics.Warnings)
	}
	if len(d.Diagnostics.Issues) != 0 {
		t.Errorf("issues = %v, want none", d.Diagnostics.Issues)
	}
	for field, score := range d.Diagnostics.Confidence {
		if score < match.DefaultFallbackThreshold || score > 1 {
			t.Errorf("confidence[%s] = %v out of range", field, score)
		}
	}
	// Derived fields carry the confidence of the match that produced them.
	for _, f := range []schema.CanonicalField{schema.FieldBathsFull, schema.FieldBathsHalf, schema.FieldLotSqft} {
		if _, ok := d.Diagnostics.Confidence[f]; !ok {
			t.Errorf("no confidence entry for derived field %s", f)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	in := sampleBatch()

	first := b.Build(in).Draft
	second := b.Build(in).Draft
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated builds of the same batch differ")
	}

	reversed := sampleBatch()
	for i, j := 0, len(reversed.Extractions)-1; i < j; i, j = i+1, j-1 {
		reversed.Extractions[i], reversed.Extractions[j] = reversed.Extractions[j], reversed.Extractions[i]
	}
	if got := b.Build(reversed).Draft; !reflect.DeepEqual(first, got) {
		t.Error("extraction order changed the draft")
	}
}

func TestBuild_HigherScoreWinsEitherOrder(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	// The typo label must not contain any catalog alias verbatim: a label
	// like "Listt Price" still holds "price" whole, and containment scores
	// 1.0, which would tie with the exact label instead of losing to it.
	typo := schema.ExtractedLabelValue{Label: "List Pricce", Value: "$100,000"}
	exact := schema.ExtractedLabelValue{Label: "List Price", Value: "$264,800"}

	for name, exs := range map[string][]schema.ExtractedLabelValue{
		"typo_first":  {typo, exact},
		"exact_first": {exact, typo},
	} {
		res := b.Build(Input{Extractions: exs})
		if res.Draft.Basic.ListPrice == nil || *res.Draft.Basic.ListPrice != 264800 {
			t.Errorf("%s: list_price = %v, want the higher-scoring value", name, res.Draft.Basic.ListPrice)
		}
		if got := res.Draft.Diagnostics.Confidence[schema.FieldListPrice]; got != 1.0 {
			t.Errorf("%s: confidence = %v, want 1.0", name, got)
		}
	}
}

func TestBuild_EqualScoreKeepsFirstSeen(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	res := b.Build(Input{Extractions: []schema.ExtractedLabelValue{
		{Label: "List Price", Value: "$100,000"},
		{Label: "List Price", Value: "$200,000"},
	}})
	if res.Draft.Basic.ListPrice == nil || *res.Draft.Basic.ListPrice != 100000 {
		t.Errorf("list_price = %v, want the first-seen value", res.Draft.Basic.ListPrice)
	}
}

func TestBuild_UnparseableValueBecomesIssue(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	res := b.Build(Input{Extractions: []schema.ExtractedLabelValue{
		{Label: "Waterfront", Value: "Unknown"},
	}})
	d := res.Draft
	if d.Details.Waterfront != nil {
		t.Errorf("waterfront = %v, want unset", d.Details.Waterfront)
	}
	if _, ok := d.Diagnostics.Confidence[schema.FieldWaterfront]; ok {
		t.Error("no confidence entry should exist for an unparseable value")
	}
	if len(d.Diagnostics.Issues) != 1 || !strings.Contains(d.Diagnostics.Issues[0], "waterfront") {
		t.Errorf("issues = %v", d.Diagnostics.Issues)
	}
}

func TestBuild_EmptyBatchMissing(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	res := b.Build(Input{})
	got := res.Draft.Diagnostics.Missing
	want := schema.RequiredFields()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("missing = %v, want %v", got, want)
	}
	if res.Draft.Basic.Status != schema.LifecycleDraft {
		t.Errorf("default status = %q", res.Draft.Basic.Status)
	}
	if res.Draft.Media.URLs == nil {
		t.Error("media urls must be an empty slice, not nil")
	}
}

func TestBuild_LivingExceedsTotalWarning(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	res := b.Build(Input{Extractions: []schema.ExtractedLabelValue{
		{Label: "Living Area", Value: "2,000 Sq Ft"},
		{Label: "Total Area", Value: "1,500 Sq Ft"},
	}})
	ws := res.Draft.Diagnostics.Warnings
	if len(ws) != 1 || !strings.Contains(ws[0], "exceeds") {
		t.Errorf("warnings = %v", ws)
	}
}

func TestBuild_StatusLifecycle(t *testing.T) {
	tests := []struct {
		value     string
		status    string
		lifecycle string
	}{
		{"Active (Under Contract)", "Active", schema.LifecyclePublished},
		{"Sold", "Sold", schema.LifecyclePublished},
		{"Coming Soon", "Coming Soon", schema.LifecycleDraft},
		{"Withdrawn", "Withdrawn", schema.LifecycleDraft},
	}
	b := NewBuilder(match.DefaultOptions())
	for _, tc := range tests {
		res := b.Build(Input{Extractions: []schema.ExtractedLabelValue{
			{Label: "Status", Value: tc.value},
		}})
		if res.Draft.Basic.Status != tc.status {
			t.Errorf("%q: status = %q, want %q", tc.value, res.Draft.Basic.Status, tc.status)
		}
		if res.Draft.Basic.Lifecycle != tc.lifecycle {
			t.Errorf("%q: lifecycle = %q, want %q", tc.value, res.Draft.Basic.Lifecycle, tc.lifecycle)
		}
	}
}

func TestBuild_MLSNumberTokenCleanup(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	res := b.Build(Input{Extractions: []schema.ExtractedLabelValue{
		{Label: "MLS Number", Value: "MLS# 2025014110"},
	}})
	if got := res.Draft.Basic.MLSNumber; got == nil || *got != "2025014110" {
		t.Errorf("mls_number = %v, want bare token", got)
	}
}

func TestBuild_RemarksPrecedence(t *testing.T) {
	b := NewBuilder(match.DefaultOptions())
	labeled := schema.ExtractedLabelValue{Label: "Public Remarks", Value: "from label"}

	res := b.Build(Input{
		Extractions: []schema.ExtractedLabelValue{labeled},
		RemarksText: "explicit text",
	})
	if res.Draft.Remarks.Public == nil || *res.Draft.Remarks.Public != "explicit text" {
		t.Errorf("remarks = %v, want explicit text to win", res.Draft.Remarks.Public)
	}

	res = b.Build(Input{
		Extractions: []schema.ExtractedLabelValue{labeled},
		RemarksList: []string{"first paragraph", "  ", "second paragraph"},
		RemarksText: "ignored when a list is present",
	})
	want := "first paragraph\n\nsecond paragraph"
	if res.Draft.Remarks.Public == nil || *res.Draft.Remarks.Public != want {
		t.Errorf("remarks = %v, want joined list", res.Draft.Remarks.Public)
	}

	res = b.Build(Input{Extractions: []schema.ExtractedLabelValue{labeled}})
	if res.Draft.Remarks.Public == nil || *res.Draft.Remarks.Public != "from label" {
		t.Errorf("remarks = %v, want label fallback", res.Draft.Remarks.Public)
	}
}

func TestBuild_AddressStringFallback(t *testing.T) {
	// A street-only line with no commas still claims the address slot.
	b := NewBuilder(match.DefaultOptions())
	res := b.Build(Input{Extractions: []schema.ExtractedLabelValue{
		{Label: "Property Address", Value: "123 Oak Lane"},
	}})
	addr := res.Draft.Basic.Address
	if addr == nil || addr.Street != "123 Oak Lane" || addr.City != "" {
		t.Errorf("address = %+v", addr)
	}
	if addr != nil && addr.Country != "US" {
		t.Errorf("country = %q", addr.Country)
	}
}
