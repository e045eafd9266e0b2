package postproc

import "github.com/hatch-crm/mlsdraft/internal/schema"

// Result is the outcome of running the pipeline for one matched value:
// the primary typed value for the winning field plus any values derived
// for other canonical fields from the same raw text.
type Result struct {
	Value   any
	Applied []schema.PostKey
	Derived map[schema.CanonicalField]any
}

// Run applies the given processor keys in order to the raw value matched
// for field. The first non-nil result becomes the primary value, except
// that the baths processor unconditionally claims the primary with its
// total component and a parsed address unconditionally wins over scalar
// fallbacks.
//
// Independent of the requested keys, a lot_acres primary also attempts a
// square-footage parse of the same text (and vice versa), modeling source
// lines that print both units together ("0.25 Acres / 10,890 Sq Ft").
func Run(keys []schema.PostKey, field schema.CanonicalField, raw string) Result {
	res := Result{}
	for _, key := range keys {
		out, ok := apply(key, field, raw, &res)
		if !ok {
			continue
		}
		res.Applied = append(res.Applied, key)
		if out == nil {
			continue
		}
		switch key {
		case schema.PostBaths, schema.PostAddress:
			// These always claim the primary slot when they parse.
			res.Value = out
		default:
			if res.Value == nil {
				res.Value = out
			}
		}
	}

	switch field {
	case schema.FieldLotAcres:
		if v := AreaFt(raw); v != nil {
			res.setDerived(schema.FieldLotSqft, *v)
		}
	case schema.FieldLotSqft:
		if v := Acres(raw); v != nil {
			res.setDerived(schema.FieldLotAcres, *v)
		}
	}
	return res
}

// apply runs one processor. The second return is false for unknown keys,
// which are skipped without being recorded as applied.
func apply(key schema.PostKey, field schema.CanonicalField, raw string, res *Result) (any, bool) {
	switch key {
	case schema.PostCurrency:
		if v := Currency(raw); v != nil {
			return *v, true
		}
		return nil, true
	case schema.PostInt:
		if v := Int(raw); v != nil {
			return *v, true
		}
		return nil, true
	case schema.PostFloat:
		if v := Float(raw); v != nil {
			return *v, true
		}
		return nil, true
	case schema.PostBool:
		if v := Bool(raw); v != nil {
			return *v, true
		}
		return nil, true
	case schema.PostString:
		if v := CleanString(raw); v != nil {
			return *v, true
		}
		return nil, true
	case schema.PostAddress:
		if v := ParseAddress(raw); v != nil {
			return v, true
		}
		return nil, true
	case schema.PostAreaFt:
		if v := AreaFt(raw); v != nil {
			return *v, true
		}
		return nil, true
	case schema.PostAcres:
		if v := Acres(raw); v != nil {
			return *v, true
		}
		return nil, true
	case schema.PostBaths:
		counts := Baths(raw)
		if counts.Total == nil {
			return nil, true
		}
		if counts.Full != nil {
			res.setDerived(schema.FieldBathsFull, *counts.Full)
		}
		if counts.Half != nil {
			res.setDerived(schema.FieldBathsHalf, *counts.Half)
		}
		return *counts.Total, true
	}
	return nil, false
}

func (r *Result) setDerived(field schema.CanonicalField, v any) {
	if r.Derived == nil {
		r.Derived = map[schema.CanonicalField]any{}
	}
	r.Derived[field] = v
}
