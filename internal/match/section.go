package match

import (
	"strings"

	"github.com/hatch-crm/mlsdraft/internal/schema"
)

// sectionKeyword maps a substring test onto a bucket. Tests run in order;
// the first hit wins, so more specific keywords come first ("room" before
// the generic "feature"-style detail words).
type sectionKeyword struct {
	substr string
	bucket schema.SectionBucket
}

var sectionKeywords = []sectionKeyword{
	{"photo", schema.SectionMedia},
	{"image", schema.SectionMedia},
	{"media", schema.SectionMedia},
	{"remark", schema.SectionRemarks},
	{"comment", schema.SectionRemarks},
	{"description", schema.SectionRemarks},
	{"fee", schema.SectionFees},
	{"hoa", schema.SectionFees},
	{"assessment", schema.SectionFees},
	{"tax", schema.SectionLotTaxes},
	{"lot", schema.SectionLotTaxes},
	{"room", schema.SectionRooms},
	{"general", schema.SectionGeneral},
	{"summary", schema.SectionGeneral},
	{"overview", schema.SectionGeneral},
	{"detail", schema.SectionDetails},
	{"interior", schema.SectionDetails},
	{"exterior", schema.SectionDetails},
}

// ClassifySection folds a free-text document section name into one of the
// fixed buckets. An empty section has no bucket; a non-empty name with no
// keyword hit falls into the "other" bucket.
func ClassifySection(section string) schema.SectionBucket {
	s := strings.ToLower(strings.TrimSpace(section))
	if s == "" {
		return schema.SectionNone
	}
	for _, kw := range sectionKeywords {
		if strings.Contains(s, kw.substr) {
			return kw.bucket
		}
	}
	return schema.SectionOther
}

// sectionPriors multiplies candidate scores for bucket-matched
// extractions. Buckets absent from the table are neutral (1.0). The
// header-like buckets get a small boost because labels there are far more
// likely to be real form fields than incidental text.
var sectionPriors = map[schema.SectionBucket]float64{
	schema.SectionGeneral: 1.05,
	schema.SectionDetails: 1.05,
}

// sectionPrior returns the prior weight for a bucket, 1.0 when unlisted.
func sectionPrior(bucket schema.SectionBucket) float64 {
	if p, ok := sectionPriors[bucket]; ok {
		return p
	}
	return 1.0
}
