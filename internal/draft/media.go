package draft

import (
	"sort"

	"github.com/hatch-crm/mlsdraft/internal/schema"
)

// ImageMeta carries optional pixel dimensions for a media URL, used to
// pick a cover shot when the caller does not choose one.
type ImageMeta struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// MediaInput is the media side channel of a build.
type MediaInput struct {
	URLs          []string    `json:"urls,omitempty"`
	Images        []ImageMeta `json:"images,omitempty"`
	CoverIndex    *int        `json:"cover_index,omitempty"`
	DetectedTotal *int        `json:"detected_total,omitempty"`
}

// applyMedia merges the media side channel: URLs are deduplicated in
// first-seen order, the cover index is validated against the deduplicated
// bounds, and the detected total falls back from the caller's count to the
// URL count to any photo-count label match already assigned.
func applyMedia(d *schema.CanonicalDraftListing, in MediaInput) {
	urls := dedupeURLs(in.URLs)
	d.Media.URLs = urls

	cover := 0
	if in.CoverIndex != nil && *in.CoverIndex >= 0 && *in.CoverIndex < len(urls) {
		cover = *in.CoverIndex
	} else if idx := pickCover(urls, in.Images); idx >= 0 {
		cover = idx
	}
	d.Media.CoverIndex = cover

	switch {
	case in.DetectedTotal != nil:
		d.Media.DetectedTotal = *in.DetectedTotal
	case len(urls) > 0:
		d.Media.DetectedTotal = len(urls)
	}
}

func dedupeURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// pickCover chooses the strongest cover shot when image dimensions are
// known: landscape before portrait, larger area first, earlier page wins
// ties. Returns -1 when no dimensioned image maps into the URL list.
func pickCover(urls []string, images []ImageMeta) int {
	if len(images) == 0 || len(urls) == 0 {
		return -1
	}
	pos := make(map[string]int, len(urls))
	for i, u := range urls {
		pos[u] = i
	}
	var known []ImageMeta
	for _, img := range images {
		if img.Width > 0 && img.Height > 0 {
			if _, ok := pos[img.URL]; ok {
				known = append(known, img)
			}
		}
	}
	if len(known) == 0 {
		return -1
	}
	sort.SliceStable(known, func(i, j int) bool {
		li := landscapeRank(known[i])
		lj := landscapeRank(known[j])
		if li != lj {
			return li < lj
		}
		ai := known[i].Width * known[i].Height
		aj := known[j].Width * known[j].Height
		if ai != aj {
			return ai > aj
		}
		return known[i].Page < known[j].Page
	})
	return pos[known[0].URL]
}

func landscapeRank(img ImageMeta) int {
	if img.Width >= img.Height {
		return 0
	}
	return 1
}
