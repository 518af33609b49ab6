package musicbrainz

import (
	"net/url"
	"strconv"
	"strings"
)

// Release is a MusicBrainz release as returned by search and lookup.
type Release struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Score     int         `json:"score"`
	Country   string      `json:"country"`
	Date      string      `json:"date"`
	Barcode   string      `json:"barcode"`
	LabelInfo []LabelInfo `json:"label-info"`
	Media     []Medium    `json:"media"`
	Relations []Relation  `json:"relations"`
}

// LabelInfo pairs a label with the catalog number printed for it.
type LabelInfo struct {
	CatalogNumber string `json:"catalog-number"`
	Label         *Label `json:"label,omitempty"`
}

// Label is a record label entity.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Medium is one disc or side set of a release.
type Medium struct {
	Format string `json:"format"`
}

// Relation links a release to another entity. URL relations carry the
// target in URL.
type Relation struct {
	Type       string       `json:"type"`
	TargetType string       `json:"target-type"`
	URL        *RelationURL `json:"url,omitempty"`
}

// RelationURL holds URL data within a relation.
type RelationURL struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
}

type searchResponse struct {
	Count    int       `json:"count"`
	Releases []Release `json:"releases"`
}

// DiscogsReleaseID returns the Discogs release linked from the release's
// URL relations. Links to a Discogs master are not a release and are
// skipped.
func (r *Release) DiscogsReleaseID() (int, bool) {
	for _, rel := range r.Relations {
		if rel.URL == nil {
			continue
		}
		if id, ok := discogsReleaseFromURL(rel.URL.Resource); ok {
			return id, true
		}
	}
	return 0, false
}

// discogsReleaseFromURL parses https://www.discogs.com/release/<id>, with
// or without a trailing slug.
func discogsReleaseFromURL(raw string) (int, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if host := strings.ToLower(u.Hostname()); host != "discogs.com" && !strings.HasSuffix(host, ".discogs.com") {
		return 0, false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] != "release" {
			continue
		}
		seg := parts[i+1]
		if j := strings.IndexByte(seg, '-'); j > 0 {
			seg = seg[:j]
		}
		id, err := strconv.Atoi(seg)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

// Pick selects the best candidate for req. A catalog number match wins,
// then label, vinyl media when the format asks for vinyl, country, year,
// and finally the first result. Returns nil for no candidates.
func Pick(releases []Release, req SearchRequest) *Release {
	if len(releases) == 0 {
		return nil
	}

	matchers := []func(*Release) bool{}
	if want := normalize(req.Catalog); want != "" {
		matchers = append(matchers, func(r *Release) bool {
			for _, li := range r.LabelInfo {
				if normalize(li.CatalogNumber) == want {
					return true
				}
			}
			return false
		})
	}
	if want := normalize(req.Label); want != "" {
		matchers = append(matchers, func(r *Release) bool {
			for _, li := range r.LabelInfo {
				if li.Label != nil && normalize(li.Label.Name) == want {
					return true
				}
			}
			return false
		})
	}
	if wantsVinyl(req.Format) {
		matchers = append(matchers, func(r *Release) bool {
			for _, m := range r.Media {
				if strings.Contains(strings.ToLower(m.Format), "vinyl") {
					return true
				}
			}
			return false
		})
	}
	if want := normalize(req.Country); want != "" {
		matchers = append(matchers, func(r *Release) bool {
			return normalize(r.Country) == want
		})
	}
	if req.Year > 0 {
		want := strconv.Itoa(req.Year)
		matchers = append(matchers, func(r *Release) bool {
			return strings.HasPrefix(r.Date, want)
		})
	}

	for _, match := range matchers {
		for i := range releases {
			if match(&releases[i]) {
				return &releases[i]
			}
		}
	}
	return &releases[0]
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func wantsVinyl(format string) bool {
	f := strings.ToLower(format)
	for _, hint := range []string{"vinyl", "lp", "12\"", "7\"", "10\""} {
		if strings.Contains(f, hint) {
			return true
		}
	}
	return false
}
