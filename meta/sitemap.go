package meta

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"time"
)

// ChangeFrequency is how often a page is expected to change.
type ChangeFrequency string

const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

// Valid reports whether f is one of the sitemap protocol values.
func (f ChangeFrequency) Valid() bool {
	switch f {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// RouteSpec describes a top-level route listed in the sitemap.
type RouteSpec struct {
	Path            string          `toml:"path"`
	ChangeFrequency ChangeFrequency `toml:"change_frequency"`
	Priority        float64         `toml:"priority"`
}

// SitemapEntry is one URL of the sitemap.
type SitemapEntry struct {
	URL             string          `json:"url"`
	LastModified    time.Time       `json:"lastModified"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency"`
	Priority        float64         `json:"priority"`
}

// DefaultRoutes returns the home, about and blog index routes.
func DefaultRoutes() []RouteSpec {
	return []RouteSpec{
		{Path: "/", ChangeFrequency: Yearly, Priority: 1},
		{Path: "/about", ChangeFrequency: Monthly, Priority: 0.8},
		{Path: "/blog", ChangeFrequency: Weekly, Priority: 0.5},
	}
}

// SitemapEntries returns one entry per route, stamped with lastModified.
// Individual post routes are not listed; only the given top-level routes are.
func (s *Synthesizer) SitemapEntries(routes []RouteSpec, lastModified time.Time) []SitemapEntry {
	entries := make([]SitemapEntry, 0, len(routes))
	for _, r := range routes {
		freq := r.ChangeFrequency
		if !freq.Valid() {
			freq = Monthly
		}
		entries = append(entries, SitemapEntry{
			URL:             s.cfg.absolute(r.Path),
			LastModified:    lastModified,
			ChangeFrequency: freq,
			Priority:        clamp(r.Priority),
		})
	}
	return entries
}

func clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0.5
	}
	return math.Max(0, math.Min(1, p))
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// WriteSitemap writes entries as a sitemaps.org XML document.
func WriteSitemap(w io.Writer, entries []SitemapEntry) error {
	urls := make([]sitemapURL, 0, len(entries))
	for _, e := range entries {
		u := sitemapURL{
			Loc:        e.URL,
			ChangeFreq: string(e.ChangeFrequency),
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		urls = append(urls, u)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}
