package meta

import (
	"strconv"
	"strings"
)

// Robots holds crawler directives. GoogleBot, when set, overrides the generic
// directives for Google's crawler only.
type Robots struct {
	Index     bool       `json:"index"`
	Follow    bool       `json:"follow"`
	NoCache   bool       `json:"nocache,omitempty"`
	GoogleBot *GoogleBot `json:"googleBot,omitempty"`
}

// GoogleBot holds the directives addressed to Google's crawler.
type GoogleBot struct {
	Index           bool   `json:"index"`
	Follow          bool   `json:"follow"`
	NoImageIndex    bool   `json:"noimageindex,omitempty"`
	MaxVideoPreview int    `json:"max-video-preview"`
	MaxImagePreview string `json:"max-image-preview,omitempty"`
	MaxSnippet      int    `json:"max-snippet"`
}

// PostRobots is the crawler policy of post pages. Generic crawlers may follow
// links but must not index or cache the page; Google may index it, without
// following links or indexing images, and with unlimited previews.
func PostRobots() Robots {
	return Robots{
		Index:   false,
		Follow:  true,
		NoCache: true,
		GoogleBot: &GoogleBot{
			Index:           true,
			Follow:          false,
			NoImageIndex:    true,
			MaxVideoPreview: -1,
			MaxImagePreview: "large",
			MaxSnippet:      -1,
		},
	}
}

// SiteRobots is the crawler policy of top-level pages.
func SiteRobots() Robots {
	return Robots{Index: true, Follow: true}
}

// Content returns the value of a <meta name="robots"> tag.
func (r Robots) Content() string {
	d := []string{pick(r.Index, "index", "noindex"), pick(r.Follow, "follow", "nofollow")}
	if r.NoCache {
		d = append(d, "nocache")
	}
	return strings.Join(d, ", ")
}

// Content returns the value of a <meta name="googlebot"> tag.
func (g GoogleBot) Content() string {
	d := []string{pick(g.Index, "index", "noindex"), pick(g.Follow, "follow", "nofollow")}
	if g.NoImageIndex {
		d = append(d, "noimageindex")
	}
	d = append(d, "max-video-preview:"+strconv.Itoa(g.MaxVideoPreview))
	if g.MaxImagePreview != "" {
		d = append(d, "max-image-preview:"+g.MaxImagePreview)
	}
	d = append(d, "max-snippet:"+strconv.Itoa(g.MaxSnippet))
	return strings.Join(d, ", ")
}

func pick(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// RobotsTxt returns the robots.txt of the site, pointing crawlers at the sitemap.
func (s *Synthesizer) RobotsTxt() string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + s.cfg.absolute("sitemap.xml") + "\n"
}
