package meta

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/folio-site/folio/post"
)

// Metadata describes the head of a page: title, description, social previews
// and crawler directives.
type Metadata struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Creator     string     `json:"creator,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	Manifest    string     `json:"manifest,omitempty"`
	Category    string     `json:"category,omitempty"`
	Alternates  Alternates `json:"alternates"`
	OpenGraph   OpenGraph  `json:"openGraph"`
	Twitter     Twitter    `json:"twitter"`
	Robots      Robots     `json:"robots"`
}

// Alternates holds the canonical URL of a page.
type Alternates struct {
	Canonical string `json:"canonical"`
}

// OpenGraph holds the Open Graph properties of a page.
type OpenGraph struct {
	SiteName      string  `json:"siteName"`
	Locale        string  `json:"locale"`
	PublishedTime string  `json:"publishedTime,omitempty"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Type          string  `json:"type"`
	URL           string  `json:"url"`
	Images        []Image `json:"images,omitempty"`
}

// Image is a preview image reference.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

// Twitter holds the Twitter card properties of a page.
type Twitter struct {
	Card        string   `json:"card"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images,omitempty"`
}

// Synthesizer builds metadata from posts using a fixed Config.
type Synthesizer struct {
	cfg Config
}

// New returns a Synthesizer for cfg. The base URL must be an absolute http(s) URL.
func New(cfg Config) (*Synthesizer, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("meta.New: %w", err)
	}
	return &Synthesizer{cfg: cfg}, nil
}

// Config returns the effective configuration, defaults included.
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// PostPath returns the site-relative route of a post.
func (s *Synthesizer) PostPath(p post.Post) string {
	return s.cfg.BlogPath + "/" + p.FilenameSlug
}

// CanonicalURL returns the absolute URL of a post.
func (s *Synthesizer) CanonicalURL(p post.Post) string {
	return s.cfg.absolute(s.PostPath(p))
}

// ImageURL returns the preview image URL for a page with the given title and slug.
// Title text is query-escaped before it is handed to the placeholder service.
func (s *Synthesizer) ImageURL(title, slug string) string {
	img := s.cfg.Image
	if img.SelfHosted {
		return s.cfg.absolute("og", slug+".png")
	}
	return fmt.Sprintf("%s%dx%d.png/%s/%s/?text=%s",
		img.Service, img.Width, img.Height, img.Background, img.Foreground, url.QueryEscape(title))
}

// PageMetadata builds the metadata of a post page. The display title is the
// post's SEO title, falling back to its title.
func (s *Synthesizer) PageMetadata(p post.Post) Metadata {
	attrs := p.ParsedContent.Attributes
	title := attrs.DisplayTitle()
	description := attrs.Summary
	canonical := s.CanonicalURL(p)
	imageURL := s.ImageURL(title, p.FilenameSlug)
	return Metadata{
		Title:       title,
		Description: description,
		Creator:     s.cfg.Creator,
		Keywords:    append([]string(nil), attrs.Tags...),
		Manifest:    s.cfg.absolute(s.cfg.Manifest),
		Category:    s.cfg.Category,
		Alternates:  Alternates{Canonical: canonical},
		OpenGraph: OpenGraph{
			SiteName:      s.cfg.SiteName,
			Locale:        s.cfg.Locale,
			PublishedTime: attrs.FirstModDate.String(),
			Title:         title,
			Description:   description,
			Type:          "article",
			URL:           canonical,
			Images: []Image{{
				URL:    imageURL,
				Width:  s.cfg.Image.Width,
				Height: s.cfg.Image.Height,
				Alt:    title,
			}},
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Images:      []string{imageURL},
		},
		Robots: PostRobots(),
	}
}

// SiteMetadata builds the metadata of a top-level page such as the home page.
// An empty title uses the site name.
func (s *Synthesizer) SiteMetadata(pagePath, title, description string) Metadata {
	if title == "" {
		title = s.cfg.SiteName
	} else if !strings.Contains(title, s.cfg.SiteName) {
		title = title + " | " + s.cfg.SiteName
	}
	canonical := s.cfg.absolute(pagePath)
	return Metadata{
		Title:       title,
		Description: description,
		Creator:     s.cfg.Creator,
		Manifest:    s.cfg.absolute(s.cfg.Manifest),
		Category:    s.cfg.Category,
		Alternates:  Alternates{Canonical: canonical},
		OpenGraph: OpenGraph{
			SiteName:    s.cfg.SiteName,
			Locale:      s.cfg.Locale,
			Title:       title,
			Description: description,
			Type:        "website",
			URL:         canonical,
		},
		Twitter: Twitter{
			Card:        "summary",
			Title:       title,
			Description: description,
		},
		Robots: SiteRobots(),
	}
}

// NotFoundMetadata builds the metadata of the not-found page.
func (s *Synthesizer) NotFoundMetadata() Metadata {
	m := s.SiteMetadata("/", "Not Found", "")
	m.Robots = Robots{Index: false, Follow: true}
	return m
}
