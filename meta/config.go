// Package meta synthesizes page metadata and sitemap entries for the site.
package meta

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Config holds the site-wide settings the synthesizer needs.
type Config struct {
	BaseURL  string // Absolute URL of the site, e.g. "https://example.com"
	SiteName string // Display name; derived from BaseURL when empty
	Creator  string // Author credited in metadata
	Locale   string // Open Graph locale (default "en_US")
	Category string // Page category (default "everything")
	Manifest string // Path of the web app manifest (default "/manifest.json")
	BlogPath string // Path prefix of post routes (default "/blog")
	Image    ImageConfig
}

// ImageConfig controls the Open Graph preview image.
type ImageConfig struct {
	Width      int    // default 1200
	Height     int    // default 630
	Service    string // Placeholder service prefix; size, colors and text are appended
	Background string // Hex color without '#' (default "000000")
	Foreground string // Hex color without '#' (default "ffffff")
	SelfHosted bool   // Use "/og/<slug>.png" on this site instead of Service
}

const defaultImageService = "https://via.placeholder.com/"

func (c *Config) setDefaults() {
	if c.Locale == "" {
		c.Locale = "en_US"
	}
	if c.Category == "" {
		c.Category = "everything"
	}
	if c.Manifest == "" {
		c.Manifest = "/manifest.json"
	}
	if c.BlogPath == "" {
		c.BlogPath = "/blog"
	}
	if c.Image.Width == 0 {
		c.Image.Width = 1200
	}
	if c.Image.Height == 0 {
		c.Image.Height = 630
	}
	if c.Image.Service == "" {
		c.Image.Service = defaultImageService
	}
	if c.Image.Background == "" {
		c.Image.Background = "000000"
	}
	if c.Image.Foreground == "" {
		c.Image.Foreground = "ffffff"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.BlogPath = "/" + strings.Trim(c.BlogPath, "/")
	if c.SiteName == "" {
		c.SiteName = SiteName(c.BaseURL)
	}
}

// validate checks the settings that cannot be defaulted.
func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Image.Width < 0 || c.Image.Height < 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Image.Width, c.Image.Height)
	}
	return nil
}

// SiteName derives a display name from a base URL: the host without any "www."
// prefix or port. It returns baseURL unchanged when no host can be found.
func SiteName(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return baseURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// absolute joins the base URL with path segments.
func (c *Config) absolute(segments ...string) string {
	p := path.Join(segments...)
	if p == "" || p == "/" || p == "." {
		return c.BaseURL
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.BaseURL + p
}
