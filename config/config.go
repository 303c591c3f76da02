// Package config reads the folio.toml site configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/ogimage"
)

// DefaultFile is the name of the configuration file in the site root.
const DefaultFile = "folio.toml"

// Config contains configuration data from the folio.toml file.
type Config struct {
	BaseURL       string            `toml:"base_url"`
	SiteName      string            `toml:"site_name"`
	Creator       string            `toml:"creator"`
	Locale        string            `toml:"locale"`
	Category      string            `toml:"category"`
	Manifest      string            `toml:"manifest"`
	ContentDir    string            `toml:"content_dir"`
	StaticDir     string            `toml:"static_dir"`
	Expires       Duration          `toml:"expires"`
	StaticExpires Duration          `toml:"static_expires"`
	Headers       map[string]string `toml:"headers"`
	CacheBytes    int64             `toml:"cache_bytes"`
	OGImage       OGImage           `toml:"og_image"`
	Sitemap       []meta.RouteSpec  `toml:"sitemap"`
}

// OGImage configures Open Graph preview images.
type OGImage struct {
	Service    string `toml:"service"`
	SelfHosted bool   `toml:"self_hosted"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BaseURL:       "http://localhost:8080",
		ContentDir:    "posts",
		StaticDir:     "static",
		Expires:       Duration(5 * time.Minute),
		StaticExpires: Duration(time.Hour),
		CacheBytes:    16 << 20,
	}
}

// Load returns configuration from the named file in fsys, on top of Default.
// It is not an error if the file does not exist.
func Load(fsys fs.FS, name string) (*Config, error) {
	cfg := Default()
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("Cannot read config file: %w", err)
	}
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("Cannot parse config file: %w", err)
	}
	if _, err := meta.New(cfg.Meta()); err != nil {
		return nil, fmt.Errorf("Invalid config file: %w", err)
	}
	return cfg, nil
}

// Meta returns the settings of the metadata synthesizer.
func (c *Config) Meta() meta.Config {
	return meta.Config{
		BaseURL:  c.BaseURL,
		SiteName: c.SiteName,
		Creator:  c.Creator,
		Locale:   c.Locale,
		Category: c.Category,
		Manifest: c.Manifest,
		Image: meta.ImageConfig{
			Width:      c.OGImage.Width,
			Height:     c.OGImage.Height,
			Service:    c.OGImage.Service,
			Background: c.OGImage.Background,
			Foreground: c.OGImage.Foreground,
			SelfHosted: c.OGImage.SelfHosted,
		},
	}
}

// Routes returns the sitemap routes, or the default ones when none are configured.
func (c *Config) Routes() []meta.RouteSpec {
	if len(c.Sitemap) == 0 {
		return meta.DefaultRoutes()
	}
	return append([]meta.RouteSpec(nil), c.Sitemap...)
}

// ImageOptions returns the settings of self-hosted preview images. Colors that
// do not parse keep the black and white defaults.
func (c *Config) ImageOptions() ogimage.Options {
	img := c.Meta().Image
	opts := ogimage.DefaultOptions
	if img.Width > 0 && img.Height > 0 {
		opts.Width, opts.Height = img.Width, img.Height
	}
	if img.Background != "" {
		if bg, err := ogimage.ParseHex(img.Background); err == nil {
			opts.Background = bg
		} else {
			log.Printf("ImageOptions: %s", err)
		}
	}
	if img.Foreground != "" {
		if fg, err := ogimage.ParseHex(img.Foreground); err == nil {
			opts.Foreground = fg
		} else {
			log.Printf("ImageOptions: %s", err)
		}
	}
	return opts
}
