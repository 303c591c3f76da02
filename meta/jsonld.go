package meta

import (
	"encoding/json"
	"strings"

	"github.com/folio-site/folio/post"
)

// JSONLD returns a schema.org BlogPosting document describing p.
func (s *Synthesizer) JSONLD(p post.Post) string {
	attrs := p.ParsedContent.Attributes
	postURL := s.CanonicalURL(p)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      attrs.DisplayTitle(),
		"description":   attrs.Summary,
		"datePublished": attrs.FirstModDate.String(),
		"url":           postURL,
		"image":         s.ImageURL(attrs.DisplayTitle(), p.FilenameSlug),
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  s.cfg.SiteName,
		},
	}
	if s.cfg.Creator != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  s.cfg.Creator,
		}
	}
	if len(attrs.Tags) > 0 {
		data["keywords"] = strings.Join(attrs.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
