/*
Package frontmatter splits a blog post source document into its structured header
and its body, and decodes the header into Attributes.

Two header formats are recognized. TOML front matter is delimited by "+++" lines
and YAML front matter by "---" lines:

	---
	title: Hello World
	seoTitle: Hello World | Notes
	summary: A test post
	firstModDate: 2024-01-01
	tags: [rust, axum]
	---
	# Hello

The header must open on the first non-blank line of the document and must be
closed by a matching delimiter. Keys other than the ones listed in Attributes are
ignored. The fields title, summary and firstModDate are required.
*/
package frontmatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Attributes holds the data scraped from a post's front matter.
type Attributes struct {
	Title        string   `toml:"title" yaml:"title" json:"title"`                      // Title of the post
	SEOTitle     string   `toml:"seoTitle" yaml:"seoTitle" json:"seoTitle"`             // Title used for search and social previews
	Summary      string   `toml:"summary" yaml:"summary" json:"summary"`                // One paragraph description
	FirstModDate Date     `toml:"firstModDate" yaml:"firstModDate" json:"firstModDate"` // Date the post first appeared
	Tags         []string `toml:"tags" yaml:"tags" json:"tags"`                         // Ordered tags
}

// Format identifies the syntax of a front matter block.
type Format int

const (
	TOML Format = iota + 1
	YAML
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	}
	return "unknown"
}

// delimiters are tried in order; each regular expression matches a whole delimiter line.
var delimiters = []struct {
	format Format
	re     *regexp.Regexp
}{
	{TOML, regexp.MustCompile(`(?m)^[ \t]*\+\+\+[ \t]*\r?$`)},
	{YAML, regexp.MustCompile(`(?m)^[ \t]*---[ \t]*\r?$`)},
}

var bom = []byte("\xef\xbb\xbf")

// Extract splits the front matter and body of x. The returned front matter and
// body are trimmed of surrounding white space.
func Extract(x []byte) (Format, []byte, []byte, error) {
	x = bytes.TrimPrefix(x, bom)
	for _, d := range delimiters {
		open := d.re.FindIndex(x)
		if open == nil || len(bytes.TrimSpace(x[:open[0]])) > 0 {
			continue
		}
		rest := x[open[1]:]
		closing := d.re.FindIndex(rest)
		if closing == nil {
			return d.format, nil, nil, ErrUnterminated
		}
		return d.format, bytes.TrimSpace(rest[:closing[0]]), bytes.TrimSpace(rest[closing[1]:]), nil
	}
	return 0, nil, bytes.TrimSpace(x), ErrNoFrontMatter
}

// Parse extracts and decodes the front matter of raw, returning the attributes
// and the remaining body. Any failure is reported as a *ParseError.
func Parse(raw []byte) (Attributes, string, error) {
	var attrs Attributes
	format, fm, body, err := Extract(raw)
	if err != nil {
		return attrs, "", &ParseError{Err: err}
	}
	switch format {
	case TOML:
		err = toml.Unmarshal(fm, &attrs)
	case YAML:
		err = yaml.Unmarshal(fm, &attrs)
	}
	if err != nil {
		return Attributes{}, "", &ParseError{Format: format, Err: fmt.Errorf("invalid %s: %w", format, err)}
	}
	if err := attrs.Validate(); err != nil {
		return Attributes{}, "", &ParseError{Format: format, Err: err}
	}
	attrs.Title = strings.TrimSpace(attrs.Title)
	attrs.SEOTitle = strings.TrimSpace(attrs.SEOTitle)
	attrs.Summary = strings.TrimSpace(attrs.Summary)
	return attrs, string(body), nil
}

// Validate checks that the required fields are present.
func (a Attributes) Validate() error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return missingField("title")
	case strings.TrimSpace(a.Summary) == "":
		return missingField("summary")
	case a.FirstModDate.IsZero():
		return missingField("firstModDate")
	}
	return nil
}

// DisplayTitle returns the SEO title when one is set, otherwise the title.
func (a Attributes) DisplayTitle() string {
	if a.SEOTitle != "" {
		return a.SEOTitle
	}
	return a.Title
}
