// Package post loads blog posts from a file tree and answers list and point queries.
package post

import (
	"errors"
	"fmt"
	"sort"

	"github.com/folio-site/folio/frontmatter"
	"github.com/folio-site/folio/slug"
)

// Post is a parsed blog post. Values are never shared mutably between callers.
type Post struct {
	Filename      string  // Source identifier, e.g. "hello-world.mdx"
	FilenameSlug  string  // Public route segment derived from Filename
	ParsedContent Content // Front matter and body
}

// Content holds the parsed form of a source document.
type Content struct {
	Attributes frontmatter.Attributes
	Body       string
}

// Parse turns the raw bytes of the document named identifier into a Post.
// Parse failures are returned as *frontmatter.ParseError naming the identifier.
func Parse(identifier string, raw []byte) (Post, error) {
	attrs, body, err := frontmatter.Parse(raw)
	if err != nil {
		var pe *frontmatter.ParseError
		if errors.As(err, &pe) {
			pe.Name = identifier
		}
		return Post{}, err
	}
	s := slug.Resolve(identifier)
	if s == "" {
		return Post{}, fmt.Errorf("parse %s: %w", identifier, slug.ErrEmpty)
	}
	return Post{
		Filename:     identifier,
		FilenameSlug: s,
		ParsedContent: Content{
			Attributes: attrs,
			Body:       body,
		},
	}, nil
}

// Attributes is shorthand for p.ParsedContent.Attributes.
func (p Post) Attributes() frontmatter.Attributes {
	return p.ParsedContent.Attributes
}

// Clone returns a deep copy of p.
func (p Post) Clone() Post {
	p.ParsedContent.Attributes.Tags = append([]string(nil), p.ParsedContent.Attributes.Tags...)
	return p
}

// SortByDate sorts posts newest first. Posts with the same date are ordered by Filename.
func SortByDate(posts []Post) []Post {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].ParsedContent.Attributes.FirstModDate.Time, posts[j].ParsedContent.Attributes.FirstModDate.Time
		if ti.Equal(tj) {
			return posts[i].Filename < posts[j].Filename
		}
		return tj.Before(ti)
	})
	return posts
}
