// Package build enumerates the routes of the site and writes it out as static files.
package build

import (
	"fmt"

	"github.com/folio-site/folio/post"
)

// Params is the route parameter set of one post page.
type Params struct {
	Post string `json:"post"`
}

// StaticParams returns one Params per listed post, in listing order.
// It fails when the posts cannot be listed, for example on a slug collision.
func StaticParams(repo post.Repository) ([]Params, error) {
	posts, err := repo.ListPosts()
	if err != nil {
		return nil, fmt.Errorf("StaticParams: %w", err)
	}
	return paramsOf(posts), nil
}

func paramsOf(posts []post.Post) []Params {
	params := make([]Params, 0, len(posts))
	for _, p := range posts {
		params = append(params, Params{Post: p.FilenameSlug})
	}
	return params
}
