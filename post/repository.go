package post

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/folio-site/folio/slug"
)

// ErrNotFound is matched by errors returned for unknown or unparsable posts.
var ErrNotFound = errors.New("post not found")

// NotFoundError is returned by GetPost when identifier is unknown or its
// document failed to parse.
type NotFoundError struct {
	Identifier string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound, e.Identifier)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Repository is a read-only store of posts keyed by source identifier.
type Repository interface {
	// ListPosts returns every post that parses, in a stable order.
	// Documents that fail to parse are left out. Slug collisions are fatal.
	ListPosts() ([]Post, error)
	// GetPost returns the post with the given source identifier or an error
	// matching ErrNotFound.
	GetPost(identifier string) (Post, error)
}

// Decoder builds a Post from a source document. info describes the document
// and read returns its contents, which lets implementations memoize on
// modification time and size without reading.
type Decoder interface {
	Decode(identifier string, info fs.FileInfo, read func() ([]byte, error)) (Post, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(identifier string, info fs.FileInfo, read func() ([]byte, error)) (Post, error)

// Decode calls f.
func (f DecoderFunc) Decode(identifier string, info fs.FileInfo, read func() ([]byte, error)) (Post, error) {
	return f(identifier, info, read)
}

// ParseDecoder reads and parses every document on each call.
var ParseDecoder Decoder = DecoderFunc(func(identifier string, _ fs.FileInfo, read func() ([]byte, error)) (Post, error) {
	b, err := read()
	if err != nil {
		return Post{}, err
	}
	return Parse(identifier, b)
})

// BySlug finds the post whose route segment is s.
func BySlug(repo Repository, s string) (Post, error) {
	posts, err := repo.ListPosts()
	if err != nil {
		return Post{}, err
	}
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].Filename
	}
	r, err := slug.NewResolver(ids...)
	if err != nil {
		return Post{}, err
	}
	id, ok := r.Identifier(s)
	if !ok {
		return Post{}, &NotFoundError{Identifier: s}
	}
	return repo.GetPost(id)
}
