// Package slug derives public route segments from post source identifiers.
package slug

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

var (
	ErrCollision = errors.New("slug collision")
	ErrEmpty     = errors.New("empty slug")
)

// Resolve converts a source identifier such as "Hello_World.mdx" into a URL-safe
// slug such as "hello-world". The extension is dropped, letters are lowered, and
// every run of other characters becomes a single hyphen.
func Resolve(identifier string) string {
	s := strings.TrimSuffix(identifier, path.Ext(identifier))
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// CollisionError reports identifiers that resolve to the same slug.
type CollisionError struct {
	Slug        string
	Identifiers []string
}

// Error implements error.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %q is produced by %q", ErrCollision, e.Slug, e.Identifiers)
}

// Is reports whether target is ErrCollision.
func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}

// Resolver is a bidirectional mapping between a fixed set of identifiers and their slugs.
type Resolver struct {
	bySlug map[string]string
	byID   map[string]string
}

// NewResolver builds a Resolver over identifiers. It fails with a *CollisionError
// when two distinct identifiers share a slug, and with ErrEmpty when an identifier
// has no usable characters. Duplicate identifiers are folded.
func NewResolver(identifiers ...string) (*Resolver, error) {
	ids := append([]string(nil), identifiers...)
	sort.Strings(ids)
	r := &Resolver{
		bySlug: make(map[string]string, len(ids)),
		byID:   make(map[string]string, len(ids)),
	}
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			continue
		}
		s := Resolve(id)
		if s == "" {
			return nil, fmt.Errorf("%w: identifier %q", ErrEmpty, id)
		}
		if other, ok := r.bySlug[s]; ok {
			return nil, &CollisionError{Slug: s, Identifiers: []string{other, id}}
		}
		r.bySlug[s] = id
		r.byID[id] = s
	}
	return r, nil
}

// Slug returns the slug of a known identifier.
func (r *Resolver) Slug(identifier string) (string, bool) {
	s, ok := r.byID[identifier]
	return s, ok
}

// Identifier returns the identifier that produced slug.
func (r *Resolver) Identifier(slug string) (string, bool) {
	id, ok := r.bySlug[slug]
	return id, ok
}

// Slugs returns every known slug in sorted order.
func (r *Resolver) Slugs() []string {
	s := make([]string, 0, len(r.bySlug))
	for k := range r.bySlug {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

// Len returns the number of identifiers.
func (r *Resolver) Len() int {
	return len(r.byID)
}
