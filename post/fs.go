package post

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/folio-site/folio/slug"
)

// Extensions lists the file extensions treated as post sources.
var Extensions = []string{".md", ".mdx", ".markdown"}

// FS is a Repository backed by a folder of documents in an fs.FS.
// The identifier of a post is its file name within the folder.
type FS struct {
	fsys    fs.FS
	dir     string
	decoder Decoder
	workers int
	onSkip  func(identifier string, err error)
	missing sync.Once
}

// Option configures an FS.
type Option func(*FS)

// WithDir sets the folder holding the posts. The default is the root of the file system.
func WithDir(dir string) Option {
	return func(r *FS) {
		r.dir = path.Clean(strings.TrimPrefix(dir, "/"))
	}
}

// WithDecoder replaces the Decoder used to parse documents, for example with a cache.
func WithDecoder(d Decoder) Option {
	return func(r *FS) {
		r.decoder = d
	}
}

// WithWorkers limits how many documents are parsed at once.
func WithWorkers(n int) Option {
	return func(r *FS) {
		r.workers = n
	}
}

// WithSkipHook registers a function that is called for each document left out of a listing.
// It may be called from several goroutines at once.
func WithSkipHook(fn func(identifier string, err error)) Option {
	return func(r *FS) {
		r.onSkip = fn
	}
}

// NewFS returns a Repository over the documents in fsys.
func NewFS(fsys fs.FS, opts ...Option) *FS {
	r := &FS{
		fsys:    fsys,
		dir:     ".",
		decoder: ParseDecoder,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	return r
}

// Identifiers returns the sorted identifiers of every candidate document,
// whether or not it parses.
func (r *FS) Identifiers() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, r.dir)
	if err != nil {
		return nil, fmt.Errorf("Identifiers: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isSource(entry.Name()) {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// ListPosts parses every document in parallel and returns the ones that parse,
// sorted by identifier. Documents whose name yields an empty slug are skipped.
// A missing folder lists no posts. It fails if two identifiers resolve to the same slug.
func (r *FS) ListPosts() ([]Post, error) {
	all, err := r.Identifiers()
	if errors.Is(err, fs.ErrNotExist) {
		r.missing.Do(func() { log.Printf("ListPosts: no content folder %q", r.dir) })
		return []Post{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("ListPosts: %w", err)
	}
	ids := all[:0:0]
	for _, id := range all {
		if slug.Resolve(id) == "" {
			r.skip(id, fmt.Errorf("%w: identifier %q", slug.ErrEmpty, id))
			continue
		}
		ids = append(ids, id)
	}
	if _, err := slug.NewResolver(ids...); err != nil {
		return nil, fmt.Errorf("ListPosts: %w", err)
	}
	var (
		results = make([]*Post, len(ids))
		g       errgroup.Group
	)
	g.SetLimit(r.workers)
	for i, id := range ids {
		g.Go(func() error {
			p, err := r.load(id)
			if err != nil {
				r.skip(id, err)
				return nil
			}
			results[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ListPosts: %w", err)
	}
	posts := make([]Post, 0, len(results))
	for _, p := range results {
		if p != nil {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

// GetPost loads and parses a single document. Unknown identifiers and documents
// that fail to parse both produce a *NotFoundError.
func (r *FS) GetPost(identifier string) (Post, error) {
	if !isSource(identifier) || strings.Contains(identifier, "/") {
		return Post{}, &NotFoundError{Identifier: identifier}
	}
	p, err := r.load(identifier)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("GetPost: %s", err)
		}
		return Post{}, &NotFoundError{Identifier: identifier}
	}
	return p, nil
}

// load stats and decodes one document.
func (r *FS) load(identifier string) (Post, error) {
	name := path.Join(r.dir, identifier)
	if !fs.ValidPath(name) {
		return Post{}, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	info, err := fs.Stat(r.fsys, name)
	if err != nil {
		return Post{}, err
	}
	if info.IsDir() {
		return Post{}, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	p, err := r.decoder.Decode(identifier, info, func() ([]byte, error) {
		return fs.ReadFile(r.fsys, name)
	})
	if err != nil {
		return Post{}, err
	}
	return p.Clone(), nil
}

// skip reports a document left out of a listing.
func (r *FS) skip(identifier string, err error) {
	log.Printf("post: skipping %q: %s", identifier, err)
	if r.onSkip != nil {
		r.onSkip(identifier, err)
	}
}

// isSource reports whether name is a visible file with a post extension.
func isSource(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
