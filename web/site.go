// Package web serves the site over HTTP.
package web

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/ogimage"
	"github.com/folio-site/folio/post"
	"github.com/folio-site/folio/render"
)

// Options configures a Site.
type Options struct {
	Routes        []meta.RouteSpec  // sitemap routes; meta.DefaultRoutes when empty
	Static        fs.FS             // served under /static/, with favicon.ico and the manifest at the root; nil disables it
	Metrics       *Metrics          // nil disables /metrics and instrumentation
	Image         ogimage.Options   // size and colors of /og images
	Headers       map[string]string // added to every response
	Expires       time.Duration     // Expires offset for pages
	StaticExpires time.Duration     // Expires offset for /static/ and /og/
	Now           func() time.Time  // clock for sitemap timestamps
}

// Site serves pages, posts and feeds from a post repository.
type Site struct {
	repo   post.Repository
	render *render.Renderer
	syn    *meta.Synthesizer
	opts   Options
}

// NewSite returns a Site serving the posts of repo with renderer r.
func NewSite(repo post.Repository, r *render.Renderer, opts Options) *Site {
	if len(opts.Routes) == 0 {
		opts.Routes = meta.DefaultRoutes()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Image.Width == 0 || opts.Image.Height == 0 {
		cfg := r.Synthesizer().Config().Image
		opts.Image.Width, opts.Image.Height = cfg.Width, cfg.Height
	}
	return &Site{
		repo:   repo,
		render: r,
		syn:    r.Synthesizer(),
		opts:   opts,
	}
}

// Handler returns the site's http.Handler with all middleware applied.
func (s *Site) Handler() http.Handler {
	blog := s.syn.Config().BlogPath
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /about", s.about)
	mux.HandleFunc("GET "+blog, s.blog)
	mux.HandleFunc("GET "+blog+"/{post}", s.post)
	mux.HandleFunc("GET /sitemap.xml", s.sitemap)
	mux.HandleFunc("GET /robots.txt", s.robots)
	mux.HandleFunc("GET /og/{image}", s.image)
	if s.opts.Static != nil {
		static := hiddenFileFS{s.opts.Static}
		mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static)))
		mux.HandleFunc("GET /favicon.ico", fixed(static, "favicon.ico"))
		if m := s.syn.Config().Manifest; strings.HasPrefix(m, "/") && !strings.HasPrefix(m, "/static/") {
			mux.HandleFunc("GET "+m, fixed(static, m))
		}
	}
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	}
	mux.HandleFunc("/", notFound)

	var h http.Handler = ErrorHandler(mux, s.render.Error)
	h = HeaderHandler(h, s.opts.Headers)
	h = ExpiresHandler(h, s.opts.Expires, s.opts.StaticExpires, "/static/", "/og/")
	return s.opts.Metrics.Instrument(h)
}

func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	posts, err := s.repo.ListPosts()
	if err != nil {
		serverError(w, "home", err)
		return
	}
	s.write(w, "home", func(out io.Writer) error {
		return s.render.Home(out, post.SortByDate(posts))
	})
}

func (s *Site) about(w http.ResponseWriter, r *http.Request) {
	s.write(w, "about", s.render.About)
}

func (s *Site) blog(w http.ResponseWriter, r *http.Request) {
	posts, err := s.repo.ListPosts()
	if err != nil {
		serverError(w, "blog", err)
		return
	}
	s.write(w, "blog", func(out io.Writer) error {
		return s.render.Blog(out, post.SortByDate(posts))
	})
}

func (s *Site) post(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r.PathValue("post"))
	if !ok {
		return
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.PostsRendered.WithLabelValues(p.FilenameSlug).Inc()
	}
	s.write(w, "post", func(out io.Writer) error {
		return s.render.Post(out, p)
	})
}

func (s *Site) image(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("image")
	if path.Ext(name) != ".png" {
		notFound(w, r)
		return
	}
	p, ok := s.lookup(w, strings.TrimSuffix(name, ".png"))
	if !ok {
		return
	}
	var out bytes.Buffer
	if err := ogimage.Render(&out, p.Attributes().DisplayTitle(), s.opts.Image); err != nil {
		serverError(w, "image", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(out.Bytes()))
}

func (s *Site) sitemap(w http.ResponseWriter, r *http.Request) {
	var out bytes.Buffer
	err := meta.WriteSitemap(&out, s.syn.SitemapEntries(s.opts.Routes, s.opts.Now()))
	if err != nil {
		serverError(w, "sitemap", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = out.WriteTo(w)
}

func (s *Site) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, s.syn.RobotsTxt())
}

// lookup resolves a slug, writing a 404 or 500 response when it cannot.
func (s *Site) lookup(w http.ResponseWriter, slug string) (post.Post, bool) {
	p, err := post.BySlug(s.repo, slug)
	if errors.Is(err, post.ErrNotFound) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return post.Post{}, false
	} else if err != nil {
		serverError(w, "lookup", err)
		return post.Post{}, false
	}
	return p, true
}

// write renders a page into a buffer and sends it as HTML.
func (s *Site) write(w http.ResponseWriter, name string, fn func(io.Writer) error) {
	var out bytes.Buffer
	if err := fn(&out); err != nil {
		serverError(w, name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := out.WriteTo(w); err != nil {
		log.Printf("%s: %s", name, err)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func serverError(w http.ResponseWriter, name string, err error) {
	log.Printf("%s: %s", name, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// hiddenFileFS hides files and folders whose names start with a period.
type hiddenFileFS struct {
	fs.FS
}

func (h hiddenFileFS) Open(name string) (fs.File, error) {
	if containsSpecialFile(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return h.FS.Open(name)
}

// containsSpecialFile reports whether name contains a path element starting with a period.
func containsSpecialFile(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}
