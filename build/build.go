package build

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/ogimage"
	"github.com/folio-site/folio/post"
	"github.com/folio-site/folio/render"
)

// Builder writes the site as static files.
type Builder struct {
	Repo     post.Repository
	Renderer *render.Renderer
	Routes   []meta.RouteSpec // sitemap routes; meta.DefaultRoutes when empty
	Static   fs.FS            // copied to static/ when set, with favicon.ico and the manifest also at the root
	Image    ogimage.Options  // size and colors of self-hosted preview images
	Workers  int              // concurrent page writers; 0 means 4
	Now      func() time.Time // clock for sitemap timestamps
}

// Report summarizes a build.
type Report struct {
	Posts int      // post pages written
	Files []string // slash-separated paths written, relative to the output folder
}

type file struct {
	name  string
	write func(io.Writer) error
}

// Build writes the site into outDir. Nothing is written when the posts cannot
// be listed, which includes slug collisions.
func (b *Builder) Build(ctx context.Context, outDir string) (*Report, error) {
	posts, err := b.Repo.ListPosts()
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	params := paramsOf(posts)
	posts = post.SortByDate(posts)

	syn := b.Renderer.Synthesizer()
	routes := b.Routes
	if len(routes) == 0 {
		routes = meta.DefaultRoutes()
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	img := b.Image
	if img.Width == 0 || img.Height == 0 {
		img.Width, img.Height = syn.Config().Image.Width, syn.Config().Image.Height
	}
	blog := strings.TrimPrefix(syn.Config().BlogPath, "/")

	files := []file{
		{"index.html", func(w io.Writer) error { return b.Renderer.Home(w, posts) }},
		{"about/index.html", b.Renderer.About},
		{path.Join(blog, "index.html"), func(w io.Writer) error { return b.Renderer.Blog(w, posts) }},
		{"404.html", func(w io.Writer) error { return b.Renderer.NotFound(w, "") }},
		{"params.json", func(w io.Writer) error { return writeJSON(w, params) }},
		{"sitemap.xml", func(w io.Writer) error {
			return meta.WriteSitemap(w, syn.SitemapEntries(routes, now()))
		}},
		{"robots.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, syn.RobotsTxt())
			return err
		}},
	}
	for _, p := range posts {
		files = append(files,
			file{path.Join(blog, p.FilenameSlug, "index.html"), func(w io.Writer) error { return b.Renderer.Post(w, p) }},
			file{path.Join(blog, p.FilenameSlug, "metadata.json"), func(w io.Writer) error { return writeJSON(w, syn.PageMetadata(p)) }},
		)
		if syn.Config().Image.SelfHosted {
			title := p.Attributes().DisplayTitle()
			files = append(files, file{path.Join("og", p.FilenameSlug+".png"), func(w io.Writer) error {
				return ogimage.Render(w, title, img)
			}})
		}
	}
	if b.Static != nil {
		static, err := staticFiles(b.Static)
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		files = append(files, static...)
		root, err := rootFiles(b.Static, "/favicon.ico", syn.Config().Manifest)
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		files = append(files, root...)
	}

	workers := b.Workers
	if workers <= 0 {
		workers = 4
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeFile(outDir, f)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	report := &Report{Posts: len(posts), Files: make([]string, len(files))}
	for i, f := range files {
		report.Files[i] = f.name
	}
	return report, nil
}

// writeFile renders f into memory and then writes it under outDir.
func writeFile(outDir string, f file) error {
	var buf bytes.Buffer
	if err := f.write(&buf); err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	name := filepath.Join(outDir, filepath.FromSlash(f.name))
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return err
	}
	log.Printf("Wrote %s", f.name)
	return nil
}

// staticFiles lists the visible files of fsys to be copied under static/.
func staticFiles(fsys fs.FS) ([]file, error) {
	var files []file
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			if name == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if name != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, copyFile(fsys, name, path.Join("static", name)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// rootFiles lists the files of fsys that are also served from the site root.
// Only root paths outside /static/ are considered, and hidden or missing files are left out.
func rootFiles(fsys fs.FS, names ...string) ([]file, error) {
	var files []file
	for _, name := range names {
		if !strings.HasPrefix(name, "/") || strings.HasPrefix(name, "/static/") {
			continue
		}
		name = strings.TrimPrefix(path.Clean(name), "/")
		if name == "" || hidden(name) {
			continue
		}
		fi, err := fs.Stat(fsys, name)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && fi.IsDir()) {
			continue
		} else if err != nil {
			return nil, err
		}
		files = append(files, copyFile(fsys, name, name))
	}
	return files, nil
}

func copyFile(fsys fs.FS, src, dst string) file {
	return file{dst, func(w io.Writer) error {
		b, err := fs.ReadFile(fsys, src)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}}
}

// hidden reports whether name has a path element starting with a period.
func hidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
