// Package render turns posts and site pages into HTML using html/template.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/folio-site/folio/frontmatter"
	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/post"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// TemplateDir is the folder of the site that may override the default templates.
const TemplateDir = "template"

// Page is what is passed to templates.
type Page struct {
	Meta    meta.Metadata // head tags
	JSONLD  template.JS   // structured data of post pages
	Site    meta.Config   // site settings
	Post    *post.Post    // current post, on post pages
	Posts   []post.Post   // post listing, newest first
	Content template.HTML // rendered Markdown
	Message string        // passed to the notfound template
}

// Renderer executes the site's templates.
type Renderer struct {
	tpl  *template.Template
	syn  *meta.Synthesizer
	site fs.FS
}

// New loads the default templates and any overrides in the site's template folder.
// site may be nil.
func New(site fs.FS, syn *meta.Synthesizer) (*Renderer, error) {
	r := &Renderer{syn: syn, site: site}
	funcMap := template.FuncMap{
		"markdown": Markdown,
		"date":     formatDate,
		"join":     strings.Join,
		"lang":     lang,
		"postpath": syn.PostPath,
	}
	tpl, err := template.New("folio").Funcs(funcMap).ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render.New: %w", err)
	}
	if site != nil {
		matches, err := fs.Glob(site, TemplateDir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("render.New: %w", err)
		}
		if len(matches) > 0 {
			tpl, err = tpl.ParseFS(site, matches...)
			if err != nil {
				return nil, fmt.Errorf("render.New: %w", err)
			}
		}
	}
	r.tpl = tpl
	return r, nil
}

// DefinedTemplates lists the loaded templates.
func (r *Renderer) DefinedTemplates() string {
	return r.tpl.DefinedTemplates()
}

// Synthesizer returns the metadata synthesizer used for page heads.
func (r *Renderer) Synthesizer() *meta.Synthesizer {
	return r.syn
}

// Home renders the home page, listing posts.
func (r *Renderer) Home(w io.Writer, posts []post.Post) error {
	return r.execute(w, "home", Page{
		Meta:    r.syn.SiteMetadata("/", "", "Posts from "+r.syn.Config().SiteName),
		Site:    r.syn.Config(),
		Posts:   posts,
		Content: r.pageContent("index.md"),
	})
}

// About renders the about page from about.md in the site, if present.
func (r *Renderer) About(w io.Writer) error {
	return r.execute(w, "about", Page{
		Meta:    r.syn.SiteMetadata("/about", "About", "About "+r.syn.Config().SiteName),
		Site:    r.syn.Config(),
		Content: r.pageContent("about.md"),
	})
}

// Blog renders the blog index.
func (r *Renderer) Blog(w io.Writer, posts []post.Post) error {
	return r.execute(w, "blog", Page{
		Meta:  r.syn.SiteMetadata(r.syn.Config().BlogPath, "Blog", "All posts on "+r.syn.Config().SiteName),
		Site:  r.syn.Config(),
		Posts: posts,
	})
}

// Post renders a post page.
func (r *Renderer) Post(w io.Writer, p post.Post) error {
	return r.execute(w, "post", Page{
		Meta:    r.syn.PageMetadata(p),
		JSONLD:  template.JS(r.syn.JSONLD(p)),
		Site:    r.syn.Config(),
		Post:    &p,
		Content: Markdown(p.ParsedContent.Body),
	})
}

// NotFound renders the not-found page.
func (r *Renderer) NotFound(w io.Writer, message string) error {
	return r.execute(w, "notfound", Page{
		Meta:    r.syn.NotFoundMetadata(),
		Site:    r.syn.Config(),
		Message: message,
	})
}

// Error renders the page shown for a failed request with the given HTTP status.
// Not-found statuses use the notfound template.
func (r *Renderer) Error(w io.Writer, statusCode int) error {
	if statusCode == http.StatusNotFound {
		return r.NotFound(w, "")
	}
	m := r.syn.NotFoundMetadata()
	m.Title = http.StatusText(statusCode)
	m.OpenGraph.Title, m.Twitter.Title = m.Title, m.Title
	return r.execute(w, "error", Page{
		Meta:    m,
		Site:    r.syn.Config(),
		Message: fmt.Sprintf("The server could not complete the request (%d).", statusCode),
	})
}

// execute renders into a buffer first so a failed template writes nothing.
func (r *Renderer) execute(w io.Writer, name string, page Page) error {
	var out bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&out, name, page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := out.WriteTo(w)
	return err
}

// pageContent renders an optional Markdown page of the site. Front matter, if
// any, is dropped.
func (r *Renderer) pageContent(name string) template.HTML {
	if r.site == nil {
		return ""
	}
	b, err := fs.ReadFile(r.site, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("pageContent: %s", err)
		}
		return ""
	}
	if _, _, body, err := frontmatter.Extract(b); err == nil {
		b = body
	}
	return Markdown(string(b))
}

// Markdown converts Markdown text to HTML.
func Markdown(s string) template.HTML {
	return template.HTML(blackfriday.Run([]byte(s)))
}

func formatDate(d frontmatter.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("January 2, 2006")
}

// lang turns a locale such as "en_US" into a language tag such as "en-US".
func lang(locale string) string {
	if locale == "" {
		return "en"
	}
	return strings.ReplaceAll(locale, "_", "-")
}
