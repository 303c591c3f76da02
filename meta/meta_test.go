package meta

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/folio-site/folio/post"
)

func testPost(t *testing.T) post.Post {
	t.Helper()
	p, err := post.Parse("hello-world.mdx", []byte("---\ntitle: Hello World\nsummary: A test post\nfirstModDate: 2024-01-01\ntags: [rust, axum]\n---\nBody"))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func testSynthesizer(t *testing.T, cfg Config) *Synthesizer {
	t.Helper()
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.example.com/"
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPageMetadata(t *testing.T) {
	s := testSynthesizer(t, Config{Creator: "Site Author"})
	m := s.PageMetadata(testPost(t))

	if m.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", m.Title, "Hello World")
	}
	if m.Description != "A test post" {
		t.Errorf("Description = %q, want %q", m.Description, "A test post")
	}
	if m.OpenGraph.PublishedTime != "2024-01-01" {
		t.Errorf("OpenGraph.PublishedTime = %q, want %q", m.OpenGraph.PublishedTime, "2024-01-01")
	}
	if !reflect.DeepEqual(m.Keywords, []string{"rust", "axum"}) {
		t.Errorf("Keywords = %v, want [rust axum]", m.Keywords)
	}
	if m.Alternates.Canonical != "https://www.example.com/blog/hello-world" {
		t.Errorf("Canonical = %q", m.Alternates.Canonical)
	}
	if m.OpenGraph.URL != m.Alternates.Canonical {
		t.Errorf("OpenGraph.URL = %q, want canonical", m.OpenGraph.URL)
	}
	if m.OpenGraph.SiteName != "example.com" || m.OpenGraph.Locale != "en_US" || m.OpenGraph.Type != "article" {
		t.Errorf("unexpected Open Graph %+v", m.OpenGraph)
	}
	if len(m.OpenGraph.Images) != 1 {
		t.Fatalf("OpenGraph.Images = %v", m.OpenGraph.Images)
	}
	img := m.OpenGraph.Images[0]
	if img.Width != 1200 || img.Height != 630 || img.Alt != "Hello World" {
		t.Errorf("unexpected image %+v", img)
	}
	if img.URL != "https://via.placeholder.com/1200x630.png/000000/ffffff/?text=Hello+World" {
		t.Errorf("image URL = %q", img.URL)
	}
	if m.Twitter.Card != "summary_large_image" || len(m.Twitter.Images) != 1 || m.Twitter.Images[0] != img.URL {
		t.Errorf("unexpected Twitter card %+v", m.Twitter)
	}
	if m.Manifest != "https://www.example.com/manifest.json" || m.Category != "everything" || m.Creator != "Site Author" {
		t.Errorf("unexpected manifest/category/creator %q %q %q", m.Manifest, m.Category, m.Creator)
	}
}

func TestPageMetadataSEOTitle(t *testing.T) {
	p := testPost(t)
	p.ParsedContent.Attributes.SEOTitle = "Hello World: a first post"
	m := testSynthesizer(t, Config{}).PageMetadata(p)
	if m.Title != "Hello World: a first post" || m.OpenGraph.Title != m.Title || m.Twitter.Title != m.Title {
		t.Errorf("SEO title not used: %+v", m)
	}
}

func TestPageMetadataRobotsSplit(t *testing.T) {
	m := testSynthesizer(t, Config{}).PageMetadata(testPost(t))
	r := m.Robots
	if r.Index || !r.Follow || !r.NoCache {
		t.Errorf("generic robots = %+v, want noindex, follow, nocache", r)
	}
	if r.GoogleBot == nil {
		t.Fatal("GoogleBot override missing")
	}
	g := *r.GoogleBot
	want := GoogleBot{Index: true, Follow: false, NoImageIndex: true, MaxVideoPreview: -1, MaxImagePreview: "large", MaxSnippet: -1}
	if g != want {
		t.Errorf("GoogleBot = %+v, want %+v", g, want)
	}
	if got := r.Content(); got != "noindex, follow, nocache" {
		t.Errorf("Robots.Content() = %q", got)
	}
	if got := g.Content(); got != "index, nofollow, noimageindex, max-video-preview:-1, max-image-preview:large, max-snippet:-1" {
		t.Errorf("GoogleBot.Content() = %q", got)
	}
}

func TestPageMetadataJSON(t *testing.T) {
	m := testSynthesizer(t, Config{}).PageMetadata(testPost(t))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"title", "description", "openGraph", "twitter", "robots", "manifest", "category", "keywords"} {
		if _, ok := out[k]; !ok {
			t.Errorf("JSON is missing %q: %s", k, b)
		}
	}
	gb := out["robots"].(map[string]interface{})["googleBot"].(map[string]interface{})
	if gb["max-image-preview"] != "large" || gb["max-snippet"] != float64(-1) {
		t.Errorf("unexpected googleBot JSON %v", gb)
	}
}

func TestImageURL(t *testing.T) {
	s := testSynthesizer(t, Config{})
	if got := s.ImageURL("Rust & Axum?", "rust-axum"); got != "https://via.placeholder.com/1200x630.png/000000/ffffff/?text=Rust+%26+Axum%3F" {
		t.Errorf("ImageURL() = %q", got)
	}
	s = testSynthesizer(t, Config{BaseURL: "https://example.com", Image: ImageConfig{SelfHosted: true}})
	if got := s.ImageURL("Rust & Axum?", "rust-axum"); got != "https://example.com/og/rust-axum.png" {
		t.Errorf("self-hosted ImageURL() = %q", got)
	}
}

func TestNewValidation(t *testing.T) {
	for _, base := range []string{"", "example.com", "ftp://example.com", "/relative", "http://"} {
		if _, err := New(Config{BaseURL: base}); err == nil {
			t.Errorf("New(%q) should fail", base)
		}
	}
	s, err := New(Config{BaseURL: "http://localhost:3000/", BlogPath: "posts/"})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.CanonicalURL(testPost(t)); got != "http://localhost:3000/posts/hello-world" {
		t.Errorf("CanonicalURL() = %q", got)
	}
	if s.Config().SiteName != "localhost" {
		t.Errorf("SiteName = %q", s.Config().SiteName)
	}
}

func TestSiteName(t *testing.T) {
	tests := map[string]string{
		"https://www.example.com":      "example.com",
		"https://blog.example.com:443": "blog.example.com",
		"not a url":                    "not a url",
	}
	for in, want := range tests {
		if got := SiteName(in); got != want {
			t.Errorf("SiteName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSiteMetadata(t *testing.T) {
	s := testSynthesizer(t, Config{SiteName: "Notes"})
	m := s.SiteMetadata("/about", "About", "Who writes this")
	if m.Title != "About | Notes" || m.Alternates.Canonical != "https://www.example.com/about" {
		t.Errorf("unexpected metadata %+v", m)
	}
	if m.OpenGraph.Type != "website" || !m.Robots.Index || m.Robots.GoogleBot != nil {
		t.Errorf("unexpected site metadata %+v", m)
	}
	if home := s.SiteMetadata("/", "", ""); home.Title != "Notes" || home.Alternates.Canonical != "https://www.example.com" {
		t.Errorf("unexpected home metadata %+v", home)
	}
	if nf := s.NotFoundMetadata(); nf.Robots.Index {
		t.Errorf("not-found page should not be indexed")
	}
}

func TestSitemapEntries(t *testing.T) {
	s := testSynthesizer(t, Config{})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	routes := append(DefaultRoutes(), RouteSpec{Path: "/projects", ChangeFrequency: "sometimes", Priority: 3})
	entries := s.SitemapEntries(routes, now)
	if len(entries) != len(routes) {
		t.Fatalf("got %d entries, want %d", len(entries), len(routes))
	}
	wantURL := []string{"https://www.example.com", "https://www.example.com/about", "https://www.example.com/blog", "https://www.example.com/projects"}
	wantFreq := []ChangeFrequency{Yearly, Monthly, Weekly, Monthly}
	wantPriority := []float64{1, 0.8, 0.5, 1}
	for i, e := range entries {
		if !strings.HasPrefix(e.URL, "https://www.example.com") {
			t.Errorf("entry %d URL %q lacks base URL", i, e.URL)
		}
		if e.URL != wantURL[i] || e.ChangeFrequency != wantFreq[i] || e.Priority != wantPriority[i] {
			t.Errorf("entry %d = %+v", i, e)
		}
		if e.Priority < 0 || e.Priority > 1 {
			t.Errorf("entry %d priority %v out of range", i, e.Priority)
		}
		if !e.LastModified.Equal(now) {
			t.Errorf("entry %d LastModified = %v", i, e.LastModified)
		}
	}
	if got := s.SitemapEntries([]RouteSpec{{Path: "/x", Priority: -1}, {Path: "/y", Priority: math.NaN()}}, now); got[0].Priority != 0 || got[1].Priority != 0.5 {
		t.Errorf("priorities not clamped: %+v", got)
	}
}

func TestWriteSitemap(t *testing.T) {
	s := testSynthesizer(t, Config{})
	var buf bytes.Buffer
	err := WriteSitemap(&buf, s.SitemapEntries(DefaultRoutes(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	var set sitemapURLSet
	if err := xml.Unmarshal(buf.Bytes(), &set); err != nil {
		t.Fatalf("invalid XML: %v\n%s", err, buf.String())
	}
	if len(set.URLs) != 3 || set.URLs[1].Loc != "https://www.example.com/about" || set.URLs[1].Priority != "0.8" || set.URLs[1].ChangeFreq != "monthly" {
		t.Errorf("unexpected sitemap %+v", set.URLs)
	}
	if set.URLs[0].LastMod != "2024-05-01T00:00:00Z" {
		t.Errorf("LastMod = %q", set.URLs[0].LastMod)
	}
}

func TestJSONLD(t *testing.T) {
	s := testSynthesizer(t, Config{Creator: "Site Author"})
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s.JSONLD(testPost(t))), &out); err != nil {
		t.Fatal(err)
	}
	if out["@type"] != "BlogPosting" || out["headline"] != "Hello World" || out["datePublished"] != "2024-01-01" || out["keywords"] != "rust, axum" {
		t.Errorf("unexpected JSON-LD %v", out)
	}
}

func TestMetadataDoesNotAliasPost(t *testing.T) {
	p := testPost(t)
	m := testSynthesizer(t, Config{}).PageMetadata(p)
	m.Keywords[0] = "changed"
	if p.ParsedContent.Attributes.Tags[0] != "rust" {
		t.Error("metadata keywords alias the post's tags")
	}
}

func TestRobotsTxt(t *testing.T) {
	got := testSynthesizer(t, Config{}).RobotsTxt()
	if got != "User-agent: *\nAllow: /\n\nSitemap: https://www.example.com/sitemap.xml\n" {
		t.Errorf("RobotsTxt() = %q", got)
	}
}
