package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-site/folio/build"
	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/post"
)

// writeSite creates a site with two posts and returns its root.
func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	all := map[string]string{
		"folio.toml":           "base_url = \"https://example.com\"\ncontent_dir = \"posts\"\n",
		"posts/hello-world.md": "---\ntitle: Hello World\nsummary: A test post\nfirstModDate: 2024-01-01\ntags: [rust, axum]\n---\nHello",
		"posts/second.md":      "+++\ntitle = \"Second\"\nsummary = \"Another\"\nfirstModDate = 2024-02-01\n+++\nMore",
		"static/site.css":      "body{}",
	}
	for name, data := range files {
		all[name] = data
	}
	for name, data := range all {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	tests := []struct {
		flag string
		def  string
	}{
		{"root", "."},
		{"config", "folio.toml"},
		{"base-url", ""},
		{"content", ""},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := cmd.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, f, "%s flag should be registered", tt.flag)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"build", "params", "metadata", "sitemap"})
}

func TestParamsCmd(t *testing.T) {
	root := writeSite(t, nil)
	out, err := run(t, "params", "--root", root)
	require.NoError(t, err)

	var params []build.Params
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	assert.Equal(t, []build.Params{{Post: "hello-world"}, {Post: "second"}}, params)
}

func TestMetadataCmd(t *testing.T) {
	root := writeSite(t, nil)
	for _, arg := range []string{"hello-world.md", "hello-world"} {
		t.Run(arg, func(t *testing.T) {
			out, err := run(t, "metadata", arg, "--root", root)
			require.NoError(t, err)

			var m meta.Metadata
			require.NoError(t, json.Unmarshal([]byte(out), &m))
			assert.Equal(t, "Hello World", m.Title)
			assert.Equal(t, "A test post", m.Description)
			assert.Equal(t, "2024-01-01", m.OpenGraph.PublishedTime)
			assert.Equal(t, []string{"rust", "axum"}, m.Keywords)
			assert.Equal(t, "https://example.com/blog/hello-world", m.Alternates.Canonical)
		})
	}

	_, err := run(t, "metadata", "does-not-exist", "--root", root)
	assert.ErrorIs(t, err, post.ErrNotFound)
}

func TestBaseURLOverrides(t *testing.T) {
	root := writeSite(t, nil)

	out, err := run(t, "metadata", "hello-world", "--root", root, "--base-url", "https://flag.example.org")
	require.NoError(t, err)
	assert.Contains(t, out, "https://flag.example.org/blog/hello-world")

	t.Setenv("FOLIO_BASE_URL", "https://env.example.org")
	out, err = run(t, "metadata", "hello-world", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "https://env.example.org/blog/hello-world")
}

func TestContentOverride(t *testing.T) {
	root := writeSite(t, map[string]string{
		"drafts/draft-one.md": "---\ntitle: Draft\nsummary: Not yet\nfirstModDate: 2024-03-01\n---\n",
	})
	out, err := run(t, "params", "--root", root, "--content", "drafts")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"post":"draft-one"}]`, out)
}

func TestSitemapCmd(t *testing.T) {
	root := writeSite(t, map[string]string{
		"folio.toml": "base_url = \"https://example.com\"\ncontent_dir = \"posts\"\n\n[[sitemap]]\npath = \"/\"\nchange_frequency = \"daily\"\npriority = 1.0\n",
	})
	out, err := run(t, "sitemap", "--root", root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<loc>https://example.com</loc>")
	assert.Contains(t, out, "<changefreq>daily</changefreq>")
	assert.NotContains(t, out, "/about")
}

func TestBuildCmd(t *testing.T) {
	root := writeSite(t, nil)
	outDir := filepath.Join(t.TempDir(), "public")
	out, err := run(t, "build", "--root", root, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Built 2 posts")

	assert.FileExists(t, filepath.Join(outDir, "blog", "hello-world", "index.html"))
	assert.FileExists(t, filepath.Join(outDir, "blog", "second", "metadata.json"))
	assert.FileExists(t, filepath.Join(outDir, "static", "site.css"))
	assert.FileExists(t, filepath.Join(outDir, "sitemap.xml"))
}

func TestBuildCmdCollision(t *testing.T) {
	root := writeSite(t, map[string]string{
		"posts/Hello World.md": "---\ntitle: Again\nsummary: Same slug\nfirstModDate: 2024-01-01\n---\n",
	})
	outDir := filepath.Join(t.TempDir(), "public")
	_, err := run(t, "build", "--root", root, "--out", outDir)
	require.Error(t, err)
	assert.NoDirExists(t, outDir)
}

func TestInvalidConfig(t *testing.T) {
	root := writeSite(t, map[string]string{"folio.toml": "base_url = \"not-a-url\"\n"})
	_, err := run(t, "params", "--root", root)
	assert.Error(t, err)
}
