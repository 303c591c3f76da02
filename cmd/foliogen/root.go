package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/folio-site/folio/config"
	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/post"
	"github.com/folio-site/folio/render"
)

// app carries the configuration shared by all commands.
type app struct {
	v *viper.Viper
}

// site is a loaded site: configuration, posts and renderer.
type site struct {
	fsys     fs.FS
	cfg      *config.Config
	repo     *post.FS
	syn      *meta.Synthesizer
	renderer *render.Renderer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:   "foliogen",
		Short: "foliogen builds a folio site into static files",
		Long: `foliogen reads the posts and folio.toml of a site and writes out its pages,
metadata, sitemap and route parameters.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initializeConfig(cmd)
		},
	}
	rootCmd.PersistentFlags().String("root", ".", "root of the site")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "config file, relative to the root")
	rootCmd.PersistentFlags().String("base-url", "", "absolute base URL of the site (overrides base_url)")
	rootCmd.PersistentFlags().String("content", "", "folder of posts, relative to the root (overrides content_dir)")

	rootCmd.AddCommand(a.newBuildCmd(), a.newParamsCmd(), a.newMetadataCmd(), a.newSitemapCmd())
	return rootCmd
}

// initializeConfig binds flags and FOLIO_* environment variables.
func (a *app) initializeConfig(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("FOLIO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("unable to bind flags: %w", err)
	}
	return nil
}

// loadSite reads the configuration and prepares the repository and renderer.
func (a *app) loadSite() (*site, error) {
	fsys := os.DirFS(a.v.GetString("root"))
	cfg, err := config.Load(fsys, a.v.GetString("config"))
	if err != nil {
		return nil, err
	}
	if u := a.v.GetString("base-url"); u != "" {
		cfg.BaseURL = u
	}
	if c := a.v.GetString("content"); c != "" {
		cfg.ContentDir = c
	}
	syn, err := meta.New(cfg.Meta())
	if err != nil {
		return nil, err
	}
	r, err := render.New(fsys, syn)
	if err != nil {
		return nil, err
	}
	return &site{
		fsys:     fsys,
		cfg:      cfg,
		repo:     post.NewFS(fsys, post.WithDir(cfg.ContentDir)),
		syn:      syn,
		renderer: r,
	}, nil
}

// static returns the static asset folder of the site, or nil if there is none.
func (s *site) static() fs.FS {
	dir := path.Clean(strings.TrimPrefix(s.cfg.StaticDir, "/"))
	if dir == "" || dir == "." {
		return nil
	}
	if fi, err := fs.Stat(s.fsys, dir); err != nil || !fi.IsDir() {
		return nil
	}
	sub, err := fs.Sub(s.fsys, dir)
	if err != nil {
		return nil
	}
	return sub
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
