package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/build"
	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/post"
)

func (a *app) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the site as static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSite()
			if err != nil {
				return err
			}
			b := &build.Builder{
				Repo:     s.repo,
				Renderer: s.renderer,
				Routes:   s.cfg.Routes(),
				Static:   s.static(),
				Image:    s.cfg.ImageOptions(),
				Workers:  a.v.GetInt("workers"),
			}
			out := a.v.GetString("out")
			report, err := b.Build(cmd.Context(), out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d posts, %d files into %s\n", report.Posts, len(report.Files), out)
			return nil
		},
	}
	cmd.Flags().String("out", "public", "output folder")
	cmd.Flags().Int("workers", 4, "files written at once")
	return cmd
}

func (a *app) newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the route parameters of every post as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSite()
			if err != nil {
				return err
			}
			params, err := build.StaticParams(s.repo)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), params)
		},
	}
}

func (a *app) newMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <identifier|slug>",
		Short: "Print the page metadata of a post as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSite()
			if err != nil {
				return err
			}
			p, err := s.repo.GetPost(args[0])
			if errors.Is(err, post.ErrNotFound) {
				p, err = post.BySlug(s.repo, args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.syn.PageMetadata(p))
		},
	}
}

func (a *app) newSitemapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap",
		Short: "Print the sitemap XML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSite()
			if err != nil {
				return err
			}
			return meta.WriteSitemap(cmd.OutOrStdout(), s.syn.SitemapEntries(s.cfg.Routes(), time.Now()))
		},
	}
}
