package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"

	"github.com/folio-site/folio/cache"
	"github.com/folio-site/folio/config"
	"github.com/folio-site/folio/meta"
	"github.com/folio-site/folio/post"
	"github.com/folio-site/folio/render"
	"github.com/folio-site/folio/web"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fRoot              = flag.String("root", ".", "Root of web site.")
		fConfig            = flag.String("config", config.DefaultFile, "Config file, relative to the root.")
	)
	flag.Parse()
	flagenv.Parse()

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}

	// Setup groupcache (with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	// Load configuration
	site := os.DirFS(*fRoot)
	cfg, err := config.Load(site, *fConfig)
	if err != nil {
		log.Printf("Cannot load configuration: %s", err)
		os.Exit(1)
	}
	log.Printf("Loaded configuration for %q", cfg.BaseURL)

	syn, err := meta.New(cfg.Meta())
	if err != nil {
		log.Printf("Invalid configuration: %s", err)
		os.Exit(1)
	}

	// Parse templates
	renderer, err := render.New(site, syn)
	if err != nil {
		log.Printf("Cannot parse templates: %s", err)
		os.Exit(2)
	}
	log.Printf("Loaded templates: %s", renderer.DefinedTemplates())

	// Setup handlers
	metrics := web.NewMetrics()
	repo := post.NewFS(site,
		post.WithDir(cfg.ContentDir),
		post.WithDecoder(cache.New("posts", cfg.CacheBytes)),
		post.WithSkipHook(metrics.SkipHook),
	)
	handler := web.NewSite(repo, renderer, web.Options{
		Routes:        cfg.Routes(),
		Static:        staticFS(site, cfg),
		Metrics:       metrics,
		Image:         cfg.ImageOptions(),
		Headers:       cfg.Headers,
		Expires:       time.Duration(cfg.Expires),
		StaticExpires: time.Duration(cfg.StaticExpires),
	}).Handler()
	srv.Handler = gziphandler.GzipHandler(handler)
	log.Print("Created handlers")

	// Create signal handler for graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)

		// interrupt signal sent from terminal
		signal.Notify(sigint, os.Interrupt)
		// sigterm signal sent from kubernetes
		signal.Notify(sigint, syscall.SIGTERM)

		<-sigint

		// We received an interrupt signal, shut down.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()

	// Listen for requests
	log.Print("Listening for requests")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Printf("HTTP server: %v", err)
	} else {
		log.Print("Goodbye.")
	}
}

// staticFS returns the static folder of the site behind a groupcache-backed
// cache, or nil if the site has none.
func staticFS(site fs.FS, cfg *config.Config) fs.FS {
	dir := path.Clean(strings.TrimPrefix(cfg.StaticDir, "/"))
	if fi, err := fs.Stat(site, dir); err != nil || !fi.IsDir() || dir == "." {
		log.Printf("No static folder %q found", cfg.StaticDir)
		return nil
	}
	sub, err := fs.Sub(site, dir)
	if err != nil {
		log.Printf("staticFS: %s", err)
		return nil
	}
	return cachefs.New(sub, &cachefs.Config{
		GroupName:   "static",
		SizeInBytes: cfg.CacheBytes,
		Duration:    time.Duration(cfg.StaticExpires),
	})
}
