package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/cache"
	"github.com/matzehuels/funnel/pkg/server"
	"github.com/matzehuels/funnel/pkg/session"
)

type serveOpts struct {
	addr       string
	redisURL   string
	mongoURI   string
	mongoDB    string
	sessionDir string
	memory     bool
	ttl        time.Duration
	cleanup    time.Duration
	font       string
	fontSize   float64
	noCache    bool
}

// serveCommand runs the HTTP chart server.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     ":8080",
		ttl:      session.DefaultTTL,
		cleanup:  10 * time.Minute,
		fontSize: 12,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve funnel charts over HTTP",
		Long: `Serve exposes chart sessions over HTTP. Sessions are stored in MongoDB
(--mongo), in a directory (--session-dir, the default under the user config
dir) or in memory (--memory). Renders are cached in Redis (--redis) or in
the local artifact cache.`,
		Example: `  funnel serve --addr :9000
  funnel serve --redis redis://localhost:6379/0 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runServe(ctx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	f.StringVar(&opts.redisURL, "redis", "", "Redis URL for the artifact cache")
	f.StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for session storage")
	f.StringVar(&opts.mongoDB, "mongo-db", session.DefaultMongoDatabase, "MongoDB database name")
	f.StringVar(&opts.sessionDir, "session-dir", "", "directory for session files")
	f.BoolVar(&opts.memory, "memory", false, "keep sessions in memory only")
	f.DurationVar(&opts.ttl, "ttl", opts.ttl, "session lifetime")
	f.DurationVar(&opts.cleanup, "cleanup-interval", opts.cleanup, "how often expired sessions are removed")
	f.StringVar(&opts.font, "font", "", "font file for PNG labels")
	f.Float64Var(&opts.fontSize, "font-size", opts.fontSize, "PNG label size in points")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	store, storeDesc, err := openSessionStore(ctx, opts)
	if err != nil {
		return err
	}
	artifacts, cacheDesc, err := openServerCache(ctx, opts)
	if err != nil {
		store.Close()
		return err
	}

	srv := server.New(server.Config{
		Store:    store,
		Cache:    artifacts,
		Logger:   logger,
		TTL:      opts.ttl,
		Font:     opts.font,
		FontSize: opts.fontSize,
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.RunCleanup(ctx, opts.cleanup)

	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- httpServer.ListenAndServe() }()

	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	printDetail("Sessions: %s · cache: %s", storeDesc, cacheDesc)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return httpServer.Shutdown(shutdownCtx)
}

// openSessionStore picks the session backend from the flags and describes it.
func openSessionStore(ctx context.Context, opts serveOpts) (session.Store, string, error) {
	switch {
	case opts.mongoURI != "":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := session.NewMongoStore(connectCtx, opts.mongoURI, opts.mongoDB, "")
		return store, "mongodb/" + opts.mongoDB, err
	case opts.memory:
		return session.NewMemoryStore(), "memory", nil
	default:
		store, err := session.NewFileStore(opts.sessionDir)
		if err != nil {
			return nil, "", err
		}
		return store, store.Path(), nil
	}
}

// openServerCache picks the artifact cache from the flags and describes it.
func openServerCache(ctx context.Context, opts serveOpts) (cache.Cache, string, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), "disabled", nil
	case opts.redisURL != "":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(connectCtx, opts.redisURL, appName+":")
		return rc, "redis", err
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), "disabled", nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, "", err
		}
		return fc, fc.Dir(), nil
	}
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
