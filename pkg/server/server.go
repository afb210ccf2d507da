// Package server exposes funnel charts over HTTP.
//
// Each chart lives in a server-side session: the client creates it from a
// document, then resizes it, replaces its data, sends pointer events and
// fetches renders by ID. Live charts are kept in memory and persisted to a
// [session.Store], so a chart evicted from memory (or created by another
// instance sharing the store) is rebuilt on first use.
//
// Routes:
//
//	POST   /charts                 create a chart from a JSON or TOML document
//	GET    /charts/{id}            layout as JSON
//	GET    /charts/{id}/svg        SVG render
//	GET    /charts/{id}/png        PNG render
//	PUT    /charts/{id}/size       resize the container
//	PUT    /charts/{id}/data       replace the segments
//	POST   /charts/{id}/events     hit-test a pointer event
//	DELETE /charts/{id}            drop the chart
//	GET    /healthz                liveness probe
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/funnel/pkg/cache"
	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/io"
	"github.com/matzehuels/funnel/pkg/pipeline"
	"github.com/matzehuels/funnel/pkg/session"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Config configures a Server. Zero values select in-memory storage, no
// artifact cache and log.Default().
type Config struct {
	Store  session.Store
	Cache  cache.Cache
	Logger *log.Logger

	// TTL is the session lifetime, extended on every update.
	TTL time.Duration

	// Font and FontSize apply to PNG labels. Without a font, PNG renders
	// have no labels.
	Font     string
	FontSize float64
}

// Server serves funnel charts.
type Server struct {
	store  session.Store
	cache  cache.Cache
	logger *log.Logger
	ttl    time.Duration

	font     string
	fontSize float64

	mu     sync.RWMutex
	charts map[string]*entry
}

// entry is a live chart. mu serialises every operation on it, since a
// funnel.Chart is not safe for concurrent use.
type entry struct {
	mu      sync.Mutex
	sess    *session.Session
	chart   *funnel.Chart
	docHash string
	runner  *pipeline.Runner
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = session.DefaultTTL
	}
	return &Server{
		store:    cfg.Store,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
		ttl:      cfg.TTL,
		font:     cfg.Font,
		fontSize: cfg.FontSize,
		charts:   make(map[string]*entry),
	}
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/charts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleLayout)
			r.Delete("/", s.handleDelete)
			r.Get("/svg", s.handleRender(pipeline.FormatSVG, "image/svg+xml"))
			r.Get("/png", s.handleRender(pipeline.FormatPNG, "image/png"))
			r.Put("/size", s.handleResize)
			r.Put("/data", s.handleSetData)
			r.Post("/events", s.handleEvent)
		})
	})
	return r
}

// create builds a chart for doc, persists it and registers it.
func (s *Server) create(ctx context.Context, doc *io.Document, width, height float64) (*entry, error) {
	sess := session.New(doc, width, height, s.ttl)
	e, err := s.build(sess)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}

	s.mu.Lock()
	s.charts[sess.ID] = e
	s.mu.Unlock()

	s.logger.Info("created chart", "id", sess.ID, "segments", len(doc.Segments), "width", width, "height", height)
	return e, nil
}

// load returns the live chart for id, rebuilding it from the store when it
// is not in memory.
func (s *Server) load(ctx context.Context, id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.charts[id]
	s.mu.RUnlock()
	if ok {
		e.mu.Lock()
		expired := e.sess.IsExpired(time.Now())
		e.mu.Unlock()
		if !expired {
			return e, nil
		}
		s.mu.Lock()
		if s.charts[id] == e {
			delete(s.charts, id)
		}
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeNotFound, "chart %q not found", id)
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil || sess.Document == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "chart %q not found", id)
	}
	e, err = s.build(sess)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.charts[id]; ok {
		return existing, nil
	}
	s.charts[id] = e
	s.logger.Debug("restored chart from store", "id", id)
	return e, nil
}

func (s *Server) build(sess *session.Session) (*entry, error) {
	doc := sess.Document
	chart, err := funnel.New(doc.Config, doc.Segments, sess.Width, sess.Height,
		funnel.WithLogger(s.logger.With("chart", sess.ID)))
	if err != nil {
		return nil, err
	}
	hash, err := pipeline.DocumentHash(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}
	runner := pipeline.NewRunner(s.cache, cache.NewScopedKeyer(nil, "chart:"+sess.ID+":"), s.logger)
	return &entry{sess: sess, chart: chart, docHash: hash, runner: runner}, nil
}

// save extends e's session and writes it back. The caller holds e.mu.
func (s *Server) save(ctx context.Context, e *entry) error {
	e.sess.Touch(s.ttl)
	if err := s.store.Set(ctx, e.sess); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}
	return nil
}

func (s *Server) remove(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.charts, id)
	s.mu.Unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete session")
	}
	return nil
}

// Cleanup evicts expired charts from memory and from the store.
func (s *Server) Cleanup(ctx context.Context) error {
	now := time.Now()
	s.mu.Lock()
	for id, e := range s.charts {
		e.mu.Lock()
		expired := e.sess.IsExpired(now)
		e.mu.Unlock()
		if expired {
			delete(s.charts, id)
		}
	}
	s.mu.Unlock()
	return s.store.Cleanup(ctx)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (s *Server) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// Len returns the number of charts held in memory.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.charts)
}

// Close releases the store and the cache.
func (s *Server) Close() error {
	err := s.store.Close()
	if cerr := s.cache.Close(); err == nil {
		err = cerr
	}
	return err
}
