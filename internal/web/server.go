// Package web serves the portfolio site: home, project and blog pages, the
// explorer JSON API and the contact endpoint.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/config"
	"github.com/sgx-labs/folio/internal/contact"
	"github.com/sgx-labs/folio/internal/explorer"
	"github.com/sgx-labs/folio/internal/render"
)

// maxContactBody caps the contact request body.
const maxContactBody = 64 << 10

const shutdownTimeout = 5 * time.Second

// Options wire a Server to its collaborators. Catalog and Contact are
// required.
type Options struct {
	Catalog     *catalog.Catalog
	Renderer    *render.Renderer
	Contact     *contact.Service
	Site        config.SiteConfig
	DefaultSort explorer.SortMode
	Version     string
	Logger      *zap.Logger
	// LocalOnly rejects requests whose Host is not a loopback name.
	LocalOnly bool
}

// Server holds the handlers and parsed page templates.
type Server struct {
	cat         *catalog.Catalog
	renderer    *render.Renderer
	contact     *contact.Service
	site        config.SiteConfig
	defaultSort explorer.SortMode
	version     string
	log         *zap.Logger
	localOnly   bool
	pages       *pageSet
}

// New builds a Server. Templates are parsed here so a broken template fails
// at startup rather than on the first request.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, errors.New("web: catalog is required")
	}
	if opts.Contact == nil {
		return nil, errors.New("web: contact service is required")
	}
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		cat:         opts.Catalog,
		renderer:    opts.Renderer,
		contact:     opts.Contact,
		site:        opts.Site,
		defaultSort: opts.DefaultSort,
		version:     opts.Version,
		log:         opts.Logger,
		localOnly:   opts.LocalOnly,
		pages:       pages,
	}
	if s.renderer == nil {
		s.renderer = render.New(nil)
	}
	if s.defaultSort != explorer.Oldest {
		s.defaultSort = explorer.Newest
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.site.Title == "" {
		s.site.Title = "Portfolio"
	}
	return s, nil
}

// Handler returns the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /projects", s.handleList(catalog.ProjectsCollection))
	mux.HandleFunc("GET /projects/{slug}", s.handleDetail(catalog.ProjectsCollection))
	mux.HandleFunc("GET /blog", s.handleList(catalog.BlogCollection))
	mux.HandleFunc("GET /blog/{slug}", s.handleDetail(catalog.BlogCollection))
	mux.HandleFunc("GET /api/explorer/{collection}", s.handleExplorer)
	mux.HandleFunc("POST /api/contact", s.handleContact)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Paths no route claims get the site's 404 page. A path that matches
	// under another method falls through to the mux for its 405 and Allow.
	routes := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" && !routedElsewhere(mux, r) {
			s.handleNotFound(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	var h http.Handler = securityHeaders(routes)
	if s.localOnly {
		h = localhostOnly(h)
	}
	return requestLog(s.log, h)
}

// routedElsewhere reports whether r's path has a route under some other
// method. mux.Handler returns an empty pattern for a 405 as well as a 404.
func routedElsewhere(mux *http.ServeMux, r *http.Request) bool {
	for _, m := range routeMethods {
		if m == r.Method {
			continue
		}
		alt := r.Clone(r.Context())
		alt.Method = m
		if _, pattern := mux.Handler(alt); pattern != "" {
			return true
		}
	}
	return false
}

var routeMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, cfg config.ServerConfig) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
	}
	s.log.Info("serving", zap.String("url", "http://"+listener.Addr().String()), zap.String("version", s.version))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(listener) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errc
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
