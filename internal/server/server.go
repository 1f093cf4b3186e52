// Package server implements the live layout server.
//
// The server loads a graph document, computes a layout, and serves both over
// a small JSON API. When watching is enabled, edits to the document trigger
// a recompute and the new layout is pushed to connected websocket clients,
// so an editor extension can re-render without polling.
//
// Routes:
//
//	GET /healthz          - liveness probe
//	GET /api/graph        - current graph document
//	GET /api/layout       - current computed layout
//	GET /api/impact/{id}  - impact chain for a node
//	GET /ws               - websocket for live layout pushes
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/specmap/specmap/pkg/cache"
	specerrors "github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/graphio"
	"github.com/specmap/specmap/pkg/observability"
	"github.com/specmap/specmap/pkg/pipeline"
)

// Options configures the live server.
type Options struct {
	Addr  string // listen address, host:port
	Watch bool   // recompute and broadcast on input file changes

	Pipeline pipeline.Options
}

// Server serves the current graph and layout and pushes updates to
// websocket clients. State is swapped atomically under a read-write lock on
// every recompute.
type Server struct {
	opts   Options
	runner *pipeline.Runner
	logger *charmlog.Logger
	hub    *Hub

	upgrader websocket.Upgrader

	mu     sync.RWMutex
	graph  *graph.Graph
	layout graphio.Layout
	hash   string
}

// New creates a server around a pipeline runner.
func New(runner *pipeline.Runner, opts Options, logger *charmlog.Logger) (*Server, error) {
	if err := specerrors.ValidateListenAddr(opts.Addr); err != nil {
		return nil, err
	}
	if err := opts.Pipeline.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Server{
		opts:   opts,
		runner: runner,
		logger: logger,
		hub:    NewHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}, nil
}

// Run computes the initial layout, then serves until the context is
// cancelled. With Watch enabled, input file changes trigger recomputes that
// are broadcast to connected clients.
func (s *Server) Run(ctx context.Context) error {
	if err := s.recompute(ctx); err != nil {
		return err
	}

	if s.opts.Watch {
		w := NewWatcher(s.opts.Pipeline.Input, func() {
			if err := s.recompute(ctx); err != nil {
				s.logger.Error("recompute failed", "err", err)
				return
			}
			s.mu.RLock()
			lay := s.layout
			s.mu.RUnlock()
			s.hub.Broadcast(ctx, "layout", lay)
		}, s.logger)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("watcher stopped", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.Close()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/layout", s.handleLayout)
	r.Get("/api/impact/{id}", s.handleImpact)
	r.Get("/ws", s.handleWS)
	return r
}

// observe reports request/response events to the registered server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// recompute reloads the graph and layout and swaps them in.
func (s *Server) recompute(ctx context.Context) error {
	g, err := s.runner.Load(ctx, s.opts.Pipeline)
	if err != nil {
		return err
	}
	lay, err := s.runner.ComputeLayout(ctx, g, s.opts.Pipeline)
	if err != nil {
		return err
	}

	var hash string
	if data, err := graphio.MarshalGraph(g); err == nil {
		hash = cache.Hash(data)
	}

	s.mu.Lock()
	s.graph = g
	s.layout = lay
	s.hash = hash
	s.mu.Unlock()

	s.logger.Info("state updated", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g, hash := s.graph, s.hash
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"hash":  hash,
		"graph": graphio.FromGraph(g),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	lay := s.layout
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, lay)
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := specerrors.ValidateNodeID(id); err != nil {
		writeError(w, err)
		return
	}

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	chain, err := s.runner.Impact(r.Context(), g, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if chain == nil {
		chain = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"node":    id,
		"related": chain,
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	// Push the current layout before handing the connection to the hub, so
	// clients render without a separate API round trip. Once registered, the
	// hub is the connection's only writer.
	s.mu.RLock()
	lay := s.layout
	s.mu.RUnlock()
	if data, err := json.Marshal(lay); err == nil {
		if err := conn.WriteJSON(Event{Type: "layout", Data: data}); err != nil {
			_ = conn.Close()
			return
		}
	}
	s.hub.Register(conn)

	// Reader loop: the protocol is push-only, so incoming messages are
	// discarded. The read keeps the connection alive and detects closes.
	go func() {
		defer s.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch specerrors.GetCode(err) {
	case specerrors.ErrCodeNodeNotFound, specerrors.ErrCodeNotFound, specerrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case specerrors.ErrCodeInvalidInput, specerrors.ErrCodeInvalidGraph, specerrors.ErrCodeInvalidAlgorithm,
		specerrors.ErrCodeInvalidOrientation, specerrors.ErrCodeInvalidFormat, specerrors.ErrCodeInvalidPath,
		specerrors.ErrCodeNoRoot:
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]string{
		"code":  string(specerrors.GetCode(err)),
		"error": specerrors.UserMessage(err),
	})
}
