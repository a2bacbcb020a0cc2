// Package server implements the hiveplot HTTP API.
//
// Routes:
//
//	POST  /v1/layout             compute a layout from a graph and options
//	GET   /v1/layouts/{id}       fetch a stored layout
//	GET   /v1/metrics            list built-in metric names
//	GET   /v1/graph              read the workspace graph
//	PUT   /v1/graph              replace the workspace graph
//	PATCH /v1/graph/nodes/{id}   merge metric values into a workspace node
//	POST  /v1/graph/layout       compute a layout of the workspace graph
//	GET   /healthz               liveness check
//	GET   /metrics               Prometheus exposition (when configured)
//
// The workspace graph is shared by all requests. Edits take its write
// lock; a layout copies it under the read lock and computes on the copy.
package server

import (
	"context"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hiveplot/pkg/buildinfo"
	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/graph"
	"github.com/matzehuels/hiveplot/pkg/hive"
	"github.com/matzehuels/hiveplot/pkg/httputil"
	"github.com/matzehuels/hiveplot/pkg/pipeline"
)

// DefaultRequestTimeout bounds the time spent on a single request.
const DefaultRequestTimeout = 60 * time.Second

// LayoutStore persists layouts for later retrieval.
type LayoutStore interface {
	Save(ctx context.Context, l graph.Layout) error
	Get(ctx context.Context, id string) (graph.Layout, error)
}

// Server serves the HTTP API.
type Server struct {
	Runner    *pipeline.Runner
	Workspace *dag.Guarded // graph edited through /v1/graph
	Store     LayoutStore  // optional; without it layouts are not persisted
	Metrics   http.Handler // optional; served at /metrics
	Logger    *log.Logger
	Timeout   time.Duration
}

// New creates a server around runner with an empty workspace graph.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		Runner:    runner,
		Workspace: dag.NewGuarded(nil),
		Logger:    logger,
		Timeout:   DefaultRequestTimeout,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestLogger(s.Logger))
	r.Use(middleware.Recoverer)
	r.Use(httputil.Instrument)

	r.Get("/healthz", s.health)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		timeout := s.Timeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		r.Use(middleware.Timeout(timeout))

		r.Post("/layout", s.createLayout)
		r.Get("/layouts/{id}", s.getLayout)
		r.Get("/metrics", s.listMetrics)

		r.Get("/graph", s.getGraph)
		r.Put("/graph", s.putGraph)
		r.Patch("/graph/nodes/{id}", s.patchNode)
		r.Post("/graph/layout", s.layoutWorkspace)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, herrors.New(herrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// layoutRequest is the body of POST /v1/layout. Omitted option fields
// keep their defaults.
type layoutRequest struct {
	Graph   graph.Graph  `json:"graph"`
	Options hive.Options `json:"options"`
	Source  string       `json:"source,omitempty"`
	Refresh bool         `json:"refresh,omitempty"`
}

func (s *Server) createLayout(w http.ResponseWriter, r *http.Request) {
	req := layoutRequest{Options: hive.DefaultOptions()}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	g, err := graph.ToDAG(req.Graph)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}
	res, err := s.Runner.Execute(r.Context(), pipeline.Options{
		Graph:   g,
		Source:  source,
		Layout:  req.Options,
		Refresh: req.Refresh,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	s.respondLayout(w, r, res)
}

// respondLayout stores a finished layout when a store is configured and
// writes it as a 201 response.
func (s *Server) respondLayout(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	if s.Store != nil {
		if err := s.Store.Save(r.Context(), res.Layout); err != nil {
			s.Logger.Warn("store layout", "id", res.Layout.ID, "error", err)
			httputil.WriteError(w, err)
			return
		}
	}

	if res.CacheInfo.LayoutHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Header().Set("Location", "/v1/layouts/"+res.Layout.ID)
	httputil.WriteJSON(w, http.StatusCreated, res.Layout)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		httputil.WriteError(w, herrors.New(herrors.ErrCodeUnsupported, "layout storage is not configured"))
		return
	}
	l, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, l)
}

func (s *Server) listMetrics(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"metrics": s.Runner.Registry.Names(),
		"defaults": map[string]string{
			"axis_metric":       hive.DefaultOptions().AxisMetric,
			"node_order_metric": hive.DefaultOptions().NodeOrderMetric,
		},
	})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	var out graph.Graph
	_ = s.Workspace.Read(func(g *dag.DAG) error {
		out = graph.FromDAG(g)
		return nil
	})
	httputil.WriteJSON(w, http.StatusOK, out)
}

type graphSummary struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func (s *Server) putGraph(w http.ResponseWriter, r *http.Request) {
	var req graph.Graph
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	g, err := graph.ToDAG(req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.Workspace.Replace(g)
	s.Logger.Info("replaced workspace graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	httputil.WriteJSON(w, http.StatusOK, graphSummary{Nodes: g.NodeCount(), Edges: g.EdgeCount()})
}

// patchNode merges the request object into a node's metadata. A null
// value removes the key.
func (s *Server) patchNode(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := httputil.DecodeJSON(w, r, &patch); err != nil {
		httputil.WriteError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	var meta dag.Metadata
	err := s.Workspace.Write(func(g *dag.DAG) error {
		n, ok := g.Node(id)
		if !ok {
			return herrors.New(herrors.ErrCodeNotFound, "node %q not in workspace graph", id)
		}
		for k, v := range patch {
			if v == nil {
				delete(n.Meta, k)
				continue
			}
			n.Meta[k] = v
		}
		meta = maps.Clone(n.Meta)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, graph.Node{ID: id, Meta: meta})
}

// workspaceLayoutRequest is the body of POST /v1/graph/layout.
type workspaceLayoutRequest struct {
	Options hive.Options `json:"options"`
	Refresh bool         `json:"refresh,omitempty"`
}

func (s *Server) layoutWorkspace(w http.ResponseWriter, r *http.Request) {
	req := workspaceLayoutRequest{Options: hive.DefaultOptions()}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := s.Runner.Execute(r.Context(), pipeline.Options{
		Shared:  s.Workspace,
		Source:  "workspace",
		Layout:  req.Options,
		Refresh: req.Refresh,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.respondLayout(w, r, res)
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Current()})
}
