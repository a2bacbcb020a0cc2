package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hiveplot/internal/server"
	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/graph"
	"github.com/matzehuels/hiveplot/pkg/observability"
	"github.com/matzehuels/hiveplot/pkg/observability/prom"
	mongostore "github.com/matzehuels/hiveplot/pkg/store/mongo"
)

// shutdownTimeout bounds graceful shutdown after the context ends.
const shutdownTimeout = 10 * time.Second

// serveFlags holds the flag values of the serve command.
type serveFlags struct {
	addr      string
	graphPath string
	noCache   bool
	noMetrics bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hive plot HTTP API",
		Long: `Serve the hive plot HTTP API.

Routes:
  POST  /v1/layout            compute a layout
  GET   /v1/layouts/{id}      fetch a stored layout (requires [store] mongo_uri)
  GET   /v1/metrics           list built-in metrics
  GET   /v1/graph             read the workspace graph
  PUT   /v1/graph             replace the workspace graph
  PATCH /v1/graph/nodes/{id}  edit a workspace node's metrics
  POST  /v1/graph/layout      lay out the workspace graph
  GET   /healthz              liveness check
  GET   /metrics              Prometheus metrics

The workspace graph starts empty unless --graph preloads it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				f.addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&f.graphPath, "graph", "", "preload the workspace graph from this file")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

// runServe serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServe(ctx context.Context, f serveFlags) error {
	var workspace *dag.DAG
	if f.graphPath != "" {
		g, err := graph.ReadGraphFile(f.graphPath)
		if err != nil {
			return err
		}
		workspace = g
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger)
	if workspace != nil {
		srv.Workspace.Replace(workspace)
		c.Logger.Info("workspace graph loaded", "path", f.graphPath, "nodes", workspace.NodeCount())
	}
	if t := c.Config.Server.RequestTimeout; t > 0 {
		srv.Timeout = time.Duration(t) * time.Second
	}

	if !f.noMetrics {
		metrics := prom.New()
		metrics.Register()
		defer observability.Reset()
		srv.Metrics = metrics.Handler()
	}

	if sc := c.Config.Store; sc.MongoURI != "" {
		store, err := mongostore.Connect(ctx, sc.MongoURI, sc.MongoDatabase, sc.MongoCollection)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		srv.Store = store
		c.Logger.Info("layout store connected", "database", sc.MongoDatabase)
	}

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", ln.Addr().String())
		errc <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
