package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/internal/server"
	"github.com/specmap/specmap/pkg/pipeline"
)

// defaultAddr is used when neither flag nor config specify an address.
const defaultAddr = ":8787"

// serveCommand creates the serve command for the live layout server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		watch   bool
		noCache bool
	)
	opts := c.pipelineOptions()
	opts.SetLayoutDefaults()

	configAddr := c.Config.Serve.Addr
	if configAddr == "" {
		configAddr = defaultAddr
	}

	cmd := &cobra.Command{
		Use:   "serve [graph.json|graph.yaml]",
		Short: "Run the live layout server",
		Long: `Run the live layout server.

The server loads the graph, computes its layout, and exposes both over a
JSON API together with per-node impact chains. With --watch, changes to the
graph document trigger a recompute that is pushed to connected websocket
clients, so an editor webview re-renders without polling.

Routes: /api/graph, /api/layout, /api/impact/{id}, /ws, /healthz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runServe(cmd.Context(), opts, addr, watch, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", configAddr, "listen address")
	cmd.Flags().BoolVar(&watch, "watch", c.Config.Serve.Watch, "recompute and broadcast on file changes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Algo, "algo", "a", opts.Algo, "layout algorithm: tree (default), cluster")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "tree orientation: top-to-bottom (default), left-to-right")
	cmd.Flags().BoolVar(&opts.Refine, "refine", opts.Refine, "run overlap refinement after layout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr string, watch, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	srv, err := server.New(runner, server.Options{
		Addr:     addr,
		Watch:    watch,
		Pipeline: opts,
	}, c.Logger)
	if err != nil {
		return err
	}

	printInfo("Serving %s on %s", opts.Input, addr)
	if watch {
		printDetail("watching for changes")
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
