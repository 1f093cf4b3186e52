package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/pkg/errors"
)

// impactCommand creates the impact command for tracing impact chains.
func (c *CLI) impactCommand() *cobra.Command {
	var (
		noCache bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "impact [graph.json|graph.yaml] [node-id]",
		Short: "Trace the impact chain of a node",
		Long: `Trace the impact chain of a node.

The impact command walks the graph in both directions from the given node:
upstream along incoming edges (what the node depends on) and downstream
along outgoing edges (what the node affects). Organizational set nodes are
included but not crossed, so the chain stays free of unrelated siblings.

The node itself is never part of its own chain.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImpact(cmd.Context(), args[0], args[1], noCache, asJSON)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the chain as a JSON array")

	return cmd
}

func (c *CLI) runImpact(ctx context.Context, input, nodeID string, noCache, asJSON bool) error {
	if err := errors.ValidateNodeID(nodeID); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Input = input

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	p := newProgress(c.Logger)
	chain, cacheHit, err := runner.ImpactWithCacheInfo(ctx, g, nodeID)
	if err != nil {
		return fmt.Errorf("impact chain: %w", err)
	}
	p.done(fmt.Sprintf("Traced %d related nodes", len(chain)))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(chain)
	}

	if len(chain) == 0 {
		printInfo("No related nodes for %q", nodeID)
		return nil
	}

	printSuccess("Impact chain for %q", nodeID)
	for _, id := range chain {
		label := id
		if n, ok := g.Node(id); ok {
			label = fmt.Sprintf("%s (%s)", n.Label(), n.Symbol)
		}
		printDetail("%s", label)
	}
	printStats(len(chain), 0, cacheHit)

	return nil
}
