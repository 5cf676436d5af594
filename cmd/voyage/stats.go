package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/voyagegraph/voyage-core/internal/application/handlers"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge graph and extraction statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				result, err := d.StatsHandler.Handle(cmd.Context())
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func printStats(w io.Writer, result *handlers.StatsResult) {
	g := result.Graph
	fmt.Fprintf(w, "Entities:      %d\n", g.EntityCount)
	fmt.Fprintf(w, "Relationships: %d\n", g.RelationshipCount)
	if !g.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:       %s\n", g.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if len(g.TypeBreakdown) > 0 {
		fmt.Fprintln(w, "\nBy type:")
		for t, count := range g.TypeBreakdown {
			fmt.Fprintf(w, "  %-14s %d\n", t, count)
		}
	}

	if len(g.TopEntities) > 0 {
		fmt.Fprintln(w, "\nTop entities:")
		for i, e := range g.TopEntities {
			fmt.Fprintf(w, "%2d. %-24s %-12s %d mentions\n", i+1, e.Name, e.Type, e.Frequency)
		}
	}

	x := result.Extraction
	fmt.Fprintf(w, "\nExtractions: %d (%d cache hits, %d misses)\n",
		x.Extractions, x.CacheHits, x.CacheMisses)
}
