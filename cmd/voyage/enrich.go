package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type enrichFlags struct {
	entityType string
	seedEdges  bool
}

func newEnrichCmd() *cobra.Command {
	var flags enrichFlags

	cmd := &cobra.Command{
		Use:   "enrich <name>",
		Short: "Enrich an entity from the knowledge base",
		Long:  "Resolves an entity against Wikidata, attaches an authority score to its graph node, and optionally seeds relation edges.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withDeps(func(d *Deps) error {
				result, err := d.EnrichHandler.Handle(cmd.Context(), name, flags.entityType, flags.seedEdges)
				if err != nil {
					return err
				}

				e := result.Enrichment
				if e == nil {
					fmt.Printf("No knowledge base match for %s\n", name)
					return nil
				}

				fmt.Printf("%s -> %s (%s)\n", name, e.Label, e.ExternalID)
				if e.Description != "" {
					fmt.Printf("  %s\n", e.Description)
				}
				fmt.Printf("  authority=%.2f match=%.2f sitelinks=%d statements=%d\n",
					e.AuthorityScore, e.MatchConfidence, e.SitelinkCount, e.StatementCount)
				if flags.seedEdges {
					fmt.Printf("  seeded %d relation edges\n", result.SeededEdges)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.entityType, "type", "t", "place", "Entity type of the named entity")
	cmd.Flags().BoolVarP(&flags.seedEdges, "seed-edges", "s", false, "Seed relation edges from the knowledge base")

	return cmd
}
