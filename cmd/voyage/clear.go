package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the extraction and enrichment caches",
		Long:  "Wipes all cached extraction results and knowledge base enrichments. The graph is recomputed from the corpus on next access.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.ClearHandler.Handle(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("Caches cleared")
				return nil
			})
		},
	}
}
