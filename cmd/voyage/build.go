package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type buildFlags struct {
	recursive bool
	merge     bool
}

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build <path>",
		Short: "Build the knowledge graph from a document corpus",
		Long:  "Extracts entities from every document under the path and rebuilds the co-occurrence graph. With --merge, folds the file into the existing graph instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if flags.merge {
					merged, err := d.BuildHandler.HandleMerge(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					fmt.Printf("Merged %d documents into the graph\n", merged)
					return nil
				}

				result, err := d.BuildHandler.Handle(cmd.Context(), args[0], flags.recursive)
				if err != nil {
					return err
				}

				report := result.Report
				fmt.Printf("Build %s: %d documents from %d files, %d mentions in %s\n",
					report.ID, report.Documents, result.Files, report.Mentions,
					report.FinishedAt.Sub(report.StartedAt).Round(timePrecision))
				for _, f := range report.Failures {
					fmt.Printf("  skipped %s: %s\n", f.DocumentID, f.Reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Recurse into subdirectories")
	cmd.Flags().BoolVarP(&flags.merge, "merge", "m", false, "Merge one file into the existing graph")

	return cmd
}
