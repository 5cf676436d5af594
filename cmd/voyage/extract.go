package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/voyagegraph/voyage-core/internal/application/handlers"
)

type extractFlags struct {
	recursive bool
	verbose   bool
}

func newExtractCmd() *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract <path>",
		Short: "Extract entity mentions from document files",
		Long:  "Extracts typed entity mentions from JSON or Markdown documents and prints them ranked by relevance.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				result, err := d.ExtractHandler.HandlePath(cmd.Context(), args[0], flags.recursive)
				if err != nil {
					return err
				}
				printExtractResult(cmd.OutOrStdout(), result, flags.verbose)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Recurse into subdirectories")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print mention context windows")

	return cmd
}

func printExtractResult(w io.Writer, result *handlers.ExtractBatchResult, verbose bool) {
	for _, r := range result.Results {
		fmt.Fprintf(w, "%s (%s): %d mentions\n", r.DocumentID, r.Title, len(r.Mentions))
		for _, m := range r.Mentions {
			fmt.Fprintf(w, "  %-14s %-24s conf=%.2f relevance=%.2f", m.Type, m.Name, m.Confidence, m.Relevance)
			if m.Sentiment != "" {
				fmt.Fprintf(w, " sentiment=%s", m.Sentiment)
			}
			fmt.Fprintln(w)
			if verbose && m.Context != "" {
				fmt.Fprintf(w, "    %s\n", m.Context)
			}
		}
	}

	for _, f := range result.Failures {
		fmt.Fprintf(w, "failed: %s (%s)\n", f.DocumentID, f.Reason)
	}
}
