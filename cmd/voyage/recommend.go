package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyagegraph/voyage-core/internal/application/handlers"
)

type recommendFlags struct {
	entityType string
	limit      int
}

func newRecommendCmd() *cobra.Command {
	var flags recommendFlags

	cmd := &cobra.Command{
		Use:   "recommend <name>",
		Short: "Recommend entities related to a named one",
		Long:  "Ranks the graph neighbors of an entity by co-occurrence strength.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withDeps(func(d *Deps) error {
				result, err := d.RecommendHandler.Handle(cmd.Context(), name, flags.entityType, flags.limit)
				if err != nil {
					return err
				}

				printRecommendations(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.entityType, "type", "t", "place", "Entity type of the queried name")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", handlers.DefaultRecommendLimit, "Maximum number of recommendations")

	return cmd
}

func printRecommendations(w io.Writer, result *handlers.RecommendResult) {
	if len(result.Recommendations) == 0 {
		fmt.Fprintf(w, "No recommendations for %s (%s)\n", result.Query, result.Type)
		return
	}

	fmt.Fprintf(w, "Related to %s (%s):\n", result.Query, result.Type)
	for i, rec := range result.Recommendations {
		fmt.Fprintf(w, "%2d. %-24s %-12s seen %d times in %d documents\n",
			i+1, rec.Name, rec.Type, rec.Frequency, rec.RelatedDocumentCount)
	}
}
