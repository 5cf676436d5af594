package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voyagegraph/voyage-core/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a voyage workspace in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if err := config.WriteDefault(cwd); err != nil {
				return err
			}

			fmt.Printf("Initialized voyage workspace at %s\n", config.ConfigDir(cwd))
			return nil
		},
	}
}
