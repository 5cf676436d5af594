package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type exportFlags struct {
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the knowledge graph as JSON",
		Long:  "Writes the full graph snapshot (entities, relationships, counts) as indented JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) (err error) {
	var w io.Writer = os.Stdout
	if flags.output != "" {
		f, ferr := os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if ferr != nil {
			return fmt.Errorf("creating file: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	}

	return withDeps(func(d *Deps) error {
		snap, err := d.ExportHandler.Handle(cmd.Context(), w)
		if err != nil {
			return err
		}
		if flags.output != "" {
			fmt.Printf("Exported %d entities and %d relationships to %s\n",
				snap.EntityCount, snap.RelationCount, flags.output)
		}
		return nil
	})
}
