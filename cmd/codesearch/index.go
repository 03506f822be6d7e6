package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newIndexCmd(opts *rootOptions, factory appFactory) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector store unless one already exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context(), opts, factory)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Indexing %s...\n", app.Config.Search.CodebaseRoot)

			report, err := app.Search.IndexCodebase(cmd.Context())
			if err != nil {
				return err
			}
			if report.Skipped {
				fmt.Fprintf(out, "Vector store already exists (%d chunks), nothing to do\n", report.Chunks)
				return nil
			}

			fmt.Fprintf(out, "Done in %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
			fmt.Fprintf(out, "  Files:   %d loaded, %d skipped\n", report.Documents, report.SkippedFiles())
			fmt.Fprintf(out, "  Chunks:  %d\n", report.Chunks)
			if verbose {
				for _, o := range report.Outcomes {
					if o.Reason != "" {
						fmt.Fprintf(out, "  skipped %s: %s\n", o.Path, o.Reason)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list skipped files")
	return cmd
}
