package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/importer"
	"gameshelf/internal/library"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import resolutions or price snapshots from JSON files",
	}

	cmd.AddCommand(newImportIDsCommand(ctx))
	cmd.AddCommand(newImportPricesCommand(ctx))
	cmd.AddCommand(newImportSweepCommand(ctx))
	return cmd
}

func newImportIDsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ids <file>",
		Short: "Import title/platform to catalog id mappings",
		Long: `Apply externally supplied catalog id mappings to unresolved games. Use
this when automatic resolution is ambiguous and you have looked up the
right entry yourself. Pass - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(ctx, cmd, args[0], func(imp *importer.Importer, reader io.Reader) (importer.Report, error) {
				return imp.ImportResolutions(cmd.Context(), reader)
			})
		},
	}
}

func newImportPricesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prices <file>",
		Short: "Import price snapshots as observations",
		Long: `Append externally supplied price snapshots to the observation log, as if
a refresh cycle had fetched them. Pass - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(ctx, cmd, args[0], func(imp *importer.Importer, reader io.Reader) (importer.Report, error) {
				return imp.ImportPrices(cmd.Context(), reader)
			})
		},
	}
}

func newImportSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Process pending files in the import directory",
		Long: `Apply every *.json payload waiting in the import directory, the same
pass the daemon runs automatically. Processed files are renamed with a
.done or .failed suffix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				watcher := importer.NewWatcher(cfg.ImportDir(), importer.New(store, logger), logger)
				processed, err := watcher.Sweep(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Processed %d file(s) from %s\n", processed, cfg.ImportDir())
				return nil
			})
		},
	}
}

func runImport(ctx *commandContext, cmd *cobra.Command, path string, apply func(*importer.Importer, io.Reader) (importer.Report, error)) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	var reader io.Reader = cmd.InOrStdin()
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
		report, err := apply(importer.New(store, logger), reader)
		if err != nil {
			return err
		}
		printImportReport(cmd, report)
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d records failed", report.Failed, report.Total)
		}
		return nil
	})
}

func printImportReport(cmd *cobra.Command, report importer.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Applied %d of %d records (%d skipped, %d failed)\n",
		report.Applied, report.Total, report.Skipped, report.Failed)
	for _, problem := range report.Problems {
		fmt.Fprintf(out, "  %s\n", problem)
	}
}
