package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/infrastructures/tracing"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	app        *app
	endSpan    func(error)
}

// execute runs the command tree and then releases the app. Cobra skips
// post-run hooks when RunE fails, so the release happens here instead.
func execute(ctx context.Context, rootCmd *cobra.Command, opts *rootOptions) error {
	err := rootCmd.ExecuteContext(ctx)
	opts.close(err)
	return err
}

func (o *rootOptions) close(err error) {
	if o.endSpan != nil {
		o.endSpan(err)
		o.endSpan = nil
	}
	if o.app != nil {
		o.app.close()
	}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sanctions-sync",
		Short:         "sanctions-sync moves club and sanction records between the Notion databases and local snapshots.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts.configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			opts.app = a

			ctx, end := tracing.StartCommand(cmd.Context(), cmd.CommandPath())
			cmd.SetContext(ctx)
			opts.endSpan = end
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")

	rootCmd.AddCommand(
		newExportCmd(opts),
		newImportCmd(opts),
		newBackfillCmd(opts),
		newDiscoverCmd(opts),
		newReportCmd(opts),
		newMirrorCmd(opts),
	)

	return rootCmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		file string
		kind string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write remote records to a local JSON snapshot.",
	}
	exportCmd.PersistentFlags().StringVar(&file, "file", "", "snapshot file, defaults to the configured one")

	clubsCmd := &cobra.Command{
		Use:   "clubs",
		Short: "Export clubs with their resolved aliases.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			svc, err := a.syncService()
			if err != nil {
				return err
			}
			path := orDefault(file, a.cfg.Snapshots.Clubs)
			n, err := svc.ExportClubs(cmd.Context(), path)
			return finishExport(cmd.OutOrStdout(), err, "exported %d clubs to %s", n, a.store.Path(path))
		},
	}

	aliasesCmd := &cobra.Command{
		Use:   "aliases",
		Short: "Export club alias records.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			svc, err := a.syncService()
			if err != nil {
				return err
			}
			path := orDefault(file, a.cfg.Snapshots.ClubAliases)
			n, err := svc.ExportAliases(cmd.Context(), path)
			return finishExport(cmd.OutOrStdout(), err, "exported %d club aliases to %s", n, a.store.Path(path))
		},
	}

	sanctionsCmd := &cobra.Command{
		Use:   "sanctions",
		Short: "Export manager or adept sanctions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := models.ParseSanctionKind(kind)
			if err != nil {
				return err
			}
			a := opts.app
			svc, err := a.syncService()
			if err != nil {
				return err
			}
			path := orDefault(file, a.sanctionSnapshot(k))
			n, err := svc.ExportSanctions(cmd.Context(), k, path)
			return finishExport(cmd.OutOrStdout(), err, "exported %d %s sanctions to %s", n, k, a.store.Path(path))
		},
	}
	addKindFlag(sanctionsCmd, &kind)

	exportCmd.AddCommand(clubsCmd, aliasesCmd, sanctionsCmd)
	return exportCmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var file string

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Create remote records from local files, halting on the first failure.",
	}
	importCmd.PersistentFlags().StringVar(&file, "file", "", "input file, defaults to the configured one")

	clubsCmd := &cobra.Command{
		Use:   "clubs",
		Short: "Create one club per scraped directory entry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			svc, err := a.syncService()
			if err != nil {
				return err
			}
			summary, err := svc.ImportClubs(cmd.Context(), orDefault(file, a.cfg.Snapshots.RawClubs))
			return finishBatch(cmd.OutOrStdout(), "clubs", summary, err)
		},
	}

	aliasesCmd := &cobra.Command{
		Use:   "aliases",
		Short: "Create one club alias per line of the alias list.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			svc, err := a.syncService()
			if err != nil {
				return err
			}
			summary, err := svc.ImportAliases(cmd.Context(), orDefault(file, a.cfg.Snapshots.AliasList))
			return finishBatch(cmd.OutOrStdout(), "club aliases", summary, err)
		},
	}

	importCmd.AddCommand(clubsCmd, aliasesCmd)
	return importCmd
}

func newBackfillCmd(opts *rootOptions) *cobra.Command {
	var (
		file string
		kind string
	)

	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill missing identifiers on remote records.",
	}

	sanctionIDsCmd := &cobra.Command{
		Use:   "sanction-ids",
		Short: "Assign a sanction id to every snapshot record that has none.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := models.ParseSanctionKind(kind)
			if err != nil {
				return err
			}
			a := opts.app
			svc, err := a.syncService()
			if err != nil {
				return err
			}
			summary, err := svc.BackfillSanctionIDs(cmd.Context(), k, orDefault(file, a.sanctionSnapshot(k)))
			return finishBatch(cmd.OutOrStdout(), "sanction ids", summary, err)
		},
	}
	sanctionIDsCmd.Flags().StringVar(&file, "file", "", "sanction snapshot, defaults to the configured one")
	addKindFlag(sanctionIDsCmd, &kind)

	backfillCmd.AddCommand(sanctionIDsCmd)
	return backfillCmd
}

func newDiscoverCmd(opts *rootOptions) *cobra.Command {
	var (
		file     string
		jsonFile string
	)

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Derive staging data from remote records.",
	}

	aliasesCmd := &cobra.Command{
		Use:   "aliases",
		Short: "List the distinct club groups of manager sanctions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			svc, err := a.syncService()
			if err != nil {
				return err
			}
			txtPath := orDefault(file, a.cfg.Snapshots.AliasList)
			jsonPath := orDefault(jsonFile, a.cfg.Snapshots.AliasNames)
			groups, err := svc.DiscoverAliases(cmd.Context(), txtPath, jsonPath)
			return finishExport(cmd.OutOrStdout(), err, "discovered %d aliases, written to %s and %s", len(groups), a.store.Path(txtPath), a.store.Path(jsonPath))
		},
	}
	aliasesCmd.Flags().StringVar(&file, "file", "", "alias list output, defaults to the configured one")
	aliasesCmd.Flags().StringVar(&jsonFile, "json-file", "", "alias json output, defaults to the configured one")

	discoverCmd.AddCommand(aliasesCmd)
	return discoverCmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		file      string
		clubsFile string
		kind      string
		limit     int
	)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print per-club sanction totals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := models.ParseSanctionKind(kind)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("limit must not be negative, got %d", limit)
			}

			a := opts.app
			svc, cleanup := a.reportService(cmd.Context())
			defer cleanup()

			report, err := svc.Report(cmd.Context(), k,
				orDefault(file, a.sanctionSnapshot(k)),
				orDefault(clubsFile, a.cfg.Snapshots.Clubs),
				limit,
			)
			if err != nil {
				return err
			}

			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&file, "file", "", "sanction snapshot used when the live source fails")
	reportCmd.Flags().StringVar(&clubsFile, "clubs-file", "", "club snapshot used to resolve cities")
	reportCmd.Flags().IntVar(&limit, "limit", 10, "number of clubs to show, 0 for all")
	addKindFlag(reportCmd, &kind)

	return reportCmd
}

func newMirrorCmd(opts *rootOptions) *cobra.Command {
	var (
		file string
		kind string
	)

	mirrorCmd := &cobra.Command{
		Use:   "mirror",
		Short: "Upsert a sanction snapshot into Postgres.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := models.ParseSanctionKind(kind)
			if err != nil {
				return err
			}

			a := opts.app
			svc, closeRepo, err := a.mirrorService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			res, err := svc.Mirror(cmd.Context(), k, orDefault(file, a.sanctionSnapshot(k)))
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "mirrored %d %s sanctions (%d inserted, %d updated)", res.Total, k, res.Inserted, res.Updated)
			return nil
		},
	}
	mirrorCmd.Flags().StringVar(&file, "file", "", "sanction snapshot, defaults to the configured one")
	addKindFlag(mirrorCmd, &kind)

	return mirrorCmd
}

func addKindFlag(cmd *cobra.Command, kind *string) {
	cmd.Flags().StringVar(kind, "kind", string(models.SanctionKindManagers), "sanction variant: managers or adepts")
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func printDone(w io.Writer, format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
}

func finishBatch(w io.Writer, what string, summary models.BatchSummary, err error) error {
	if err != nil {
		_, _ = color.New(color.FgYellow).Fprintf(w, "%s: halted after %d of %d processed, %d skipped\n",
			what, summary.Processed, summary.Total, summary.Skipped)
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}

	printDone(w, "%s: %d of %d processed, %d skipped", what, summary.Processed, summary.Total, summary.Skipped)
	return nil
}

// finishExport prints the export line. Skipped records are listed under it and
// still fail the command; any other error means nothing was written.
func finishExport(w io.Writer, err error, format string, args ...any) error {
	if err == nil {
		printDone(w, format, args...)
		return nil
	}

	skipped := derr.Skipped(err)
	if skipped == nil {
		return err
	}

	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(w, format+", %d %s records skipped\n", append(args, len(skipped.Errs), skipped.Entity)...)
	for _, recErr := range skipped.Errs {
		_, _ = yellow.Fprintf(w, "  %v\n", recErr)
	}
	return err
}
