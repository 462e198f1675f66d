package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	vsmac "github.com/sunitjoshi/VSMac"
	"github.com/sunitjoshi/VSMac/internal/storage"
)

func newMatrixCmd() *cobra.Command {
	var (
		flagSerials   []string
		flagLocales   []string
		flagRunner    string
		flagBinary    string
		flagFilter    string
		flagBaseDir   string
		flagHistoryDB string
		flagNoHistory bool
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Run the suite across several locales and devices",
		Long: `Fans the suite out over every locale on every device. Devices run
concurrently in separate working directories; locales run sequentially on
each device so its locale state is never contended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := newChannel()
			if err != nil {
				return err
			}
			orch := vsmac.NewOrchestrator(channel)
			if !flagNoHistory {
				dbPath := flagHistoryDB
				if dbPath == "" {
					dbPath = storage.DefaultPath()
				}
				history, err := storage.Open(dbPath)
				if err != nil {
					return err
				}
				defer history.Close()
				orch.History = history
			}

			serials := flagSerials
			if len(serials) == 0 {
				serials = []string{rootSerial}
			}
			results, err := orch.RunMatrix(cmd.Context(), vsmac.MatrixConfig{
				Serials:        serials,
				Locales:        flagLocales,
				RunnerPath:     flagRunner,
				TestBinaryPath: flagBinary,
				CategoryFilter: flagFilter,
				BaseDir:        flagBaseDir,
			})
			if err != nil {
				return err
			}
			bad := 0
			for _, res := range results {
				switch {
				case res.Err != nil:
					bad++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\terror: %v\n", res.Serial, res.Locale, res.Err)
				case !res.Outcome.DidRun:
					bad++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\tdid not run\n", res.Serial, res.Locale)
				default:
					r := res.Outcome.Report
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\ttotal=%d errors=%d failures=%d elapsed=%s\n",
						res.Serial, res.Locale, r.Total, r.Errors, r.Failures, r.Elapsed.Round(time.Millisecond))
				}
			}
			if bad > 0 {
				return errors.Errorf("%d of %d matrix cells did not produce a report", bad, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&flagSerials, "serials", nil, "Device serials (default: the --serial device)")
	cmd.Flags().StringSliceVar(&flagLocales, "locales", nil, "Locale codes to run on every device (required)")
	cmd.Flags().StringVar(&flagRunner, "runner", "", "Path to the test runner executable (required)")
	cmd.Flags().StringVar(&flagBinary, "test-binary", "", "Path to the test binary under test (required)")
	cmd.Flags().StringVar(&flagFilter, "filter", "", "Category include filter passed verbatim to the runner")
	cmd.Flags().StringVar(&flagBaseDir, "base-dir", "", "Base directory for per-device working directories (default: a temp dir)")
	cmd.Flags().StringVar(&flagHistoryDB, "history-db", "", "History database path overriding $DROIDTEST_DB_PATH")
	cmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Skip recording runs into the history database")
	_ = cmd.MarkFlagRequired("locales")
	_ = cmd.MarkFlagRequired("runner")
	_ = cmd.MarkFlagRequired("test-binary")
	return cmd
}
