package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	vsmac "github.com/sunitjoshi/VSMac"
	"github.com/sunitjoshi/VSMac/internal/config"
	"github.com/sunitjoshi/VSMac/internal/storage"
)

func newRunCmd() *cobra.Command {
	var (
		flagLocale    string
		flagRunner    string
		flagBinary    string
		flagFilter    string
		flagWorkDir   string
		flagReport    string
		flagCapture   string
		flagTimeout   time.Duration
		flagHistoryDB string
		flagNoHistory bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test suite once under the given locale",
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

			ctx := cmd.Context()
			timeout := flagTimeout
			if timeout <= 0 {
				timeout = config.Duration(vsmac.EnvRunTimeout, 0)
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			outcome, err := orch.RunTestSuite(ctx, vsmac.RunConfig{
				Serial:         rootSerial,
				Locale:         flagLocale,
				RunnerPath:     flagRunner,
				TestBinaryPath: flagBinary,
				CategoryFilter: flagFilter,
				WorkDir:        flagWorkDir,
				ReportPath:     flagReport,
				CapturePath:    flagCapture,
			})
			if err != nil {
				return err
			}
			printOutcome(cmd, rootSerial, flagLocale, outcome)
			if !outcome.DidRun {
				return errors.New("test runner did not execute the suite")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagLocale, "locale", "", "Locale code to set before the run (required)")
	cmd.Flags().StringVar(&flagRunner, "runner", "", "Path to the test runner executable (required)")
	cmd.Flags().StringVar(&flagBinary, "test-binary", "", "Path to the test binary under test (required)")
	cmd.Flags().StringVar(&flagFilter, "filter", "", "Category include filter passed verbatim to the runner")
	cmd.Flags().StringVar(&flagWorkDir, "workdir", "", "Working directory for the runner (default: current)")
	cmd.Flags().StringVar(&flagReport, "report", "", "Report file the runner produces, relative to workdir (default TestResult.xml)")
	cmd.Flags().StringVar(&flagCapture, "capture", "", "Capture file for the runner's stdout (default TestResults.txt)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Kill the runner after this duration (0 uses $DROIDTEST_RUN_TIMEOUT, unset means no limit)")
	cmd.Flags().StringVar(&flagHistoryDB, "history-db", "", "History database path overriding $DROIDTEST_DB_PATH")
	cmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Skip recording this run into the history database")
	_ = cmd.MarkFlagRequired("locale")
	_ = cmd.MarkFlagRequired("runner")
	_ = cmd.MarkFlagRequired("test-binary")
	return cmd
}

func printOutcome(cmd *cobra.Command, serial, locale string, outcome vsmac.RunOutcome) {
	if outcome.DidRun {
		r := outcome.Report
		fmt.Fprintf(cmd.OutOrStdout(), "locale=%s total=%d errors=%d failures=%d elapsed=%s\n",
			r.Locale, r.Total, r.Errors, r.Failures, r.Elapsed.Round(time.Millisecond))
		return
	}
	log.Warn().Str("serial", serial).Str("locale", locale).Msg("suite did not run")
	if len(outcome.Diagnostics) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(outcome.Diagnostics, "\n"))
	}
}
