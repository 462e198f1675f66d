package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sunitjoshi/VSMac/internal/storage"
)

func newHistoryCmd() *cobra.Command {
	var (
		flagLimit     int
		flagHistoryDB string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent test runs from the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := flagHistoryDB
			if dbPath == "" {
				dbPath = storage.DefaultPath()
			}
			history, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.Recent(cmd.Context(), flagLimit)
			if err != nil {
				return err
			}
			for _, rec := range records {
				status := fmt.Sprintf("total=%d errors=%d failures=%d", rec.Total, rec.Errors, rec.Failures)
				if !rec.DidRun {
					status = "did not run"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-16s %-8s %s (%s)\n",
					rec.Timestamp.Local().Format(time.DateTime), rec.Serial, rec.Locale,
					status, rec.Elapsed.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&flagHistoryDB, "history-db", "", "History database path overriding $DROIDTEST_DB_PATH")
	return cmd
}
