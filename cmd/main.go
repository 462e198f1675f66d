package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/sunitjoshi/VSMac/internal/env"
)

var rootCmd = &cobra.Command{
	Use:   "droidtest",
	Short: "Locale-aware test runs against Android virtual devices",
	Long: `droidtest drives a virtual Android device over adb: read or set the
device locale, run an external NUnit-style test runner against a test
binary, and normalize the runner's report into a uniform outcome.`,
}

var rootSerial string

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	rootCmd.PersistentFlags().StringVar(&rootSerial, "serial", "", "Target device serial (default: the single attached device)")
	rootCmd.AddCommand(
		newRunCmd(),
		newMatrixCmd(),
		newGetLocaleCmd(),
		newSetLocaleCmd(),
		newLocalesCmd(),
		newDeviceCmdCmd(),
		newDevicesCmd(),
		newHistoryCmd(),
	)
	_ = env.Ensure()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("droidtest command failed")
	}
}
