package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	vsmac "github.com/sunitjoshi/VSMac"
)

func newGetLocaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-locale",
		Short: "Print the device's current locale property",
		Long:  "Scans the device property dump for the system language/locale property. Prints nothing when the device exposes no such property.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := newChannel()
			if err != nil {
				return err
			}
			locale := vsmac.NewLocaleController(channel).GetLocale(rootSerial)
			if locale != "" {
				fmt.Fprintln(cmd.OutOrStdout(), locale)
			}
			return nil
		},
	}
}

func newSetLocaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-locale <code>",
		Short: "Broadcast a locale change to the device",
		Long:  "Fire-and-forget: the device's response is not inspected. Use get-locale afterwards to verify the change took effect.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := newChannel()
			if err != nil {
				return err
			}
			return vsmac.NewLocaleController(channel).SetLocale(rootSerial, args[0])
		},
	}
}

func newLocalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the supported locale codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locales := vsmac.SupportedLocales()
			codes := make([]string, 0, len(locales))
			for code := range locales {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", code, locales[code])
			}
			return nil
		},
	}
}
