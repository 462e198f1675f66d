package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newDeviceCmdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device-cmd [command...]",
		Short: "Send a raw shell command to the device and print its output",
		Long:  "With no arguments, dumps all device properties (getprop).",
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := newChannel()
			if err != nil {
				return err
			}
			output, err := channel.Send(rootSerial, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List attached devices with their adb state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := newChannel()
			if err != nil {
				return err
			}
			states, err := channel.ListDevicesWithState()
			if err != nil {
				return err
			}
			serials := make([]string, 0, len(states))
			for serial := range states {
				serials = append(serials, serial)
			}
			sort.Strings(serials)
			for _, serial := range serials {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", serial, states[serial])
			}
			return nil
		},
	}
}
