package main

import (
	"github.com/sunitjoshi/VSMac/internal/providers/adb"
)

// newChannel connects to the local adb server.
func newChannel() (*adb.Channel, error) {
	return adb.NewDefault()
}
