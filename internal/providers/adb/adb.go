// Package adb implements the device shell channel over gadb.
package adb

import (
	"strings"

	"github.com/httprunner/httprunner/v5/pkg/gadb"
	"github.com/pkg/errors"
)

// Channel routes shell commands to devices through the local adb server.
// It implements vsmac.DeviceChannel.
type Channel struct {
	client gadb.Client
}

// New wraps an existing gadb client.
func New(client gadb.Client) *Channel {
	return &Channel{client: client}
}

// NewDefault connects to the local adb server with default settings.
func NewDefault() (*Channel, error) {
	client, err := gadb.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "init adb client")
	}
	return New(client), nil
}

// ListDevices returns the serials of all attached devices.
func (c *Channel) ListDevices() ([]string, error) {
	if c == nil {
		return nil, errors.New("adb channel is nil")
	}
	return c.client.DeviceSerialList()
}

// ListDevicesWithState returns attached serials with their raw adb state.
func (c *Channel) ListDevicesWithState() (map[string]string, error) {
	if c == nil {
		return nil, errors.New("adb channel is nil")
	}
	devs, err := c.client.DeviceList()
	if err != nil {
		return nil, errors.Wrap(err, "list adb devices")
	}
	stateBySerial := make(map[string]string, len(devs))
	for _, dev := range devs {
		if dev == nil {
			continue
		}
		serial := strings.TrimSpace(dev.Serial())
		if serial == "" {
			continue
		}
		state, err := dev.State()
		if err != nil {
			stateBySerial[serial] = string(gadb.StateUnknown)
			continue
		}
		stateBySerial[serial] = string(state)
	}
	return stateBySerial, nil
}

// Send runs a shell command on the device named by serial and returns its
// raw output. An empty serial targets the single attached device and errors
// when none or several are attached. An empty command falls back to a full
// property dump.
func (c *Channel) Send(serial, command string) (string, error) {
	if c == nil {
		return "", errors.New("adb channel is nil")
	}
	dev, err := c.resolve(serial)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{"getprop"}
	}
	return dev.RunShellCommand(fields[0], fields[1:]...)
}

func (c *Channel) resolve(serial string) (*gadb.Device, error) {
	devs, err := c.client.DeviceList()
	if err != nil {
		return nil, errors.Wrap(err, "list adb devices")
	}
	target := strings.TrimSpace(serial)
	if target == "" {
		if len(devs) == 0 {
			return nil, errors.New("no adb device attached")
		}
		if len(devs) > 1 {
			return nil, errors.Errorf("%d adb devices attached, serial required", len(devs))
		}
		return devs[0], nil
	}
	for _, d := range devs {
		if d != nil && strings.TrimSpace(d.Serial()) == target {
			return d, nil
		}
	}
	return nil, errors.Errorf("device %s not found", serial)
}
