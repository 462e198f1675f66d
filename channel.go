package vsmac

// DeviceChannel sends a shell command to a virtual device and returns its
// raw text output.
//
// serial selects the target device; when empty, the command goes to the
// single implicitly addressable device and the underlying layer errors out
// if none or several are attached. An empty command falls back to a full
// property dump, which is what GetLocale scans.
//
// The channel is a synchronous pass-through: no retries, no timeout. Errors
// are adb-level (device unreachable, command rejected) and are not
// interpreted further here.
type DeviceChannel interface {
	Send(serial, command string) (string, error)
}
