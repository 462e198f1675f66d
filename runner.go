package vsmac

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ProcessRunner launches an external executable and reports how it exited.
type ProcessRunner interface {
	// Run blocks until the child process terminates and returns its exit
	// code plus the lines it wrote to stdout. ctx bounds the wait; a
	// canceled context kills the child. err is non-nil only when the
	// process could not be started at all.
	Run(ctx context.Context, exe string, args []string, workDir, capturePath string) (int, []string, error)
}

// ExecRunner is the os/exec-backed ProcessRunner. The child's stdout is
// redirected to the capture file and read back after completion; a missing
// or unreadable capture file yields empty output, never an error.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, exe string, args []string, workDir, capturePath string) (int, []string, error) {
	capture := capturePath
	if workDir != "" && !filepath.IsAbs(capture) {
		capture = filepath.Join(workDir, capture)
	}
	out, err := os.Create(capture)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "create capture file %s", capture)
	}

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = workDir
	cmd.Stdout = out
	runErr := cmd.Run()
	_ = out.Close()

	code := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Signaled children report -1 here, which matches the runner
			// convention of negative codes meaning "did not execute".
			code = exitErr.ExitCode()
		} else {
			return 0, nil, errors.Wrapf(runErr, "start %s", exe)
		}
	}
	return code, readCaptured(capture), nil
}

// readCaptured best-effort reads the capture file back as lines.
func readCaptured(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	text := strings.TrimRight(string(data), "\r\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
