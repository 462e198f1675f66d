package vsmac

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MatrixConfig describes a suite run fanned out over locales and devices.
type MatrixConfig struct {
	// Serials lists the target devices; at least one is required.
	Serials []string
	// Locales lists the locale codes to run on every device, in order.
	Locales        []string
	RunnerPath     string
	TestBinaryPath string
	CategoryFilter string
	// BaseDir hosts one working directory per device so concurrent runs
	// never share a report or capture file; empty means a temp directory.
	BaseDir string
}

// MatrixResult is one cell of a matrix run.
type MatrixResult struct {
	Serial  string
	Locale  string
	Outcome RunOutcome
	// Err is set when the cell itself errored (e.g. a malformed report);
	// the remaining cells still run.
	Err error
}

// RunMatrix runs the suite for every locale on every device. Devices run
// concurrently, one goroutine each; locales run sequentially per device so
// locale state on a device is never contended. Results come back in
// (serial, locale) order regardless of scheduling.
func (o *Orchestrator) RunMatrix(ctx context.Context, cfg MatrixConfig) ([]MatrixResult, error) {
	if len(cfg.Serials) == 0 {
		return nil, errors.New("matrix run: no device serials")
	}
	if len(cfg.Locales) == 0 {
		return nil, errors.New("matrix run: no locales")
	}
	baseDir := cfg.BaseDir
	if baseDir == "" {
		dir, err := os.MkdirTemp("", "droidtest-matrix-")
		if err != nil {
			return nil, errors.Wrap(err, "matrix run: create base dir")
		}
		baseDir = dir
	}

	results := make([]MatrixResult, len(cfg.Serials)*len(cfg.Locales))
	group, groupCtx := errgroup.WithContext(ctx)
	for di, serial := range cfg.Serials {
		group.Go(func() error {
			workDir := filepath.Join(baseDir, deviceDirName(di, serial))
			if err := os.MkdirAll(workDir, 0o755); err != nil {
				return errors.Wrapf(err, "matrix run: work dir for %s", serial)
			}
			for li, locale := range cfg.Locales {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				outcome, err := o.RunTestSuite(groupCtx, RunConfig{
					Serial:         serial,
					Locale:         locale,
					RunnerPath:     cfg.RunnerPath,
					TestBinaryPath: cfg.TestBinaryPath,
					CategoryFilter: cfg.CategoryFilter,
					WorkDir:        workDir,
				})
				if err != nil {
					log.Error().Err(err).Str("serial", serial).Str("locale", locale).Msg("matrix cell failed")
				}
				results[di*len(cfg.Locales)+li] = MatrixResult{
					Serial:  serial,
					Locale:  locale,
					Outcome: outcome,
					Err:     err,
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// deviceDirName keeps per-device directories unique even when a serial is
// empty (implicit single device).
func deviceDirName(idx int, serial string) string {
	if serial == "" {
		return fmt.Sprintf("device-%d", idx)
	}
	return serial
}
