package vsmac

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sunitjoshi/VSMac/internal/config"
	"github.com/sunitjoshi/VSMac/pkg/nunit"
)

// RunConfig describes one orchestrated test-suite run.
type RunConfig struct {
	// Serial selects the target device; empty means the single implicitly
	// addressable one.
	Serial string
	// Locale is the code to push to the device before the run. Must be a
	// member of the supported set.
	Locale string
	// RunnerPath and TestBinaryPath must both exist; validated before any
	// locale command or process start.
	RunnerPath     string
	TestBinaryPath string
	// CategoryFilter, when non-empty, is passed verbatim to the runner as
	// an include filter.
	CategoryFilter string
	// WorkDir is where the runner executes and where ReportPath and
	// CapturePath resolve; empty means the current directory.
	WorkDir string
	// ReportPath and CapturePath default to TestResult.xml and
	// TestResults.txt (overridable via environment).
	ReportPath  string
	CapturePath string
}

// SuiteReport is the normalized outcome of a run where the suite executed.
type SuiteReport struct {
	Locale   string
	Total    int
	Errors   int
	Failures int
	// Date and Time come from the report document; Elapsed is the measured
	// wall time of the runner process.
	Date    string
	Time    string
	Elapsed time.Duration
	// Raw is the report document as produced by the runner.
	Raw []byte
}

// RunOutcome is the single result of an orchestration call. Exactly one
// variant is populated: DidRun selects Report (the suite executed, even
// with failing tests) or Diagnostics (the runner never executed the suite).
type RunOutcome struct {
	DidRun      bool
	Report      *SuiteReport
	Diagnostics []string
}

// RunRecord is the flattened form of a finished run, for history sinks.
type RunRecord struct {
	Timestamp   time.Time
	Serial      string
	Locale      string
	Runner      string
	TestBinary  string
	Filter      string
	DidRun      bool
	Total       int
	Errors      int
	Failures    int
	Elapsed     time.Duration
	Diagnostics string
}

// RunRecorder persists finished runs. Recording errors never fail the run.
type RunRecorder interface {
	RecordRun(ctx context.Context, rec RunRecord) error
}

// LocaleSetter is the slice of LocaleController the orchestrator drives.
type LocaleSetter interface {
	SetLocale(serial, code string) error
}

// Orchestrator coordinates one run: validate, set locale, execute the
// runner, then either parse the produced report or collect diagnostics.
type Orchestrator struct {
	Locales LocaleSetter
	Proc    ProcessRunner
	// ParseReport defaults to nunit.ParseFile.
	ParseReport func(path string) (*nunit.Report, error)
	// History is optional; when set, every RunOutcome is recorded.
	History RunRecorder
}

// NewOrchestrator builds an Orchestrator over the given device channel with
// the default process runner and report parser.
func NewOrchestrator(channel DeviceChannel) *Orchestrator {
	return &Orchestrator{
		Locales: NewLocaleController(channel),
		Proc:    ExecRunner{},
	}
}

// RunTestSuite performs one orchestrated run and returns its outcome.
//
// Exit-code convention of the runner: a negative code means the runner
// itself failed to execute the suite (Failure outcome with captured
// diagnostics); zero or positive means the suite ran and the code equals
// the failing-test count (Report outcome, parsed from the report file).
// A missing or malformed report after a non-negative exit is returned as a
// *nunit.MalformedReportError; that inconsistency is never masked.
//
// No retries happen at this layer, and the locale change is not verified;
// callers wanting verification should follow up with GetLocale.
func (o *Orchestrator) RunTestSuite(ctx context.Context, cfg RunConfig) (RunOutcome, error) {
	started := time.Now()

	// Fail-fast gate: nothing is started and no locale is touched unless
	// both paths exist and the locale code is in the supported set.
	if !pathExists(cfg.RunnerPath) || !pathExists(cfg.TestBinaryPath) {
		log.Warn().Str("runner", cfg.RunnerPath).Str("binary", cfg.TestBinaryPath).Msg("run rejected: bad paths")
		return o.finish(ctx, cfg, started, RunOutcome{Diagnostics: []string{failureInvalidPaths}}), nil
	}
	if !IsSupportedLocale(cfg.Locale) {
		log.Warn().Str("locale", cfg.Locale).Msg("run rejected: unsupported locale")
		return o.finish(ctx, cfg, started, RunOutcome{Diagnostics: []string{"Unsupported locale " + cfg.Locale}}), nil
	}

	// Fire-and-forget: the device-side effect is not verified here.
	_ = o.Locales.SetLocale(cfg.Serial, cfg.Locale)

	args := []string{cfg.TestBinaryPath}
	if filter := strings.TrimSpace(cfg.CategoryFilter); filter != "" {
		args = append(args, "-include="+filter)
	}
	capture := cfg.CapturePath
	if capture == "" {
		capture = config.String(EnvCapturePath, DefaultCaptureFile)
	}
	log.Info().Str("serial", cfg.Serial).Str("locale", cfg.Locale).Str("runner", cfg.RunnerPath).Msg("executing test suite")
	code, captured, err := o.Proc.Run(ctx, cfg.RunnerPath, args, cfg.WorkDir, capture)
	elapsed := time.Since(started)
	if err != nil {
		// The process never started; treat like a runner execution failure.
		log.Error().Err(err).Str("runner", cfg.RunnerPath).Msg("runner did not start")
		return o.finish(ctx, cfg, started, RunOutcome{Diagnostics: append([]string{err.Error()}, captured...)}), nil
	}

	if code < 0 {
		log.Warn().Int("exit_code", code).Msg("runner failed to execute suite")
		return o.finish(ctx, cfg, started, RunOutcome{Diagnostics: captured}), nil
	}

	reportPath := cfg.ReportPath
	if reportPath == "" {
		reportPath = config.String(EnvReportPath, DefaultReportFile)
	}
	if cfg.WorkDir != "" && !filepath.IsAbs(reportPath) {
		reportPath = filepath.Join(cfg.WorkDir, reportPath)
	}
	parse := o.ParseReport
	if parse == nil {
		parse = nunit.ParseFile
	}
	report, err := parse(reportPath)
	if err != nil {
		// The runner claimed success but its artifact is unusable.
		return RunOutcome{}, err
	}
	outcome := RunOutcome{
		DidRun: true,
		Report: &SuiteReport{
			Locale:   cfg.Locale,
			Total:    report.Total,
			Errors:   report.Errors,
			Failures: report.Failures,
			Date:     report.Date,
			Time:     report.Time,
			Elapsed:  elapsed,
			Raw:      report.Raw,
		},
	}
	log.Info().Int("exit_code", code).Int("total", report.Total).Int("failures", report.Failures).Int("errors", report.Errors).Msg("suite completed")
	return o.finish(ctx, cfg, started, outcome), nil
}

// finish records the outcome into the optional history sink and returns it.
func (o *Orchestrator) finish(ctx context.Context, cfg RunConfig, started time.Time, outcome RunOutcome) RunOutcome {
	if o.History == nil {
		return outcome
	}
	rec := RunRecord{
		Timestamp:  started,
		Serial:     cfg.Serial,
		Locale:     cfg.Locale,
		Runner:     cfg.RunnerPath,
		TestBinary: cfg.TestBinaryPath,
		Filter:     cfg.CategoryFilter,
		DidRun:     outcome.DidRun,
		Elapsed:    time.Since(started),
	}
	if outcome.DidRun {
		rec.Total = outcome.Report.Total
		rec.Errors = outcome.Report.Errors
		rec.Failures = outcome.Report.Failures
	} else {
		rec.Diagnostics = strings.Join(outcome.Diagnostics, "\n")
	}
	if err := o.History.RecordRun(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("record run history failed")
	}
	return outcome
}

func pathExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
