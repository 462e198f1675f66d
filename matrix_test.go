package vsmac

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// countingProc is safe for the concurrent device goroutines of a matrix run.
type countingProc struct {
	mu      sync.Mutex
	exit    int
	runs    []string
	reports string
}

func (p *countingProc) Run(ctx context.Context, exe string, args []string, workDir, capturePath string) (int, []string, error) {
	p.mu.Lock()
	p.runs = append(p.runs, workDir)
	p.mu.Unlock()
	if p.reports != "" {
		if err := os.WriteFile(filepath.Join(workDir, DefaultReportFile), []byte(p.reports), 0o644); err != nil {
			return 0, nil, err
		}
	}
	return p.exit, nil, nil
}

func TestRunMatrixRequiresDevicesAndLocales(t *testing.T) {
	orch := &Orchestrator{Locales: &spyLocales{}, Proc: &stubProc{}}
	if _, err := orch.RunMatrix(context.Background(), MatrixConfig{Locales: []string{"en"}}); err == nil {
		t.Fatal("expected error without serials")
	}
	if _, err := orch.RunMatrix(context.Background(), MatrixConfig{Serials: []string{"a"}}); err == nil {
		t.Fatal("expected error without locales")
	}
}

func TestRunMatrixCoversEveryCellInOrder(t *testing.T) {
	dir, cfg := writeRunDir(t)
	proc := &countingProc{exit: 0, reports: `<test-results total="2" errors="0" failures="0" date="2010-10-18" time="09:00:00" />`}
	orch := &Orchestrator{Locales: &spyLocales{}, Proc: proc}

	results, err := orch.RunMatrix(context.Background(), MatrixConfig{
		Serials:        []string{"dev-a", "dev-b"},
		Locales:        []string{"en", "ja-JP"},
		RunnerPath:     cfg.RunnerPath,
		TestBinaryPath: cfg.TestBinaryPath,
		BaseDir:        filepath.Join(dir, "matrix"),
	})
	if err != nil {
		t.Fatalf("matrix run failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(results))
	}
	want := [][2]string{{"dev-a", "en"}, {"dev-a", "ja-JP"}, {"dev-b", "en"}, {"dev-b", "ja-JP"}}
	for i, cell := range results {
		if cell.Serial != want[i][0] || cell.Locale != want[i][1] {
			t.Fatalf("cell %d order mismatch: %s/%s", i, cell.Serial, cell.Locale)
		}
		if cell.Err != nil || !cell.Outcome.DidRun {
			t.Fatalf("cell %d should have run: %+v", i, cell)
		}
	}

	// Each device gets its own working directory.
	seen := map[string]bool{}
	for _, workDir := range proc.runs {
		seen[workDir] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 distinct work dirs, got %v", proc.runs)
	}
}

func TestRunMatrixKeepsGoingAfterMalformedReport(t *testing.T) {
	dir, cfg := writeRunDir(t)
	// Exit 0 with no report written: every cell hits a malformed report.
	proc := &countingProc{exit: 0}
	orch := &Orchestrator{Locales: &spyLocales{}, Proc: proc}

	results, err := orch.RunMatrix(context.Background(), MatrixConfig{
		Serials:        []string{"dev-a"},
		Locales:        []string{"en", "de-DE"},
		RunnerPath:     cfg.RunnerPath,
		TestBinaryPath: cfg.TestBinaryPath,
		BaseDir:        filepath.Join(dir, "matrix"),
	})
	if err != nil {
		t.Fatalf("matrix run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(results))
	}
	for i, cell := range results {
		if cell.Err == nil {
			t.Fatalf("cell %d should carry the parse error", i)
		}
	}
}
