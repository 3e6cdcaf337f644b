package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestProjectFile(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "project.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing test project file: %v", err)
	}
	return path
}

func TestReadDecodesFileAndSeedsSolverDefaults(t *testing.T) {
	path := writeTestProjectFile(t, `
ProjectFile = "basin.nc"
IntervalStartMa = 100
IntervalEndMa = 90

[Solver]
AdaptiveTimeStepFraction = 0.25
`)
	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.ProjectFile != "basin.nc" {
		t.Errorf("expected ProjectFile to decode from the file, got %q", cfg.ProjectFile)
	}
	if cfg.IntervalStartMa != 100 || cfg.IntervalEndMa != 90 {
		t.Errorf("expected interval bounds to decode from the file, got %v/%v", cfg.IntervalStartMa, cfg.IntervalEndMa)
	}
	if !cfg.Solver.AdaptiveTimeStepping {
		t.Error("expected AdaptiveTimeStepping to keep its DefaultConfig seed value, since the file didn't override it")
	}
	if cfg.Solver.AdaptiveTimeStepFraction != 0.25 {
		t.Errorf("expected the file's Solver.AdaptiveTimeStepFraction override to take effect, got %v", cfg.Solver.AdaptiveTimeStepFraction)
	}
}

func TestReadOverlaysEnvironmentVariables(t *testing.T) {
	path := writeTestProjectFile(t, `
ProjectFile = "basin.nc"
IntervalStartMa = 100
IntervalEndMa = 90
`)
	t.Setenv("DARCYFLOW_PROJECTFILE", "override.nc")
	t.Setenv("DARCYFLOW_INTERVALENDMA", "50")

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.ProjectFile != "override.nc" {
		t.Errorf("expected the env var to override ProjectFile, got %q", cfg.ProjectFile)
	}
	if cfg.IntervalEndMa != 50 {
		t.Errorf("expected the env var to override IntervalEndMa, got %v", cfg.IntervalEndMa)
	}
	if cfg.IntervalStartMa != 100 {
		t.Errorf("expected IntervalStartMa to keep its file value when no env var is set, got %v", cfg.IntervalStartMa)
	}
}

func TestReadErrorsOnMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Error("expected an error when the project file does not exist")
	}
}
