package config

import (
	"os"
	"path/filepath"
	"testing"

	"cal2gutenprint/internal/accumulate"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cal.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Update.Policy != "smoothing" || cfg.Update.Alpha != 0.4 {
		t.Fatalf("unexpected update defaults: %+v", cfg.Update)
	}
	h := cfg.EstimatorHeuristics()
	if h.SaturationSlopeMin != 10.0 || h.HighlightSensitivity != -0.8 {
		t.Fatalf("unexpected heuristic defaults: %+v", h)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
update:
  policy: multiplicative
heuristics:
  saturation_slope_min: 5.0
blocks:
  curves: ["my device curves"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Updater().Policy != accumulate.PolicyMultiplicative {
		t.Fatalf("policy override not applied: %+v", cfg.Update)
	}
	if got := cfg.EstimatorHeuristics().SaturationSlopeMin; got != 5.0 {
		t.Fatalf("heuristic override not applied, got %v", got)
	}
	// Untouched values keep their defaults.
	if got := cfg.EstimatorHeuristics().ValueMax; got != 0.9 {
		t.Fatalf("default lost on partial override, got %v", got)
	}
	if got := cfg.BlockPatterns().Curves; len(got) != 1 || got[0] != "my device curves" {
		t.Fatalf("block pattern override not applied: %v", got)
	}
	if len(cfg.BlockPatterns().DEResponse) == 0 {
		t.Fatalf("untouched block patterns must keep defaults")
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	path := writeConfig(t, "update:\n  policy: average\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestLoadRejectsBadAlpha(t *testing.T) {
	path := writeConfig(t, "update:\n  alpha: 1.5\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for alpha outside (0,1]")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
