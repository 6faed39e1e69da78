package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.yaml")
	yamlSrc := "panelwidth: 10\npanelheight: 8\ntrimgerber: false\nlayers:\n  - topcopper\n  - bottomcopper\n"
	if err := os.WriteFile(path, []byte(yamlSrc), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PanelWidth != 10 || cfg.PanelHeight != 8 {
		t.Errorf("panel dims = %vx%v, want 10x8", cfg.PanelWidth, cfg.PanelHeight)
	}
	if cfg.TrimGerber {
		t.Errorf("trimgerber override to false was not applied")
	}
	if !cfg.TrimExcellon {
		t.Errorf("trimexcellon default should remain true when unset")
	}
	if cfg.RandomSearchExhaustiveJobs != 10 {
		t.Errorf("rsfsjobs default = %d, want 10", cfg.RandomSearchExhaustiveJobs)
	}
	if len(cfg.Layers) != 2 || cfg.Layers[0] != "topcopper" {
		t.Errorf("layers = %v, want [topcopper bottomcopper]", cfg.Layers)
	}
}

func TestLoadRejectsMissingPanelDimensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.yaml")
	if err := os.WriteFile(path, []byte("xspacing: 0.1\n"), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("expected an error for a config with no panel dimensions")
	}
}

func TestOutputPathFallsBackToDefault(t *testing.T) {
	cfg := Config{}
	if got := cfg.OutputPath("drill", "panel.drl"); got != "panel.drl" {
		t.Errorf("OutputPath with no OutputFiles = %q, want %q", got, "panel.drl")
	}
	cfg.OutputFiles = map[string]string{"drill": "custom.drl"}
	if got := cfg.OutputPath("drill", "panel.drl"); got != "custom.drl" {
		t.Errorf("OutputPath override = %q, want %q", got, "custom.drl")
	}
}
