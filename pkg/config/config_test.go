package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
input: graph.txt
format: mtx
mode: parallel
output: out.snap
louvain:
  repeat: 2
  resolution: 0.5
  tolerance: 0.001
  aggregationTolerance: 0.7
  toleranceDecline: 50
  maxIterations: 30
  maxPasses: 5
  workers: 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Input != "graph.txt" || cfg.Format != "mtx" || cfg.Mode != "parallel" {
		t.Errorf("cfg = %+v, fields not loaded", cfg)
	}
	if cfg.Louvain.Repeat != 2 || cfg.Louvain.Resolution != 0.5 || cfg.Louvain.Workers != 8 {
		t.Errorf("louvain options not loaded: %+v", cfg.Louvain)
	}
}

func TestLoad_DefaultsPreserved(t *testing.T) {
	path := writeConfig(t, "input: graph.txt\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "edgelist" || cfg.Mode != "serial" {
		t.Errorf("defaults not preserved: format=%q mode=%q", cfg.Format, cfg.Mode)
	}
	if cfg.Louvain.MaxPasses != 10 || cfg.Louvain.Tolerance != 1e-2 {
		t.Errorf("louvain defaults not preserved: %+v", cfg.Louvain)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing input", "format: edgelist\n"},
		{"bad format", "input: g.txt\nformat: csv\n"},
		{"bad mode", "input: g.txt\nmode: distributed\n"},
		{"bad louvain options", "input: g.txt\nlouvain:\n  resolution: 2.0\n"},
		{"not yaml", "{{{\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}
