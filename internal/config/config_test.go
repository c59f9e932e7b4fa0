// # internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "implicit.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
[project]
root = "/srv/shop"

[[autoload.roots]]
path = "app/models"

[[autoload.roots]]
path = "engines/admin/app/models"
namespace = "Admin"

[inflections]
acronyms = ["API", "CSV"]

[exclude]
dirs = ["node_modules", "tmp"]
files = ["*_spec.rb"]

[watch]
debounce = 250000000
rescans_per_sec = 5.0
rescan_burst = 10

[output]
dot = "deps.dot"
tsv = "deps.tsv"

[history]
path = "history.db"
project_key = "shop"

[alerts]
beep = true

[metrics]
addr = ":9477"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Project.Root != "/srv/shop" {
		t.Errorf("root %q", cfg.Project.Root)
	}
	if len(cfg.Autoload.Roots) != 2 {
		t.Fatalf("roots %v", cfg.Autoload.Roots)
	}
	if cfg.Autoload.Roots[1].Namespace != "Admin" {
		t.Errorf("namespace %q", cfg.Autoload.Roots[1].Namespace)
	}
	if len(cfg.Inflections.Acronyms) != 2 {
		t.Errorf("acronyms %v", cfg.Inflections.Acronyms)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("debounce %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RescansPerSec != 5 || cfg.Watch.RescanBurst != 10 {
		t.Errorf("rate %v burst %d", cfg.Watch.RescansPerSec, cfg.Watch.RescanBurst)
	}
	if cfg.Output.DOT != "deps.dot" || cfg.Output.TSV != "deps.tsv" {
		t.Errorf("output %+v", cfg.Output)
	}
	if cfg.History.ProjectKey != "shop" {
		t.Errorf("history %+v", cfg.History)
	}
	if !cfg.Alerts.Beep {
		t.Error("beep not set")
	}
	if cfg.Metrics.Addr != ":9477" {
		t.Errorf("metrics %+v", cfg.Metrics)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[[autoload.roots]]
path = "app/models"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Project.Root != "." {
		t.Errorf("default root %q", cfg.Project.Root)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("default debounce %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RescansPerSec != 2 || cfg.Watch.RescanBurst != 4 {
		t.Errorf("default rate %v burst %d", cfg.Watch.RescansPerSec, cfg.Watch.RescanBurst)
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("metrics should default off, got %q", cfg.Metrics.Addr)
	}
}

func TestLoad_RequiresAutoloadRoots(t *testing.T) {
	path := writeConfig(t, `
[project]
root = "."
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing autoload roots")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
