// # internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Project     Project     `toml:"project"`
	Autoload    Autoload    `toml:"autoload"`
	Inflections Inflections `toml:"inflections"`
	Exclude     Exclude     `toml:"exclude"`
	Watch       Watch       `toml:"watch"`
	Output      Output      `toml:"output"`
	History     History     `toml:"history"`
	Alerts      Alerts      `toml:"alerts"`
	Metrics     Metrics     `toml:"metrics"`
	Tracing     Tracing     `toml:"tracing"`
}

type Project struct {
	Root string `toml:"root"`
}

type Autoload struct {
	Roots []Root `toml:"roots"`
}

// Root is one autoload root directory, optionally nested under a base
// namespace (e.g. path = "app/services/admin", namespace = "Admin").
type Root struct {
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

type Inflections struct {
	Acronyms []string `toml:"acronyms"` // e.g. ["API", "CSV", "HTML"]
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce      time.Duration `toml:"debounce"`
	RescansPerSec float64       `toml:"rescans_per_sec"`
	RescanBurst   int           `toml:"rescan_burst"`
}

type Output struct {
	DOT string `toml:"dot"`
	TSV string `toml:"tsv"`
}

type History struct {
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Alerts struct {
	Beep     bool `toml:"beep"`
	Terminal bool `toml:"terminal"`
}

type Metrics struct {
	Addr string `toml:"addr"` // e.g. ":9477"; empty disables the listener
}

type Tracing struct {
	Endpoint string `toml:"endpoint"` // OTLP gRPC collector; empty disables tracing export
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
	if len(cfg.Autoload.Roots) == 0 {
		return nil, fmt.Errorf("config %s: at least one [[autoload.roots]] entry is required", path)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSec == 0 {
		cfg.Watch.RescansPerSec = 2
	}
	if cfg.Watch.RescanBurst == 0 {
		cfg.Watch.RescanBurst = 4
	}

	return &cfg, nil
}
