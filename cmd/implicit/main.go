// # cmd/implicit/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"implicit/internal/config"
	"implicit/internal/observability"
)

var (
	configPath = flag.String("config", "./implicit.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single scan and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode")
	lookup     = flag.String("lookup", "", "Print the defining file for a constant path and exit")
	snippet    = flag.Bool("snippet", false, "Read a Ruby snippet from stdin and print its resolved references")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("implicit v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./implicit.toml" {
			cfg, err = config.Load("./implicit.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		cfg.Project.Root = flag.Arg(0)
	}
	if !filepath.IsAbs(cfg.Project.Root) {
		cwd, _ := os.Getwd()
		cfg.Project.Root = filepath.Join(cwd, cfg.Project.Root)
	}

	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.Tracing.Endpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *lookup != "" {
		file, ok := app.LookupConstant(*lookup)
		if !ok {
			fmt.Fprintf(os.Stderr, "constant not found in any autoload root: %s\n", *lookup)
			os.Exit(1)
		}
		fmt.Println(file)
		os.Exit(0)
	}

	if *snippet {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			slog.Error("failed to read snippet from stdin", "error", err)
			os.Exit(1)
		}
		refs, err := app.ExtractSnippet(source)
		if err != nil {
			slog.Error("failed to extract snippet", "error", err)
			os.Exit(1)
		}
		for _, ref := range refs {
			fmt.Printf("%d:%d\t%s\t%s\n", ref.Span.StartLine, ref.Span.StartCol, ref.Constant.Path, ref.Constant.File)
		}
		os.Exit(0)
	}

	// Initial scan
	if err := app.InitialScan(); err != nil {
		slog.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	cycles := app.Graph.DetectCycles()
	if err := app.GenerateOutputs(cycles); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	app.SaveSnapshot(cycles)

	if !*ui {
		app.PrintSummary(cycles)
	}

	if *once {
		os.Exit(0)
	}

	// Watch mode
	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "implicit", "implicit.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "implicit", "implicit.log")
	}

	return "implicit.log"
}
