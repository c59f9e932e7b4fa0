// # cmd/implicit/app.go
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
	"golang.org/x/time/rate"

	"implicit/internal/config"
	"implicit/internal/extract"
	"implicit/internal/graph"
	"implicit/internal/history"
	"implicit/internal/index"
	"implicit/internal/observability"
	"implicit/internal/output"
	"implicit/internal/parser"
	"implicit/internal/resolver"
	"implicit/internal/watcher"
)

type App struct {
	Config   *config.Config
	Registry *parser.Registry
	Graph    *graph.Graph

	mu        sync.Mutex // guards Index/extractor swap on rebuild
	Index     *index.Index
	extractor *extract.Extractor

	store         *history.Store
	metricsServer *observability.Server
	teaProgram    *tea.Program
	rescanLimiter *rate.Limiter

	// Per-file extraction stats for trend snapshots.
	statsByFile map[string]extract.Stats
	lastScan    time.Duration
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Config:        cfg,
		Registry:      parser.DefaultRegistry(),
		Graph:         graph.NewGraph(),
		rescanLimiter: rate.NewLimiter(rate.Limit(cfg.Watch.RescansPerSec), cfg.Watch.RescanBurst),
		statsByFile:   make(map[string]extract.Stats),
	}

	if err := a.rebuildIndex(); err != nil {
		return nil, err
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	if cfg.Metrics.Addr != "" {
		a.metricsServer = observability.NewServer(cfg.Metrics.Addr, func() observability.Status {
			return observability.Status{
				Status:    "up",
				FileCount: a.Graph.FileCount(),
				EdgeCount: a.Graph.EdgeCount(),
			}
		})
		if err := a.metricsServer.Start(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *App) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metricsServer.Stop(ctx)
	}
}

// rebuildIndex rescans the autoload roots. Called at startup and whenever
// the on-disk layout may have changed, since adding or removing a file
// shifts what every name in the project can resolve to.
func (a *App) rebuildIndex() error {
	roots := make([]index.Root, 0, len(a.Config.Autoload.Roots))
	for _, r := range a.Config.Autoload.Roots {
		roots = append(roots, index.Root{Dir: r.Path, Namespace: r.Namespace})
	}

	ix, err := index.Build(index.Options{
		ProjectRoot:  a.Config.Project.Root,
		Roots:        roots,
		ExcludeDirs:  a.Config.Exclude.Dirs,
		ExcludeFiles: a.Config.Exclude.Files,
		Acronyms:     a.Config.Inflections.Acronyms,
	})
	if err != nil {
		return err
	}
	observability.IndexEntries.Set(float64(ix.Len()))

	a.mu.Lock()
	a.Index = ix
	a.extractor = extract.New(a.Registry, resolver.New(ix), a.Config.Project.Root)
	a.mu.Unlock()
	return nil
}

func (a *App) currentExtractor() *extract.Extractor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.extractor
}

func (a *App) InitialScan() error {
	ctx, span := observability.Tracer.Start(context.Background(), "app.InitialScan")
	defer span.End()
	_ = ctx

	start := time.Now()

	files, err := a.ScanDirectories()
	if err != nil {
		return err
	}

	for _, rel := range files {
		if err := a.ProcessFile(rel); err != nil {
			slog.Warn("failed to process file", "path", rel, "error", err)
		}
	}

	a.lastScan = time.Since(start)
	observability.ScanDuration.WithLabelValues("full").Observe(a.lastScan.Seconds())
	observability.GraphFiles.Set(float64(a.Graph.FileCount()))
	observability.GraphEdges.Set(float64(a.Graph.EdgeCount()))

	slog.Info("initial scan complete", "files", len(files), "edges", a.Graph.EdgeCount(), "duration", a.lastScan)
	return nil
}

// ScanDirectories walks the project tree and returns the root-relative
// paths of every analyzable file.
func (a *App) ScanDirectories() ([]string, error) {
	root := a.Config.Project.Root

	dirGlobs := make([]glob.Glob, 0, len(a.Config.Exclude.Dirs))
	for _, p := range a.Config.Exclude.Dirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(a.Config.Exclude.Files))
	for _, p := range a.Config.Exclude.Files {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)

		if d.IsDir() {
			for _, g := range dirGlobs {
				if g.Match(base) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !a.Registry.Supports(path) {
			return nil
		}

		for _, g := range fileGlobs {
			if g.Match(base) {
				return nil
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (a *App) ProcessFile(rel string) error {
	refs, stats, err := a.currentExtractor().ExtractFileWithStats(rel)
	if err != nil {
		return err
	}

	key := filepath.ToSlash(rel)
	a.Graph.SetFile(key, refs)
	a.statsByFile[key] = stats
	return nil
}

func (a *App) HandleChanges(paths []string) {
	if !a.rescanLimiter.Allow() {
		slog.Debug("rescan rate limit hit, dropping change batch", "count", len(paths))
		return
	}

	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	// Layout may have shifted; every name can bind differently now.
	if err := a.rebuildIndex(); err != nil {
		slog.Error("failed to rebuild index", "error", err)
		return
	}

	affected := make(map[string]bool)
	for _, path := range paths {
		rel, err := filepath.Rel(a.Config.Project.Root, path)
		if err != nil {
			continue
		}
		key := filepath.ToSlash(rel)

		for _, dep := range a.Graph.Dependents(key) {
			affected[dep] = true
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.Graph.RemoveFile(key)
			delete(a.statsByFile, key)
			continue
		}
		if !a.Registry.Supports(path) {
			continue
		}
		affected[key] = true
	}

	for key := range affected {
		if err := a.ProcessFile(filepath.FromSlash(key)); err != nil {
			slog.Warn("failed to re-process file", "path", key, "error", err)
		}
	}

	a.lastScan = time.Since(start)
	observability.ScanDuration.WithLabelValues("incremental").Observe(a.lastScan.Seconds())
	observability.GraphFiles.Set(float64(a.Graph.FileCount()))
	observability.GraphEdges.Set(float64(a.Graph.EdgeCount()))

	cycles := a.Graph.DetectCycles()
	if err := a.GenerateOutputs(cycles); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.SaveSnapshot(cycles)
	a.PrintSummary(cycles)

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{
			cycles:    cycles,
			fileCount: a.Graph.FileCount(),
			edgeCount: a.Graph.EdgeCount(),
			metrics:   a.Graph.ComputeFileMetrics(),
		})
	}

	if a.Config.Alerts.Beep && len(cycles) > 0 {
		fmt.Print("\a")
	}
}

func (a *App) LookupConstant(name string) (string, bool) {
	a.mu.Lock()
	ix := a.Index
	a.mu.Unlock()
	return ix.DefiningFile(strings.TrimPrefix(name, "::"))
}

func (a *App) ExtractSnippet(source []byte) ([]resolver.Reference, error) {
	return a.currentExtractor().ExtractSource(source)
}

func (a *App) GenerateOutputs(cycles [][]string) error {
	if a.Config.Output.DOT != "" {
		dotGen := output.NewDOTGenerator(a.Graph)
		dot, err := dotGen.Generate(cycles)
		if err != nil {
			return err
		}
		if err := os.WriteFile(a.Config.Output.DOT, []byte(dot), 0644); err != nil {
			return err
		}
	}

	if a.Config.Output.TSV != "" {
		tsvGen := output.NewTSVGenerator(a.Graph)
		tsv, err := tsvGen.Generate()
		if err != nil {
			return err
		}
		if len(cycles) > 0 {
			cyclesTSV, err := tsvGen.GenerateCycles(cycles)
			if err != nil {
				return err
			}
			tsv = strings.TrimRight(tsv, "\n") + "\n\n" + strings.TrimRight(cyclesTSV, "\n") + "\n"
		}
		if err := os.WriteFile(a.Config.Output.TSV, []byte(tsv), 0644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) SaveSnapshot(cycles [][]string) {
	if a.store == nil {
		return
	}

	var collected, resolved int
	for _, s := range a.statsByFile {
		collected += s.Collected
		resolved += s.Resolved
	}

	a.mu.Lock()
	indexLen := a.Index.Len()
	a.mu.Unlock()

	snap := history.Snapshot{
		FileCount:       a.Graph.FileCount(),
		IndexEntryCount: indexLen,
		ReferenceCount:  collected,
		ResolvedCount:   resolved,
		UnresolvedCount: collected - resolved,
		CycleCount:      len(cycles),
		DurationMillis:  a.lastScan.Milliseconds(),
	}
	if err := a.store.SaveSnapshot(a.Config.History.ProjectKey, snap); err != nil {
		slog.Warn("failed to save scan snapshot", "error", err)
	}
}

func (a *App) PrintSummary(cycles [][]string) {
	if !a.Config.Alerts.Terminal {
		return
	}

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Scan: %d files, %d reference edges in %v\n",
		a.Graph.FileCount(), a.Graph.EdgeCount(), a.lastScan)

	if len(cycles) > 0 {
		fmt.Printf("⚠️  FOUND %d DEPENDENCY CYCLES:\n", len(cycles))
		for _, c := range cycles {
			fmt.Printf("   %s\n", strings.Join(c, " -> "))
		}
	} else {
		fmt.Println("✅ No dependency cycles found.")
	}

	metrics := a.Graph.ComputeFileMetrics()
	if leaders := metricLeaders(metrics, 3); len(leaders) > 0 {
		fmt.Println("📊 Highest fan-in:")
		for _, l := range leaders {
			fmt.Printf("   %s\n", l)
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(updateMsg{
			cycles:    a.Graph.DetectCycles(),
			fileCount: a.Graph.FileCount(),
			edgeCount: a.Graph.EdgeCount(),
			metrics:   a.Graph.ComputeFileMetrics(),
		})
	}()

	_, err := p.Run()
	return err
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Runs for the lifetime of the process.
	return w.Watch([]string{a.Config.Project.Root})
}

func metricLeaders(metrics map[string]graph.FileMetrics, limit int) []string {
	type scoredFile struct {
		file  string
		score int
	}

	scored := make([]scoredFile, 0, len(metrics))
	for file, m := range metrics {
		if m.FanIn < 1 {
			continue
		}
		scored = append(scored, scoredFile{file: file, score: m.FanIn})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score == scored[j].score {
			return scored[i].file < scored[j].file
		}
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	lines := make([]string, 0, len(scored))
	for _, s := range scored {
		lines = append(lines, fmt.Sprintf("%s(%d)", s.file, s.score))
	}
	return lines
}
