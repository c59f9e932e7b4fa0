// # internal/index/index.go
package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// Root is one autoload root: a directory whose layout maps to namespaces,
// optionally nested under a base namespace ("Admin" for engines etc.).
type Root struct {
	Dir       string
	Namespace string
}

// Entry maps one fully-qualified namespace path to the file expected to
// define it. Namespace-only directories have no file.
type Entry struct {
	Path    string // "Billing::Order"
	File    string // defining file relative to the project root, "" if none
	HasFile bool
	Dir     bool
}

// Index is the read-only namespace-to-file mapping built from a directory
// scan. It is immutable after Build and safe for concurrent readers.
type Index struct {
	entries map[string]*Entry
}

type Options struct {
	ProjectRoot  string
	Roots        []Root
	ExcludeDirs  []string // glob patterns matched against directory base names
	ExcludeFiles []string // glob patterns matched against file base names
	Acronyms     []string
}

// Build scans the autoload roots and constructs the full mapping.
// Two paths claiming the same namespace is a configuration error: the
// project layout is ambiguous and every dependent resolution would be
// untrustworthy, so the collision is reported instead of picked one way.
func Build(opts Options) (*Index, error) {
	inf := NewInflector(opts.Acronyms)

	dirGlobs, err := compileGlobs(opts.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(opts.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	var ignored *gitignore.GitIgnore
	if opts.ProjectRoot != "" {
		if gi, err := gitignore.CompileIgnoreFile(filepath.Join(opts.ProjectRoot, ".gitignore")); err == nil {
			ignored = gi
		}
	}

	ix := &Index{entries: make(map[string]*Entry)}

	for _, root := range opts.Roots {
		if err := ix.scanRoot(root, opts.ProjectRoot, inf, dirGlobs, fileGlobs, ignored); err != nil {
			return nil, err
		}
	}

	return ix, nil
}

func (ix *Index) scanRoot(
	root Root,
	projectRoot string,
	inf *Inflector,
	dirGlobs, fileGlobs []glob.Glob,
	ignored *gitignore.GitIgnore,
) error {
	rootDir := root.Dir
	if !filepath.IsAbs(rootDir) {
		rootDir = filepath.Join(projectRoot, rootDir)
	}

	if _, err := os.Stat(rootDir); os.IsNotExist(err) {
		// Configured roots may not exist yet (empty engines, generated
		// trees); an absent root simply contributes nothing.
		return nil
	}

	base := splitPath(root.Namespace)
	// The base namespace itself (and each prefix) is a known namespace
	// node even before any directory contributes to it.
	for i := range base {
		ix.addNamespace(strings.Join(base[:i+1], "::"))
	}

	return filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == rootDir {
			return nil
		}

		name := d.Name()
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return relErr
		}

		projectRel := rel
		if projectRoot != "" {
			if r, err := filepath.Rel(projectRoot, path); err == nil {
				projectRel = r
			}
		}

		if d.IsDir() {
			for _, g := range dirGlobs {
				if g.Match(name) {
					return filepath.SkipDir
				}
			}
			if ignored != nil && ignored.MatchesPath(projectRel+"/") {
				return filepath.SkipDir
			}
			ix.addNamespace(namespacePath(base, splitSegments(rel), inf))
			return nil
		}

		if filepath.Ext(name) != ".rb" {
			return nil
		}
		for _, g := range fileGlobs {
			if g.Match(name) {
				return nil
			}
		}
		if ignored != nil && ignored.MatchesPath(projectRel) {
			return nil
		}

		segments := splitSegments(strings.TrimSuffix(rel, ".rb"))
		nsPath := namespacePath(base, segments, inf)
		return ix.addFile(nsPath, filepath.ToSlash(projectRel))
	})
}

func (ix *Index) addNamespace(path string) {
	if path == "" {
		return
	}
	if _, ok := ix.entries[path]; ok {
		ix.entries[path].Dir = true
		return
	}
	ix.entries[path] = &Entry{Path: path, Dir: true}
}

func (ix *Index) addFile(path, file string) error {
	if existing, ok := ix.entries[path]; ok {
		if existing.HasFile && existing.File != file {
			return fmt.Errorf("namespace collision: %s claimed by both %s and %s", path, existing.File, file)
		}
		existing.File = file
		existing.HasFile = true
		return nil
	}
	ix.entries[path] = &Entry{Path: path, File: file, HasFile: true}
	return nil
}

// Known reports whether the namespace path exists at all, with or without
// a defining file. The resolver uses it to decide when to stop climbing.
func (ix *Index) Known(path string) bool {
	_, ok := ix.entries[path]
	return ok
}

// DefiningFile returns the file expected to define the exact namespace
// path. ok is false for unknown paths and for namespace-only directories.
func (ix *Index) DefiningFile(path string) (string, bool) {
	e, ok := ix.entries[path]
	if !ok || !e.HasFile {
		return "", false
	}
	return e.File, true
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

// Entries returns all entries ordered by namespace path.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, 0, len(ix.entries))
	for _, e := range ix.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func namespacePath(base, segments []string, inf *Inflector) string {
	parts := make([]string, 0, len(base)+len(segments))
	parts = append(parts, base...)
	for _, s := range segments {
		parts = append(parts, inf.Camelize(s))
	}
	return strings.Join(parts, "::")
}

func splitSegments(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}

func splitPath(namespace string) []string {
	if namespace == "" {
		return nil
	}
	return strings.Split(namespace, "::")
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
