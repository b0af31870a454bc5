// Package loader discovers rule files in a data directory and reads them into
// raw per-file rule lists. INI files are parsed with go-ini; Lua rule packs run
// once in a sandboxed VM that is discarded after loading.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// Rule file suffixes.
const (
	INISuffix = "_CID.ini"
	LuaSuffix = "_CID.lua"
)

// ErrMissingDirectory is returned when the data directory does not exist.
var ErrMissingDirectory = errors.New("loader: data directory not found")

// FileError reports a rule file that could not be read at all.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// Load reads every *_CID.ini and *_CID.lua file directly inside dir. Files
// are parsed concurrently and returned sorted by name. A file that cannot be
// parsed is logged and skipped; only a missing dir fails the load.
func Load(dir string) ([]types.File, error) {
	names, err := discover(dir)
	if err != nil {
		return nil, err
	}

	parsed := make([]*types.File, len(names))
	var g errgroup.Group
	g.SetLimit(8)
	for i, name := range names {
		g.Go(func() error {
			f, err := LoadFile(filepath.Join(dir, name))
			if err != nil {
				slog.Warn("skipping rule file", "file", name, "err", err)
				return nil
			}
			parsed[i] = &f
			return nil
		})
	}
	_ = g.Wait()

	files := make([]types.File, 0, len(names))
	rules := 0
	for _, f := range parsed {
		if f == nil {
			continue
		}
		files = append(files, *f)
		rules += len(f.Rules)
	}
	slog.Info("loaded rule files", "dir", dir, "files", len(files), "skipped", len(names)-len(files), "rules", rules)
	return files, nil
}

// LoadFile reads one rule file, choosing the format by suffix. The returned
// file is named after the base name of path.
func LoadFile(path string) (types.File, error) {
	name := filepath.Base(path)

	var (
		f   types.File
		err error
	)
	switch {
	case strings.HasSuffix(name, INISuffix):
		f, err = loadINI(path)
	case strings.HasSuffix(name, LuaSuffix):
		f, err = loadLua(path)
	default:
		err = fmt.Errorf("not a rule file")
	}
	if err != nil {
		return types.File{}, &FileError{Name: name, Err: err}
	}
	f.Name = name

	for _, w := range validate(&f) {
		slog.Warn("dropping rule", "file", name, "problem", w)
	}
	slog.Debug("loaded rule file", "file", name, "rules", len(f.Rules))
	return f, nil
}

func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingDirectory, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n := e.Name(); strings.HasSuffix(n, INISuffix) || strings.HasSuffix(n, LuaSuffix) {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names, nil
}
