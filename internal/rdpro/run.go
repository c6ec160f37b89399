package rdpro

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charlievieth/fastwalk"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// ProgressFunc receives a snapshot of the statistics while a run is in progress.
type ProgressFunc func(Stats)

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to console
		fmt.Printf(format, args...)
	}
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// inSelectedSubtree reports whether any directory component of rel matches dirs.
// For a directory, rel itself counts as a component; for a file only its parents do.
func inSelectedSubtree(rel string, isDir bool, dirs *PatternSet) bool {
	if dirs == nil {
		return true
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if !isDir {
		parts = parts[:len(parts)-1]
	}

	for _, part := range parts {
		if dirs.Match(part) {
			return true
		}
	}

	return false
}

// unlinkRoots returns the tops of the trees handed to the unlink tool: the root itself
// when the whole tree goes, otherwise the selected directories without a selected parent.
func unlinkRoots(root string, removeRoot bool, dirs []Target) []string {
	if removeRoot {
		return []string{root}
	}

	selected := make(map[string]bool, len(dirs))
	for _, target := range dirs {
		selected[target.Path] = true
	}

	var roots []string

	for _, target := range dirs {
		if !selected[filepath.Dir(target.Path)] {
			roots = append(roots, target.Path)
		}
	}

	slices.Sort(roots)

	return roots
}

// startProgressReporter invokes hook with discovery counters on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook ProgressFunc, interval time.Duration) {
	if hook == nil {
		return
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// throttle calls hook at most once per interval.
type throttle struct {
	hook     ProgressFunc
	interval time.Duration
	last     time.Time
}

// tick forwards stats to the hook if the interval has elapsed.
func (t *throttle) tick(stats *Stats) {
	if t.hook == nil || time.Since(t.last) < t.interval {
		return
	}

	t.last = time.Now()
	t.hook(*stats)
}

// discover walks root in parallel and collects the targets selected by opt.
//
//nolint:varnamelen // d is standard for DirEntry
func discover(
	ctx context.Context,
	opt Options,
	files, dirs *PatternSet,
	progressHook ProgressFunc,
	log logger,
) (*collector, error) {
	log.printf("[debug]: file patterns: %v\n", files.Patterns())
	log.printf("[debug]: directory patterns: %v\n", dirs.Patterns())

	collector := newCollector()

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	conf := &fastwalk.Config{
		Follow: false, // Never descend into linked directories
	}

	walkErr := fastwalk.Walk(conf, opt.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.printf("[debug]: error accessing path %s: %v\n", path, err)
			collector.addError()

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == opt.Path {
			return nil
		}

		rel, err := filepath.Rel(opt.Path, path)
		if err != nil {
			collector.addError()

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		depth := calculateDepth(path, opt.Path)

		if d.IsDir() {
			// Directories are kept when only selected files are removed.
			if files == nil && inSelectedSubtree(rel, true, dirs) {
				collector.add(Target{Path: path, IsDir: true, Depth: depth})
			}

			return nil
		}

		if !inSelectedSubtree(rel, false, dirs) {
			return nil
		}

		if !files.Match(d.Name()) {
			log.printf("[debug]: skipping file (no pattern match): %s\n", path)

			return nil
		}

		var size int64

		if d.Type().IsRegular() {
			info, err := d.Info()
			if err == nil {
				size = info.Size()
			}
		}

		collector.add(Target{Path: path, Depth: depth, Size: size})

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return collector, nil
}

// Run removes the tree at opt.Path and returns the statistics of the operation.
//
// The tree is discovered first, in parallel. With opt.Unlink the top of each selected tree
// is then handed to the unlink tool, once, before anything is deleted. Selected files are
// removed next, followed by the selected directories from the deepest up, and finally the
// root itself when the whole tree was selected. Entries already gone are skipped. Per-entry failures are reported through ui and counted in
// Stats.Errors. Cancelling ctx stops the removal between entries; the statistics gathered
// so far are returned together with the context error.
//
//nolint:funlen // Sequential phases read best in one place.
func (r *Remover) Run(ctx context.Context, opt Options, ui Reporter, progressHook ProgressFunc) (*Stats, error) {
	log := logger{enabled: opt.Debug}

	if opt.Path == "" {
		return nil, errors.New("no directory given")
	}

	opt.Path = filepath.Clean(opt.Path)

	if statInfo, err := os.Stat(opt.Path); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Path)
	}

	if err := CheckPath(opt.Path); err != nil {
		return nil, err
	}

	if opt.ProgressInterval <= 0 {
		opt.ProgressInterval = DefaultProgressInterval
	}

	files := CompilePatterns(opt.FilePatterns)
	dirs := CompilePatterns(opt.DirPatterns)

	start := time.Now()

	collector, err := discover(ctx, opt, files, dirs, progressHook, log)
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", opt.Path, err)
	}

	stats := collector.snapshot()
	stats.Root = absolute(opt.Path)
	stats.DryRun = opt.DryRun

	// The root goes too unless only parts of the tree were selected.
	removeRoot := files == nil && dirs == nil
	if removeRoot {
		stats.DirsFound++
	}

	work := collector.finalize()
	progress := &throttle{hook: progressHook, interval: opt.ProgressInterval}

	log.printf("[debug]: %d files and %d directories selected\n", len(work.files), len(work.dirs))

	finish := func() (*Stats, error) {
		stats.Elapsed = time.Since(start)

		return &stats, ctx.Err()
	}

	// Directories are kept in file-pattern mode, so there is nothing to unlink.
	if opt.Unlink && !opt.DryRun && files == nil {
		for _, dir := range unlinkRoots(opt.Path, removeRoot, work.dirs) {
			if ctx.Err() != nil {
				return finish()
			}

			log.printf("[debug]: unlinking %s\n", dir)

			_ = r.unlinkDir(ctx, absolute(dir), ui, &stats)
		}
	}

	for _, target := range work.files {
		if ctx.Err() != nil {
			return finish()
		}

		if opt.DryRun {
			ui.Println("\t[dry-run]Would remove:" + absolute(target.Path))

			continue
		}

		r.RemoveFile(target.Path, ui, &stats, opt.Verbose)
		progress.tick(&stats)
	}

	if removeRoot {
		work.dirs = append(work.dirs, Target{Path: opt.Path, IsDir: true})
	}

	for _, target := range work.dirs {
		if ctx.Err() != nil {
			return finish()
		}

		if opt.DryRun {
			ui.Println("\t[dry-run]Would remove:" + absolute(target.Path))

			continue
		}

		res := r.RemoveDirectory(ctx, target.Path, ui, &stats, opt.Verbose, false)
		log.printf("[debug]: %s: %s\n", res.Outcome, res.Path)

		progress.tick(&stats)
	}

	return finish()
}
