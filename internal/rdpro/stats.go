package rdpro

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Target is a file or directory selected for removal.
type Target struct {
	// Path is the path of the entry.
	Path string `json:"path"`
	// IsDir indicates whether the entry is a directory.
	IsDir bool `json:"is_dir"`
	// Depth is the number of path components below the root.
	Depth int `json:"depth"`
	// Size is the size in bytes (files only).
	Size int64 `json:"size"`
}

// Stats holds the counters of one removal operation.
// It is owned by the caller and mutated in place by a single goroutine.
type Stats struct {
	// Root is the directory the operation started from.
	Root string `json:"root"`
	// DirsRemoved is the number of directories deleted.
	DirsRemoved int64 `json:"dirs_removed"`
	// FilesRemoved is the number of files deleted.
	FilesRemoved int64 `json:"files_removed"`
	// Errors is the number of entries that failed.
	Errors int64 `json:"errors"`
	// DirsFound is the number of directories selected during discovery.
	DirsFound int64 `json:"dirs_found"`
	// FilesFound is the number of files selected during discovery.
	FilesFound int64 `json:"files_found"`
	// BytesFound is the cumulative size of the selected files.
	BytesFound int64 `json:"bytes_found"`
	// DryRun indicates that nothing was deleted.
	DryRun bool `json:"dry_run"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`
}

// Options configures a removal run and CLI behavior.
type Options struct {
	// Path is the directory to remove.
	Path string
	// FilePatterns selects files by name (empty = all). When set, directories are kept.
	FilePatterns []string
	// DirPatterns restricts removal to subtrees whose directory name matches (empty = whole tree).
	DirPatterns []string
	// DryRun reports what would be removed without deleting anything.
	DryRun bool
	// Verbose reports every removed entry.
	Verbose bool
	// Unlink hands every directory to the unlink tool before deleting it.
	Unlink bool
	// UnlinkWait bounds how long to wait for the unlink tool (0 = do not wait).
	UnlinkWait time.Duration
	// Yes skips the confirmation prompt.
	Yes bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table or json).
	Output string
	// Init indicates whether to print a sample configuration file and exit.
	Init bool
}

// collector aggregates targets from concurrent fastwalk callbacks using a mutex.
type collector struct {
	mu         sync.Mutex // Protect concurrent access
	files      []Target
	dirs       []Target
	totalBytes int64
	errorCount int64
}

// newCollector creates an empty collector.
func newCollector() *collector {
	return &collector{
		files: make([]Target, 0),
		dirs:  make([]Target, 0),
	}
}

// addError increments the error counter.
func (c *collector) addError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

// add records a target.
func (c *collector) add(target Target) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target.IsDir {
		c.dirs = append(c.dirs, target)

		return
	}

	c.files = append(c.files, target)
	c.totalBytes += target.Size
}

// snapshot returns the discovery counters collected so far.
func (c *collector) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		FilesFound: int64(len(c.files)),
		DirsFound:  int64(len(c.dirs)),
		BytesFound: c.totalBytes,
		Errors:     c.errorCount,
	}
}

// plan is the ordered removal work produced by a discovery pass.
type plan struct {
	files []Target
	dirs  []Target
}

// finalize orders the collected targets for removal: files by path, directories
// deepest first so that children are gone before their parents.
func (c *collector) finalize() plan {
	c.mu.Lock()
	defer c.mu.Unlock()

	slices.SortFunc(c.files, func(a, b Target) int {
		return cmp.Compare(a.Path, b.Path)
	})

	slices.SortFunc(c.dirs, func(a, b Target) int {
		if a.Depth != b.Depth {
			return cmp.Compare(b.Depth, a.Depth)
		}

		return cmp.Compare(a.Path, b.Path)
	})

	return plan{files: c.files, dirs: c.dirs}
}
