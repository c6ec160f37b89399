package rdpro

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/idelchi/rdpro/internal/unlink"
)

// Reporter is a line-oriented sink for progress, warnings and errors.
type Reporter interface {
	Println(line string)
}

// DirUnlinker detaches a directory from its hard-link tree.
type DirUnlinker interface {
	Unlink(ctx context.Context, dir string) error
}

// Deleter removes a single file or empty directory.
type Deleter interface {
	Remove(path string) error
}

// OSDeleter implements Deleter with os.Remove.
type OSDeleter struct{}

// Remove deletes path.
func (OSDeleter) Remove(path string) error {
	return os.Remove(path)
}

// Outcome is the result state of one removal attempt.
type Outcome int

const (
	// OutcomeRemoved means the entry was deleted.
	OutcomeRemoved Outcome = iota
	// OutcomeAbsent means the entry did not exist; nothing was counted.
	OutcomeAbsent
	// OutcomeWarned means the entry could not be deleted, e.g. because it is locked.
	OutcomeWarned
	// OutcomeFailed means an unexpected error occurred.
	OutcomeFailed
)

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRemoved:
		return "removed"
	case OutcomeAbsent:
		return "absent"
	case OutcomeWarned:
		return "warned"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one removal attempt together with its cause.
type Result struct {
	// Path is the absolute path of the entry.
	Path string
	// Outcome is the final state.
	Outcome Outcome
	// Err is the failure for OutcomeWarned and OutcomeFailed. An unlink failure is
	// kept here even when the direct deletion succeeded afterwards.
	Err error
}

// RemovalWarning reports an entry that could not be deleted.
type RemovalWarning struct {
	// Path is the absolute path of the entry.
	Path string
	// Err is the error returned by the deletion.
	Err error
}

func (w *RemovalWarning) Error() string {
	return fmt.Sprintf("can't remove %s: %v", w.Path, w.Err)
}

func (w *RemovalWarning) Unwrap() error {
	return w.Err
}

// Remover deletes directories and files, optionally unlinking directories first.
type Remover struct {
	// Unlinker is used when unlinkFirst is requested; nil disables unlinking.
	Unlinker DirUnlinker
	// Deleter performs the direct deletion.
	Deleter Deleter

	// unlinkOff is set once the unlink tool turned out to be misconfigured.
	unlinkOff bool
}

// NewRemover creates a Remover deleting through the os package.
func NewRemover(unlinker DirUnlinker) *Remover {
	return &Remover{Unlinker: unlinker, Deleter: OSDeleter{}}
}

// absolute returns the absolute form of path, or path itself if it cannot be resolved.
func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return abs
}

// unlinkDir hands dir to the unlink tool, reporting and counting a failure.
// After a *unlink.ConfigurationError the tool is not invoked again by this Remover.
func (r *Remover) unlinkDir(ctx context.Context, dir string, ui Reporter, stats *Stats) error {
	if r.Unlinker == nil || r.unlinkOff {
		return nil
	}

	err := r.Unlinker.Unlink(ctx, dir)
	if err == nil {
		return nil
	}

	ui.Println("\t[error]:" + err.Error())
	stats.Errors++

	var cfgErr *unlink.ConfigurationError
	if errors.As(err, &cfgErr) {
		r.unlinkOff = true
	}

	return err
}

// recoverInto converts a panic into a reported, counted failure.
func recoverInto(res *Result, ui Reporter, stats *Stats) {
	rec := recover()
	if rec == nil {
		return
	}

	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("%v", rec)
	}

	ui.Println("\t[error]:" + err.Error())
	stats.Errors++

	res.Outcome = OutcomeFailed
	res.Err = err
}

// RemoveDirectory removes the directory entry dir.
//
// With unlinkFirst the unlink tool is invoked before the direct deletion; its failure is
// reported and counted, then the deletion is attempted anyway. A misconfigured tool is
// reported once and then skipped. A directory that no longer
// exists is a no-op. A directory that cannot be deleted produces a [warn] line. Nothing
// that happens here propagates to the caller.
func (r *Remover) RemoveDirectory(
	ctx context.Context,
	dir string,
	ui Reporter,
	stats *Stats,
	verbose, unlinkFirst bool,
) (res Result) {
	res.Path = absolute(dir)

	defer recoverInto(&res, ui, stats)

	if unlinkFirst {
		res.Err = r.unlinkDir(ctx, res.Path, ui, stats)
	}

	if _, err := os.Lstat(res.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Outcome = OutcomeAbsent

			return res
		}

		ui.Println("\t[error]:" + err.Error())
		stats.Errors++

		res.Outcome = OutcomeFailed
		res.Err = err

		return res
	}

	if err := r.Deleter.Remove(res.Path); err != nil {
		// The unlink tool may have won the race.
		if errors.Is(err, fs.ErrNotExist) {
			res.Outcome = OutcomeAbsent

			return res
		}

		ui.Println("\t[warn]Can't remove:" + res.Path + ". May be locked. ")
		stats.Errors++

		res.Outcome = OutcomeWarned
		res.Err = &RemovalWarning{Path: res.Path, Err: err}

		return res
	}

	if verbose {
		ui.Println("\tRemoved dir:" + res.Path)
	}

	stats.DirsRemoved++
	res.Outcome = OutcomeRemoved

	return res
}

// RemoveFile removes a single file, symlink or other non-directory entry.
// It follows the same contract as RemoveDirectory without the unlink step.
func (r *Remover) RemoveFile(path string, ui Reporter, stats *Stats, verbose bool) (res Result) {
	res.Path = absolute(path)

	defer recoverInto(&res, ui, stats)

	if err := r.Deleter.Remove(res.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Outcome = OutcomeAbsent

			return res
		}

		ui.Println("\t[warn]Can't remove file:" + res.Path + ". May be locked. ")
		stats.Errors++

		res.Outcome = OutcomeWarned
		res.Err = &RemovalWarning{Path: res.Path, Err: err}

		return res
	}

	if verbose {
		ui.Println("\tRemoved file:" + res.Path)
	}

	stats.FilesRemoved++
	res.Outcome = OutcomeRemoved

	return res
}
