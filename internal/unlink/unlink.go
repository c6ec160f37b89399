package unlink

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"time"
)

// TemplateResolver produces the unlink template for the current configuration.
type TemplateResolver interface {
	Resolve() (Template, error)
}

// Unlinker invokes the unlink tool on directories.
//
// With Wait set to zero the tool is started and left running: the caller never learns
// whether it succeeded, and the directory may still exist when Unlink returns.
// A positive Wait runs the tool to completion within that duration instead.
type Unlinker struct {
	// Resolver is consulted on every call; a resolution failure is returned as is.
	Resolver TemplateResolver
	// Wait bounds how long to wait for the tool (0 = do not wait).
	Wait time.Duration
}

// New creates an Unlinker for the given resolver.
func New(resolver TemplateResolver, wait time.Duration) *Unlinker {
	return &Unlinker{Resolver: resolver, Wait: wait}
}

// Unlink runs the unlink tool on dir.
//
// It returns a *ConfigurationError when the tool cannot be resolved and an
// *ExecutionError when the process cannot be started. In wait mode a failing
// tool is reported only if dir still exists afterwards.
func (u *Unlinker) Unlink(ctx context.Context, dir string) error {
	tmpl, err := u.Resolver.Resolve()
	if err != nil {
		return err
	}

	argv := tmpl.Argv(dir)

	if u.Wait <= 0 {
		cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec // Tool path comes from user configuration
		if err := cmd.Start(); err != nil {
			return &ExecutionError{Command: tmpl.Format(dir), Err: err}
		}

		// Reap the child; its outcome is not observed.
		go func() { _ = cmd.Wait() }()

		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.Wait)
	defer cancel()

	//nolint:gosec // Tool path comes from user configuration
	if err := exec.CommandContext(ctx, argv[0], argv[1:]...).Run(); err != nil {
		if !exists(dir) {
			return nil
		}

		return &ExecutionError{Command: tmpl.Format(dir), Err: err}
	}

	return nil
}

// exists reports whether path is still present.
func exists(path string) bool {
	_, err := os.Lstat(path)

	return !errors.Is(err, fs.ErrNotExist)
}
