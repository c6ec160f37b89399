// Package ui provides the console sink for progress, warnings and errors.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/rdpro/internal/rdpro"
)

// ErrNotInteractive is returned by Confirm when there is no terminal to ask on.
var ErrNotInteractive = errors.New("standard input is not a terminal, use --yes to confirm")

// Console writes report lines to Out and a redrawn status line to Err.
type Console struct {
	// Out receives report lines.
	Out io.Writer
	// Err receives the status line.
	Err io.Writer
	// In is read for confirmations.
	In io.Reader
	// Interactive indicates whether In is a terminal.
	Interactive bool
	// ShowProgress enables the status line.
	ShowProgress bool

	mu          sync.Mutex
	statusShown bool
}

// NewConsole creates a Console on the standard streams.
// The status line is shown only when stderr is a terminal.
func NewConsole() *Console {
	return &Console{
		Out:          os.Stdout,
		Err:          os.Stderr,
		In:           os.Stdin,
		Interactive:  isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		ShowProgress: isatty.IsTerminal(os.Stderr.Fd()),
	}
}

// Println writes a report line, clearing the status line first.
func (c *Console) Println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	fmt.Fprintln(c.Out, line)
}

// Disclaimer prints the banner and the warning that deletions are permanent.
func (c *Console) Disclaimer(version string) {
	c.Println("RdPro " + version + " - Very fast directory and file delete utility")
	c.Println("Important note: Purged files does not go to recycle bin so can't be recovered.")
}

// DumpArguments prints the raw arguments and the parsed options.
func (c *Console) DumpArguments(args []string, options rdpro.Options) {
	for i, arg := range args {
		c.Println(fmt.Sprintf("arg[%d]:%s", i, arg))
	}

	c.Println("parsed properties:")
	c.Println(fmt.Sprintf("%+v", options))
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Console) Confirm(question string) (bool, error) {
	if !c.Interactive {
		return false, ErrNotInteractive
	}

	c.mu.Lock()
	c.clearLocked()
	fmt.Fprintf(c.Out, "%s (y/n): ", question)
	c.mu.Unlock()

	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Progress redraws the status line from a statistics snapshot.
func (c *Console) Progress(stats rdpro.Stats) {
	if !c.ShowProgress {
		return
	}

	var msg string

	if stats.FilesRemoved == 0 && stats.DirsRemoved == 0 {
		msg = fmt.Sprintf("Scanning… %s files, %s dirs, %s",
			humanize.Comma(stats.FilesFound), humanize.Comma(stats.DirsFound),
			humanize.IBytes(uint64(stats.BytesFound))) //nolint:gosec // Bytes is always positive
	} else {
		msg = fmt.Sprintf("Removing… %s/%s files, %s/%s dirs, %d errors",
			humanize.Comma(stats.FilesRemoved), humanize.Comma(stats.FilesFound),
			humanize.Comma(stats.DirsRemoved), humanize.Comma(stats.DirsFound), stats.Errors)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.Err, "\r\033[2K%s\r", msg)
	c.statusShown = true
}

// ClearProgress removes the status line, if shown.
func (c *Console) ClearProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
}

// clearLocked clears the status line; c.mu must be held.
func (c *Console) clearLocked() {
	if !c.statusShown {
		return
	}

	fmt.Fprint(c.Err, "\r\033[2K\r")
	c.statusShown = false
}
