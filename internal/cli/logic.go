package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/idelchi/rdpro/internal/rdpro"
	"github.com/idelchi/rdpro/internal/ui"
	"github.com/idelchi/rdpro/internal/unlink"
)

// ErrAborted is returned when the user declines the confirmation.
var ErrAborted = errors.New("aborted by user")

func logic(ctx context.Context, options rdpro.Options, args []string, version string) error {
	jsonOutput := strings.ToLower(options.Output) == "json"

	console := ui.NewConsole()
	console.ShowProgress = console.ShowProgress && !jsonOutput && !options.Debug && !options.Verbose

	// Keep stdout clean for the JSON document.
	if jsonOutput {
		console.Out = os.Stderr
	}

	console.Disclaimer(version)

	if options.Debug {
		console.DumpArguments(args, options)
	}

	if !options.Yes && !options.DryRun {
		target, err := filepath.Abs(options.Path)
		if err != nil {
			target = options.Path
		}

		ok, err := console.Confirm(fmt.Sprintf("Remove %s and everything below it?", target))
		if err != nil {
			return err
		}

		if !ok {
			return ErrAborted
		}
	}

	var unlinker rdpro.DirUnlinker

	if options.Unlink {
		resolver, err := unlink.NewHostResolver()
		if err != nil {
			return err
		}

		unlinker = unlink.New(resolver, options.UnlinkWait)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	stats, err := rdpro.NewRemover(unlinker).Run(ctx, options, console, console.Progress)

	console.ClearProgress()

	if stats == nil {
		return err
	}

	var printErr error
	if jsonOutput {
		printErr = PrintJSON(stats, os.Stdout)
	} else {
		printErr = PrintTable(stats, os.Stdout)
	}

	if err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}

	return printErr
}
