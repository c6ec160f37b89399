package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/rdpro/internal/rdpro"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *rdpro.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs statistics in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(stats *rdpro.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	if stats.DryRun {
		fmt.Fprintln(w, "\nDry run, nothing was removed.\t\t")
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Root:\t%s\n", stats.Root)
	fmt.Fprintf(w, "Files removed:\t%s of %s\n",
		humanize.Comma(stats.FilesRemoved), humanize.Comma(stats.FilesFound))
	fmt.Fprintf(w, "Directories removed:\t%s of %s\n",
		humanize.Comma(stats.DirsRemoved), humanize.Comma(stats.DirsFound))
	fmt.Fprintf(w, "Errors:\t%s\n", humanize.Comma(stats.Errors))
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(stats.BytesFound)), stats.BytesFound) //nolint:gosec // Bytes is always positive

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
