// Command rdpro removes large directory trees quickly.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/rdpro/internal/cli"
)

//nolint:gochecknoglobals // Set by the linker
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		if !errors.Is(err, cli.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}
