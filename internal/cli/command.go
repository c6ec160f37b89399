package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/rdpro/internal/integration"
	"github.com/idelchi/rdpro/internal/rdpro"
	"github.com/idelchi/rdpro/internal/unlink"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json"}

// bindFlags registers the command-line flags onto options.
func bindFlags(flags *pflag.FlagSet, options *rdpro.Options) {
	flags.BoolVarP(&options.Yes, "yes", "y", false, "Remove without asking for confirmation")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "Report every removed file and directory")
	flags.BoolVarP(&options.DryRun, "dry-run", "n", false, "Show what would be removed without removing anything")
	flags.StringSliceVarP(
		&options.FilePatterns,
		"files",
		"f",
		[]string{},
		"Only remove files matching these patterns (e.g. *.class,*.log). Directories are kept",
	)
	flags.StringSliceVarP(
		&options.DirPatterns,
		"dirs",
		"d",
		[]string{},
		"Only remove directories matching these patterns, with everything below them (e.g. target,node_modules)",
	)
	flags.BoolVarP(&options.Unlink, "unlink", "u", false, "Run the hard-link removal tool on each directory before deleting it")
	flags.DurationVar(
		&options.UnlinkWait,
		"unlink-wait",
		0,
		"Wait up to this long for the hard-link removal tool (0 = start it and move on)",
	)
	flags.StringVarP(&options.Output, "output", "o", "table", "Summary format: json or table")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVar(&options.Init, "init", false, "Print a sample "+unlink.ConfigFileName+" and exit")
	flags.SortFlags = false
}

// validate checks option combinations that the flag parser cannot.
func validate(options rdpro.Options) error {
	if !slices.Contains(allowedOutputs, options.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if options.UnlinkWait < 0 {
		return errors.New("unlink-wait cannot be negative")
	}

	if options.UnlinkWait > 0 && !options.Unlink {
		return errors.New("unlink-wait requires --unlink")
	}

	return nil
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	var options rdpro.Options

	cmd := &cobra.Command{
		Use:   "rdpro [flags] <dir>",
		Short: "Very fast directory and file delete utility",
		Long: heredoc.Doc(`
			rdpro removes a directory tree, or selected parts of it, as fast as possible.

			The tree is scanned first, then files are removed, then directories from the
			deepest up. Files and directories that cannot be removed (e.g. because they are
			locked) are reported and skipped; the run always continues.

			With --unlink every directory is first handed to the hard-link removal tool
			(linkd.exe on Windows, hunlink on macOS). Its location is read from the
			pathToUnlinkDirExecutable key of ~/rdpro.properties; see --init.

			Removed files do not go to the recycle bin and cannot be recovered.
		`),
		Example: heredoc.Doc(`
			rdpro ./build
			rdpro -y -f '*.class,*.log' ./project
			rdpro -d target,node_modules -n ~/src
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Init {
				resolver, err := unlink.NewHostResolver()
				if err != nil {
					return err
				}

				rendered, err := integration.Render(resolver)
				if err != nil {
					return fmt.Errorf("rendering %s: %w", unlink.ConfigFileName, err)
				}

				fmt.Fprint(cmd.OutOrStdout(), rendered)

				return nil
			}

			if len(args) == 0 {
				return cmd.Help()
			}

			if err := validate(options); err != nil {
				return err
			}

			options.Path = args[0]

			return logic(cmd.Context(), options, os.Args[1:], c.version)
		},
	}

	bindFlags(cmd.Flags(), &options)

	return cmd.ExecuteContext(context.Background())
}
