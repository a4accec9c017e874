package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirrank/internal/config"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	// confirm asks the user whether path may be deleted.
	confirm func(path string) (bool, error)
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{
		version: version,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		confirm: askConfirmation,
	}
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.command().ExecuteContext(ctx)
}

// command builds the root command and its subcommands.
func (c CLI) command() *cobra.Command {
	var cfgFile string

	v := viper.New()

	root := &cobra.Command{
		Use:   "dirrank [flags] [path]",
		Short: "Rank the subdirectories of a folder by disk usage",
		Long: heredoc.Doc(`
			dirrank measures every immediate subdirectory of a folder in parallel
			and lists the largest ones.

			Positional Arguments:
			  path                   Directory to analyze. Defaults to the current directory.

			Errors inside a subdirectory (for example permission denied) are logged
			and skipped; only a root that cannot be read fails the scan.

			Use --interactive to browse the results and delete folders from a terminal UI,
			or 'dirrank delete' to remove a single folder.
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}

			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			return c.scan(cmd.Context(), cfg, path)
		},
	}

	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	persistent := root.PersistentFlags()
	persistent.StringVar(&cfgFile, "config", "", "Config file (default: dirrank.yaml in ., $XDG_CONFIG_HOME/dirrank or ~/.config/dirrank)")
	persistent.Bool("debug", false, "Enable debug output")
	persistent.String("log-file", "", "Also write diagnostics to this rotating log file")
	persistent.String("log-format", "text", "Diagnostic log format: text or json")

	flags := root.Flags()
	flags.SortFlags = false
	flags.IntP("top", "t", 10, "Number of top folders to display")
	flags.StringP("output", "o", "table", "Output format: table, json, yaml or plain")
	flags.StringP("min-size", "m", "0B", "Hide folders smaller than this (e.g., 10MB)")
	flags.IntP("workers", "w", 0, "Number of folders measured concurrently (0=auto)")
	flags.Int("probe-workers", 0, "Walk goroutines per folder (0=auto)")
	flags.BoolP("interactive", "i", false, "Browse results and delete folders in a terminal UI")

	bind(v, root, map[string]string{
		"top":           "top",
		"output":        "output",
		"min-size":      "min-size",
		"workers":       "workers",
		"probe-workers": "probe-workers",
		"interactive":   "interactive",
		"debug":         "debug",
		"log.file":      "log-file",
		"log.format":    "log-format",
	})

	root.AddCommand(c.deleteCommand(v, &cfgFile), c.initCommand())

	return root
}

// bind maps viper keys to flags of cmd, persistent or local.
func bind(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}

		if err := v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}
}
