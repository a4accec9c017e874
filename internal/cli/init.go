package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idelchi/dirrank/internal/integration"
)

func (c CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "init [" + strings.Join(integration.Shells, "|") + "]",
		Short:     "Output fzf helper functions for shell usage (default zsh)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: integration.Shells,
		RunE: func(_ *cobra.Command, args []string) error {
			shell := integration.Shells[0]
			if len(args) == 1 {
				shell = args[0]
			}

			rendered, err := integration.Render(shell)
			if err != nil {
				return fmt.Errorf("rendering integration script: %w", err)
			}

			fmt.Fprintln(c.stdout, rendered)

			return nil
		},
	}
}
