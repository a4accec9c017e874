package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirrank/internal/config"
	"github.com/idelchi/dirrank/internal/guard"
)

// errNoConfirmation is returned when a delete needs confirmation but cannot ask for it.
var errNoConfirmation = errors.New("refusing to delete without confirmation: pass --yes")

// askConfirmation prompts on the terminal before a folder is deleted.
func askConfirmation(path string) (bool, error) {
	if !isTerminal(os.Stdin) {
		return false, errNoConfirmation
	}

	var confirmed bool

	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Permanently delete this folder?\n%s\n", path),
		Default: false,
	}

	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}

	return confirmed, nil
}

func (c CLI) deleteCommand(v *viper.Viper, cfgFile *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [flags] <path>",
		Short: "Permanently delete a folder",
		Long: heredoc.Doc(`
			Recursively and irreversibly delete a folder.

			The folder must exist, must be a directory and must not be your home
			directory (symlinks to it are resolved). A failure halfway through leaves
			the folder partially deleted.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}

			logger, closer, err := newLogger(cfg, c.stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			path := args[0]

			if !yes {
				confirmed, err := c.confirm(path)
				if err != nil {
					return fmt.Errorf("asking for confirmation: %w", err)
				}

				if !confirmed {
					fmt.Fprintln(c.stdout, "Deletion cancelled")

					return nil
				}
			}

			outcome := guard.New().Delete(path)
			if !outcome.Success {
				logger.Error("delete failed", "path", path, "reason", outcome.Message)

				return fmt.Errorf("could not delete folder: %w", outcome.Err())
			}

			logger.Debug("deleted folder", "path", path)
			fmt.Fprintf(c.stdout, "Successfully deleted: %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")

	return cmd
}
