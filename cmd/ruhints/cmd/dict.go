package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aden1s/ruphrasehints/internal/app"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage stored dictionaries",
	Long:  "Stores named dictionaries in .ruhints/ruhints.db so that other commands can use them with --dict-name.",
}

var dictImportCmd = &cobra.Command{
	Use:   "import NAME FILE",
	Short: "Import a YAML or JSON dictionary file under NAME",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(a *app.App) error {
			sd, err := a.ImportDictionary(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d terms\n", paint(colorCyan, sd.Name), len(sd.Entries))
			return nil
		})
	},
}

var dictListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored dictionaries",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(a *app.App) error {
			dicts, err := a.ListDictionaries()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatDictionaries(dicts))
			return nil
		})
	},
}

var dictShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a stored dictionary in file format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(a *app.App) error {
			dict, err := a.StoredDictionary(args[0])
			if err != nil {
				return err
			}
			return app.WriteDictionary(cmd.OutOrStdout(), dict.Entries())
		})
	},
}

var dictRmCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove"},
	Short:   "Delete a stored dictionary",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(a *app.App) error {
			if err := a.RemoveDictionary(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		})
	},
}

// withStore runs fn with an App and adds lock guidance to store errors.
func withStore(fn func(a *app.App) error) error {
	a, err := openApp(app.Overrides{})
	if err != nil {
		return err
	}
	defer a.Close()
	return withLockHint(a.Paths.DB, fn(a))
}

func init() {
	dictCmd.AddCommand(dictImportCmd)
	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictShowCmd)
	dictCmd.AddCommand(dictRmCmd)
}
