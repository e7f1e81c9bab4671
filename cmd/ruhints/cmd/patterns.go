package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var patternsFlags engineFlags

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show the compiled pattern for each dictionary term",
	Long:  "Lists compiled patterns in matching order (longest term first) with their kind and literal prefilter, plus the terms that were skipped.",
	Args:  cobra.NoArgs,
	RunE:  runPatterns,
}

func init() {
	patternsFlags.register(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	a, dict, err := openEngineApp(cmd, &patternsFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	patterns, skipped := a.Patterns(dict)
	fmt.Fprint(cmd.OutOrStdout(), formatPatterns(patterns, skipped))
	return nil
}
