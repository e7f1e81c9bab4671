package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	watchFlags engineFlags
	watchOut   string
)

var watchCmd = &cobra.Command{
	Use:   "watch SRC",
	Short: "Keep an annotated copy of a content directory up to date",
	Long: `Annotates every .html and .htm file under SRC into --out, then re-annotates
files as they change until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "output directory (required, must differ from SRC)")
	_ = watchCmd.MarkFlagRequired("out")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, dict, err := openEngineApp(cmd, &watchFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Watch(ctx, args[0], watchOut, dict)
}
