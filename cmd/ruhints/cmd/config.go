package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aden1s/ruphrasehints/internal/app"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the project paths and the effective configuration (defaults merged with the config file).",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  "Writes the default configuration to .ruhints/config.yaml (or --config).",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	paths := app.NewPaths(root)
	cfg, err := loadConfig(paths)
	if err != nil {
		return err
	}

	cfgFile := paths.Config
	if configPath != "" {
		cfgFile = configPath
	}
	cfgStatus := paint(colorYellow, "✗ not found, using defaults")
	if _, err := os.Stat(cfgFile); err == nil {
		cfgStatus = paint(colorGreen, "✓ loaded")
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", paint(colorBold, "⚡ ruhints config"))
	fmt.Fprintf(out, "  Root:       %s\n", root)
	fmt.Fprintf(out, "  DB:         %s\n", paths.DB)
	fmt.Fprintf(out, "  Config:     %s  %s\n", cfgFile, cfgStatus)
	fmt.Fprintf(out, "\n%s", data)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	path := app.NewPaths(root).Config
	if configPath != "" {
		path = configPath
	}
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := app.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
