package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aden1s/ruphrasehints/internal/app"
)

var (
	rootDir    string
	configPath string
	verbose    bool
	colorFlag  string

	logger   *slog.Logger
	useColor bool
)

var rootCmd = &cobra.Command{
	Use:           "ruhints",
	Short:         "ruhints: term hints for Russian texts",
	Long:          "Finds dictionary terms in HTML text, including inflected forms and phrases, and wraps them in hint markup.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		} else if cmd.Name() == "watch" || cmd.Name() == "serve" {
			level = slog.LevelInfo
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		useColor = resolveColor(colorFlag, os.Getenv("NO_COLOR") != "")
	},
}

// projectRoot returns the project root (--root, or cwd by default).
func projectRoot() (string, error) {
	if rootDir != "" {
		return filepath.Abs(rootDir)
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return dir, nil
}

// loadConfig reads --config, or .ruhints/config.yaml when present.
func loadConfig(paths *app.Paths) (*app.Config, error) {
	if configPath != "" {
		return app.LoadConfig(configPath, true)
	}
	return app.LoadConfig(paths.Config, false)
}

// openApp builds the App for the current project with command-line overrides.
func openApp(o app.Overrides) (*app.App, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	paths := app.NewPaths(root)
	cfg, err := loadConfig(paths)
	if err != nil {
		return nil, err
	}
	cfg.Apply(o)
	return app.New(app.Options{ProjectRoot: root, Config: cfg, Logger: logger})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootDir, "root", "", "project root holding .ruhints/ (default: current directory)")
	pf.StringVar(&configPath, "config", "", "config file (default: .ruhints/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	pf.StringVar(&colorFlag, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
