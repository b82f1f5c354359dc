// Package cli implements the meos command line interface.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/brainbreezegames-lang/meos/internal/app"
	"github.com/brainbreezegames-lang/meos/internal/config"
	"github.com/brainbreezegames-lang/meos/internal/logger"
)

var (
	version = "dev"

	cfgFile string
	verbose bool

	cfg         *config.Config
	application *app.Application
)

var rootCmd = &cobra.Command{
	Use:   "meos",
	Short: "Fuzzy search for the meos desktop",
	Long: `meos finds apps, windows, widgets, documents and commands by typing a
few characters of their name. Results favour prefixes, word starts and
consecutive letters, and items you opened recently or often.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ~/.meos/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetOutput sets where command output and errors are written.
func SetOutput(out, errOut io.Writer) {
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx and releases the
// application afterwards.
func ExecuteContext(ctx context.Context) error {
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	logger.Setup(loaded.Log.Level, loaded.Log.Format, cmd.ErrOrStderr())
	if verbose {
		logger.SetVerbose(true)
	}
	logger.L().Debug("config loaded", slog.String("path", path))

	cfg = loaded
	return nil
}

// getApp builds the application on first use.
func getApp(cmd *cobra.Command) (*app.Application, error) {
	if application != nil {
		return application, nil
	}

	a, err := app.New(cmd.Context(), app.Options{Config: cfg, Output: cmd.OutOrStdout()})
	if err != nil {
		return nil, err
	}
	application = a
	return a, nil
}

func closeApp() {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		logger.L().Warn("shutdown failed", slog.String("error", err.Error()))
	}
	application = nil
}
