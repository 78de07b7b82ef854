// wayscriber is the maintenance CLI for the annotation engine. The
// overlay itself is started by a compositor frontend that embeds
// internal/engine; this binary covers the tooling around it:
// configuration validation, session snapshot inspection, and the
// effective keybinding table.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/wayscriber/internal/config"
	"github.com/example/wayscriber/internal/logger"
)

var (
	cfgPath   string
	logLevel  string
	logPretty bool
)

var rootCmd = &cobra.Command{
	Use:          "wayscriber",
	Short:        "Wayland screen annotation overlay tooling",
	SilenceUsage: true,
	Long: `Wayscriber draws annotations over the live desktop, a frozen
screen copy, or opaque whiteboards. The overlay runs inside a
compositor frontend; this command validates its configuration,
inspects persisted sessions, and lists the active keybindings.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default is $XDG_CONFIG_HOME/wayscriber/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "human-readable log output")
	rootCmd.AddCommand(versionCmd, checkConfigCmd, sessionCmd, keysCmd)
}

// loadConfig resolves the config path, loads the file, and initializes
// logging from the merged result.
func loadConfig() (*config.Config, string, error) {
	path := cfgPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logger.Init(cfg.Logging.Level, logPretty || cfg.Logging.Pretty)
	return cfg, path, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
