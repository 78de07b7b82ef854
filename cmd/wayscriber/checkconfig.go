package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration and print the effective document",
	Long: `Parses the configuration file, applies defaults for every key it
omits, runs validation, and prints the merged document as TOML. A
missing file is not an error; the defaults are printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# effective configuration (%s)\n", path)
		if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return nil
	},
}
