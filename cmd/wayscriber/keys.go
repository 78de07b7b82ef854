package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/wayscriber/internal/keybind"
	"github.com/example/wayscriber/internal/overlay"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the effective keybinding table",
	Long: `Merges the configured keybindings over the built-in defaults and
prints the result grouped the way the in-overlay help shows it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		table := keybind.DefaultBindings()
		for tag, combos := range cfg.Keybindings {
			table[keybind.Action(tag)] = combos
		}
		if _, err := keybind.NewResolver(table); err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		section := ""
		for _, entry := range overlay.HelpEntries(table) {
			if entry.Section != section {
				if section != "" {
					fmt.Fprintln(w)
				}
				section = entry.Section
				fmt.Fprintf(w, "%s\n", section)
			}
			fmt.Fprintf(w, "  %s\t%s\n", entry.Combo, entry.Label)
		}
		return w.Flush()
	},
}
