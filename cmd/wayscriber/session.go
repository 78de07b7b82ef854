package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wayscriber/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect persisted session snapshots",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Decode a snapshot file and summarize its contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		snap, err := session.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "doc      %s\n", snap.DocID)
		fmt.Fprintf(out, "version  %d\n", snap.Version)
		fmt.Fprintf(out, "saved    %s\n", snap.SavedAt.Format("2006-01-02 15:04:05"))
		if snap.Tool != nil {
			fmt.Fprintf(out, "tool     %s %.0fpx\n", snap.Tool.Color.Hex(), snap.Tool.Thickness)
		}
		for _, b := range snap.Boards {
			shapes, history := 0, 0
			for _, p := range b.Pages {
				shapes += len(p.Shapes)
				history += len(p.Undo) + len(p.Redo)
			}
			name := b.Spec.Name
			if name == "" {
				name = b.Spec.ID
			}
			line := fmt.Sprintf("board    %s: %d page(s), %d shape(s)", name, len(b.Pages), shapes)
			if history > 0 {
				line += fmt.Sprintf(", %d history action(s)", history)
			}
			if b.Spec.Pinned {
				line += ", pinned"
			}
			fmt.Fprintln(out, line)
		}
		if len(snap.Boards) == 0 {
			fmt.Fprintln(out, "board    none persisted")
		}
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshot files in the configured storage directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		dir := cfg.Session.StorageDir(path)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "no sessions under %s\n", dir)
				return nil
			}
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wsb") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\t%s\n",
				filepath.Join(dir, entry.Name()), info.Size(),
				info.ModTime().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd, sessionListCmd)
}
