package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"SketchRoom/internal/export"
	"SketchRoom/internal/logging"
	bnet "SketchRoom/internal/net"
)

var exportCmd = &cobra.Command{
	Use:   "export <room> <file.pdf|file.png>",
	Short: "Save the current shapes of a room to PDF or PNG",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	room, path := args[0], args[1]
	if _, err := export.Format(path); err != nil {
		return err
	}

	shapes, err := bnet.NewHistoryClient(cfg.HistoryURL, logging.Log).Fetch(cmd.Context(), room)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	if err := export.WriteFile(path, shapes); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d shapes from %q to %s\n", len(shapes), room, path)
	return nil
}
