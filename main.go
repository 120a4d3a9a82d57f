package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SketchRoom/internal/config"
	"SketchRoom/internal/logging"
)

// cfg holds .env and SKETCH_* settings; flags registered in init override it.
var cfg = config.Load(".env")

var rootCmd = &cobra.Command{
	Use:   "sketchroom",
	Short: "Real-time collaborative drawing board",
	Long: `SketchRoom is a shared infinite canvas. Everyone in a room sees the same
shapes, and every edit is relayed to the other members as it happens.

Examples:
  sketchroom relay --listen :8080                 # Host rooms on this machine
  sketchroom join design-review                   # Open a room on the default relay
  sketchroom join sketchroom://10.0.0.4:8080/demo # Open a shared link
  sketchroom discover                             # Find relays on the LAN
  sketchroom export demo board.pdf                # Save a room to PDF or PNG`,
	Version:      "0.3.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(cfg.LogFile, cfg.LogLevel); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	},
}

func init() {
	// fyne fails to parse the locale when LANG is unset or C.
	if lang := os.Getenv("LANG"); lang == "" || lang == "C" {
		os.Setenv("LANG", "en_US.UTF-8")
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file, empty logs to stderr")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&cfg.RelayURL, "relay", cfg.RelayURL, "websocket URL of the relay")
	f.StringVar(&cfg.HistoryURL, "history", cfg.HistoryURL, "base URL of the history endpoint")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
