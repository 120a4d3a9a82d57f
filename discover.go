package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	bnet "SketchRoom/internal/net"
)

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find relays advertised on the local network",
	Args:  cobra.NoArgs,
	RunE:  runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().DurationVarP(&discoverTimeout, "timeout", "t", 3*time.Second, "how long to listen for answers")
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Looking for relays for %s...\n", discoverTimeout)

	found := 0
	err := bnet.Browse(discoverTimeout, func(r bnet.Relay) {
		found++
		fmt.Fprintf(out, "  %-24s %-22s %s\n", r.Name, r.Addr, strings.Join(r.Info, " "))
	})
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if found == 0 {
		fmt.Fprintln(out, "No relays found.")
	}
	return nil
}
