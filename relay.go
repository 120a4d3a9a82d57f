package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"SketchRoom/internal/logging"
	bnet "SketchRoom/internal/net"
	"SketchRoom/internal/relay"
	"SketchRoom/internal/telemetry"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the room relay and history server",
	Long: `Run the websocket relay. Clients join rooms on /ws, late joiners load
GET /rooms/{room}/shapes, and /metrics and /healthz report on the relay.`,
	Args: cobra.NoArgs,
	RunE: runRelay,
}

func init() {
	rootCmd.AddCommand(relayCmd)

	f := relayCmd.Flags()
	f.StringVarP(&cfg.ListenAddr, "listen", "l", cfg.ListenAddr, "address to listen on")
	f.BoolVar(&cfg.MDNS, "mdns", cfg.MDNS, "advertise the relay on the local network")
	f.StringVar(&cfg.JaegerEndpoint, "jaeger", cfg.JaegerEndpoint, "Jaeger collector endpoint, empty disables tracing")
	f.StringVar(&cfg.Room, "room", cfg.Room, "room named in the printed share link")
}

func runRelay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Log

	if cfg.JaegerEndpoint != "" {
		shutdown, err := telemetry.InitJaeger("sketchroom-relay", cfg.JaegerEndpoint)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warnw("tracer shutdown", "error", err)
			}
		}()
	}

	port := cfg.ListenPort()
	if cfg.MDNS && port > 0 {
		srv, err := bnet.Advertise(port, "SketchRoom relay", "room="+cfg.Room)
		if err != nil {
			log.Warnw("mDNS advertisement disabled", "error", err)
		} else {
			defer srv.Shutdown()
		}
	}

	link := bnet.ShareLink(bnet.OutgoingIP(), port, cfg.Room)
	fmt.Fprintf(cmd.OutOrStdout(), "Relay listening on %s\nShare link: %s\n", cfg.ListenAddr, link)
	log.Infow("relay starting", "addr", cfg.ListenAddr, "mdns", cfg.MDNS, "link", link)

	return relay.NewServer(log).ListenAndServe(ctx, cfg.ListenAddr)
}
