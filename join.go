package main

import (
	"net"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"SketchRoom/internal/logging"
	bnet "SketchRoom/internal/net"
	"SketchRoom/internal/ui"
)

var offline bool

var joinCmd = &cobra.Command{
	Use:   "join [room | sketchroom://host:port/room]",
	Short: "Open a room in the desktop board",
	Long: `Open a room. A share link selects both the relay and the room; a bare
name uses the relay from --relay and --history. If the relay cannot be
reached the board opens offline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJoin,
}

func init() {
	rootCmd.AddCommand(joinCmd)

	f := joinCmd.Flags()
	f.StringVarP(&cfg.User, "user", "u", cfg.User, "name sent to the relay")
	f.Float64Var(&cfg.MinZoom, "min-zoom", cfg.MinZoom, "lowest zoom factor")
	f.Float64Var(&cfg.MaxZoom, "max-zoom", cfg.MaxZoom, "highest zoom factor")
	f.DurationVar(&cfg.Throttle, "throttle", cfg.Throttle, "minimum spacing of live drag updates")
	f.BoolVar(&offline, "offline", false, "draw locally without a relay")
}

// target resolves the join argument into a room and its relay endpoints.
func target(arg string) (room, wsURL, historyURL string, err error) {
	room, wsURL, historyURL = cfg.Room, cfg.RelayURL, cfg.HistoryURL
	switch {
	case bnet.IsShareLink(arg):
		addr, r, err := bnet.ParseShareLink(arg)
		if err != nil {
			return "", "", "", err
		}
		wsURL, historyURL = bnet.Endpoints(addr)
		room = r
	case arg != "":
		room = arg
	}
	return room, wsURL, historyURL, nil
}

// shareLinkFor builds the link others can use to join the same room. A
// loopback relay is advertised under this machine's LAN address.
func shareLinkFor(wsURL, room string) string {
	u, err := url.Parse(wsURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return ""
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return ""
	}
	if ip := net.ParseIP(host); host == "localhost" || (ip != nil && ip.IsLoopback()) {
		host = bnet.OutgoingIP()
	}
	return bnet.ShareLink(host, port, room)
}

func runJoin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.Log

	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	room, wsURL, historyURL, err := target(arg)
	if err != nil {
		return err
	}

	session := ui.Session{
		Room:     room,
		MinZoom:  cfg.MinZoom,
		MaxZoom:  cfg.MaxZoom,
		Throttle: cfg.Throttle,
	}
	if !offline {
		session.ShareLink = shareLinkFor(wsURL, room)
		session.History = bnet.NewHistoryClient(historyURL, log)
		ch, err := bnet.Dial(ctx, wsURL, room, cfg.User, log)
		if err != nil {
			log.Warnw("relay unreachable, drawing offline", "relay", wsURL, "error", err)
		} else {
			session.Channel = ch
		}
	}

	log.Infow("opening board", "room", room, "relay", wsURL, "online", session.Channel != nil)
	ui.Run(ctx, session)
	return nil
}
