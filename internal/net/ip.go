package net

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"SketchRoom/internal/logging"
)

// LinkScheme prefixes share links handed to other participants.
const LinkScheme = "sketchroom://"

// OutgoingIP finds the preferred local IP address for others to reach us.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return firstIPv4().String()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// firstIPv4 is used on networks without internet access.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	logging.Log.Warn("no suitable local IP found, share link points at loopback")
	return net.IPv4(127, 0, 0, 1)
}

// ShareLink builds sketchroom://host:port/room.
func ShareLink(host string, port int, room string) string {
	return fmt.Sprintf("%s%s/%s", LinkScheme, net.JoinHostPort(host, fmt.Sprint(port)), url.PathEscape(room))
}

// IsShareLink reports whether s uses the share link scheme.
func IsShareLink(s string) bool { return strings.HasPrefix(s, LinkScheme) }

// ParseShareLink splits a share link into the relay address and room.
func ParseShareLink(link string) (addr, room string, err error) {
	if !IsShareLink(link) {
		return "", "", fmt.Errorf("not a %s link: %q", LinkScheme, link)
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", "", fmt.Errorf("parse share link: %w", err)
	}
	room = strings.Trim(u.Path, "/")
	if u.Host == "" || room == "" {
		return "", "", fmt.Errorf("share link needs host and room: %q", link)
	}
	return u.Host, room, nil
}

// Endpoints derives the websocket and history URLs of a relay address.
func Endpoints(addr string) (wsURL, historyURL string) {
	return "ws://" + addr + "/ws", "http://" + addr
}
