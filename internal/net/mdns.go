package net

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_sketchroom._tcp"

// Relay is a relay found on the local network.
type Relay struct {
	Name string
	Addr string
	Info []string
}

// Advertise announces a relay listening on port. The returned server must
// be shut down by the caller.
func Advertise(port int, info ...string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if len(info) == 0 {
		info = []string{"SketchRoom relay"}
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse queries the LAN for relays for timeout, calling found for each
// IPv4 answer.
func Browse(timeout time.Duration, found func(Relay)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if r, ok := relayFromEntry(e); ok {
				found(r)
			}
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	return err
}

func relayFromEntry(e *mdns.ServiceEntry) (Relay, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Relay{}, false
	}
	name := strings.TrimSuffix(e.Name, "."+serviceType+".local.")
	return Relay{
		Name: name,
		Addr: fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port),
		Info: e.InfoFields,
	}, true
}
