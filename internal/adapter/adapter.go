// Package adapter models network adapters and probes their state.
package adapter

import "net"

type Kind string

const (
	KindWireless Kind = "wireless"
	KindEthernet Kind = "ethernet"
	KindLoopback Kind = "loopback"
	KindOther    Kind = "other"
)

type Status string

const (
	StatusUp    Status = "up"
	StatusDown  Status = "down"
	StatusOther Status = "other"
)

// Addr is one assigned address with its prefix length.
type Addr struct {
	IP        net.IP
	PrefixLen int
}

// Record is a point-in-time snapshot of one adapter. Produced fresh on
// every probe, never mutated afterwards.
type Record struct {
	Name        string
	Description string
	Kind        Kind
	Status      Status
	SpeedMbps   int
	Addrs       []Addr
	Gateways    []net.IP
	DNSServers  []net.IP
}

// Prober enumerates adapters and selects the active wireless one.
type Prober interface {
	// Probe returns the first operationally-up wireless adapter, or nil
	// when no wireless adapter is up. A nil Record with nil error is the
	// normal "not connected" result.
	Probe() (*Record, error)

	// List returns every adapter on the host, wireless or not.
	List() ([]Record, error)
}
