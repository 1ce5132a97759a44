// Package monitor runs the connection state-transition loop.
package monitor

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/nkhalid/wifiwatch/internal/adapter"
	"github.com/rs/zerolog/log"
)

// Sink is where transition entries go.
type Sink interface {
	Append(message string) error
}

// Monitor polls the prober on a fixed cadence and records every flip
// between connected and disconnected. It is the sole owner of the
// last-known connection state.
type Monitor struct {
	prober    adapter.Prober
	sink      Sink
	interval  time.Duration
	connected bool
}

func New(prober adapter.Prober, sink Sink, interval time.Duration) *Monitor {
	return &Monitor{
		prober:   prober,
		sink:     sink,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled. Cancellation is the loop's only
// designed exit; anything else that escapes an iteration is logged and
// treated the same way so shutdown still produces a report.
func (m *Monitor) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("monitor loop terminated unexpectedly")
			m.appendLog(fmt.Sprintf("monitor loop terminated unexpectedly: %v", r))
		}
	}()

	log.Info().Dur("interval", m.interval).Msg("monitor started")
	m.probeInitial()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("monitor stopping")
			return

		case <-ticker.C:
			m.pollOnce()
		}
	}
}

// probeInitial seeds the last-known state before the loop starts, so the
// first tick only reports an actual change.
func (m *Monitor) probeInitial() {
	rec, err := m.prober.Probe()
	if err != nil {
		log.Warn().Err(err).Msg("initial probe failed")
		m.appendLog(fmt.Sprintf("monitoring started: initial probe failed: %v", err))
		return
	}
	if rec != nil {
		m.connected = true
		m.appendLog("monitoring started: found active wireless adapter: " + rec.Name)
	} else {
		m.appendLog("monitoring started: no wireless adapter connected")
	}
}

func (m *Monitor) pollOnce() {
	rec, err := m.prober.Probe()
	if err != nil {
		// transient; state stays as last known
		log.Warn().Err(err).Msg("adapter probe failed")
		return
	}

	current := rec != nil
	log.Debug().Bool("connected", current).Msg("poll")
	if current == m.connected {
		return
	}

	if current {
		m.appendLog("WiFi CONNECTED: " + rec.Name)
		m.logDetails(rec)
	} else {
		m.appendLog("WiFi DISCONNECTED!")
	}

	// log writes precede the state update: a crash between the two leaves
	// evidence of the transition in the log rather than losing it
	m.connected = current
}

// logDetails writes the connection detail block. Failures here are a
// sub-error on the log, never a reason to miss the transition itself.
func (m *Monitor) logDetails(rec *adapter.Record) {
	defer func() {
		if r := recover(); r != nil {
			m.appendLog(fmt.Sprintf("error collecting connection details: %v", r))
		}
	}()
	m.appendLog(details(rec))
}

func details(rec *adapter.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  DNS Servers: %s\n", joinIPs(rec.DNSServers))
	fmt.Fprintf(&b, "  Gateways: %s\n", joinIPs(rec.Gateways))

	addrs := make([]string, 0, len(rec.Addrs))
	for _, a := range rec.Addrs {
		addrs = append(addrs, fmt.Sprintf("%s/%d", a.IP, a.PrefixLen))
	}
	fmt.Fprintf(&b, "  IP Addresses: %s\n", orNone(strings.Join(addrs, ", ")))
	fmt.Fprintf(&b, "  Link Speed: %d Mbps", rec.SpeedMbps)
	return b.String()
}

func joinIPs(ips []net.IP) string {
	parts := make([]string, 0, len(ips))
	for _, ip := range ips {
		parts = append(parts, ip.String())
	}
	return orNone(strings.Join(parts, ", "))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (m *Monitor) appendLog(message string) {
	if err := m.sink.Append(message); err != nil {
		// log-write failure is non-fatal to monitoring
		log.Error().Err(err).Msg("log append failed")
	}
}
