package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Provider sets are fixed: these are the services whose records explain
// most wireless drops on a Linux host.
var (
	networkProviders = []string{
		"NetworkManager",
		"wpa_supplicant",
		"systemd-networkd",
		"dhclient",
		"avahi-daemon",
	}
	hardwareProviders = []string{
		"kernel",
		"systemd-udevd",
		"bluetoothd",
	}
)

// Sink is where harvested records go.
type Sink interface {
	Append(message string) error
}

// Collector periodically pulls recent diagnostic records from the source
// and appends the relevant ones to the monitoring log. It shares nothing
// with the monitor loop except the sink.
type Collector struct {
	source   Source
	sink     Sink
	interval time.Duration
	lookback time.Duration
}

func NewCollector(source Source, sink Sink, interval, lookback time.Duration) *Collector {
	return &Collector{
		source:   source,
		sink:     sink,
		interval: interval,
		lookback: lookback,
	}
}

// Run blocks until ctx is cancelled; the first collection happens one full
// interval after start. Cancellation mid-batch is the designed exit, not
// an error. Anything unexpected escaping a cycle is logged and ends the
// loop the same way so the shutdown report still gets produced.
func (c *Collector) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("collector loop terminated unexpectedly")
			c.appendLog(fmt.Sprintf("event collector terminated unexpectedly: %v", r))
		}
	}()

	log.Info().Dur("interval", c.interval).Dur("lookback", c.lookback).Msg("event collector started")

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("event collector stopping")
			return

		case <-ticker.C:
			c.collectOnce(ctx)
		}
	}
}

func (c *Collector) collectOnce(ctx context.Context) {
	c.appendLog("collecting recent event logs")
	since := time.Now().Add(-c.lookback)

	c.collectCategory(ctx, "network", networkProviders, since, nil)
	c.collectCategory(ctx, "hardware", hardwareProviders, since, Relevant)
}

// collectCategory queries one provider set and logs every record passing
// the filter (nil filter means log everything), followed by a count
// summary. A failed query is logged and the cycle moves on.
func (c *Collector) collectCategory(ctx context.Context, label string, providers []string, since time.Time, filter func(Record) bool) {
	recs, err := c.source.Query(ctx, providers, since)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		log.Warn().Err(err).Str("category", label).Msg("event query failed")
		c.appendLog(fmt.Sprintf("error collecting %s events: %v", label, err))
		return
	}

	matched := 0
	for _, rec := range recs {
		if filter != nil && !filter(rec) {
			continue
		}
		matched++
		c.appendLog(fmt.Sprintf("Network Event: [%s] %s %s - %s: %s",
			rec.Level, rec.Time.Format("2006-01-02 15:04:05"), rec.Provider, rec.ID, rec.Message))
	}
	c.appendLog(fmt.Sprintf("%d relevant %s events in the last %s", matched, label, c.lookback))
}

func (c *Collector) appendLog(message string) {
	if err := c.sink.Append(message); err != nil {
		log.Error().Err(err).Msg("log append failed")
	}
}
