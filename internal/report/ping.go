package report

import (
	"fmt"
	"time"

	"github.com/go-ping/ping"
)

// pingProbe sends a fixed-count ICMP probe and returns a small text block
// summarizing the result for the diagnostics section.
func pingProbe(target string, count int, timeout time.Duration) (string, error) {
	pinger, err := ping.NewPinger(target)
	if err != nil {
		return "", fmt.Errorf("create pinger: %w", err)
	}

	pinger.Count = count
	pinger.Timeout = timeout
	pinger.SetPrivileged(true)

	if err := pinger.Run(); err != nil {
		return "", fmt.Errorf("ping %s: %w", target, err)
	}

	stats := pinger.Statistics()
	return fmt.Sprintf(
		"target: %s\nsent: %d  received: %d  loss: %.1f%%\nrtt min/avg/max: %v / %v / %v\n",
		target, stats.PacketsSent, stats.PacketsRecv, stats.PacketLoss,
		stats.MinRtt, stats.AvgRtt, stats.MaxRtt,
	), nil
}
