// Package report assembles the consolidated shutdown diagnostic report.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/nkhalid/wifiwatch/internal/adapter"
	"github.com/rs/zerolog/log"
)

const timeFormat = "2006-01-02 15:04:05"

// Assembler writes the final report. It runs once, after both background
// loops have stopped, and is not cancellable: every section is attempted
// even when earlier ones partially fail. The only error it returns is a
// report file that cannot be created or written.
type Assembler struct {
	prober      adapter.Prober
	runner      CommandRunner
	logPath     string
	dir         string
	pingTarget  string
	pingCount   int
	pingTimeout time.Duration
	now         func() time.Time
}

func NewAssembler(prober adapter.Prober, runner CommandRunner, logPath, dir, pingTarget string, pingCount int) *Assembler {
	return &Assembler{
		prober:      prober,
		runner:      runner,
		logPath:     logPath,
		dir:         dir,
		pingTarget:  pingTarget,
		pingCount:   pingCount,
		pingTimeout: 10 * time.Second,
		now:         time.Now,
	}
}

// Assemble writes the report file and returns its path. Section order is
// fixed: header, system info, adapter inventory, diagnostics, full log.
func (a *Assembler) Assemble(ctx context.Context, sessionID string, start time.Time) (string, error) {
	now := a.now()
	path := filepath.Join(a.dir, "wifiwatch-report-"+now.Format("20060102-150405")+".txt")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	a.writeHeader(f, sessionID, start, now)
	a.writeSystemInfo(f)
	a.writeInventory(f)
	a.writeDiagnostics(ctx, f)
	a.writeLog(f)

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func (a *Assembler) writeHeader(w io.Writer, sessionID string, start, now time.Time) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " WiFi Watch Diagnostic Report")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Session:           %s\n", sessionID)
	fmt.Fprintf(w, "Generated:         %s\n", now.Format(timeFormat))
	fmt.Fprintf(w, "Monitoring period: %s -> %s\n\n", start.Format(timeFormat), now.Format(timeFormat))
}

func (a *Assembler) writeSystemInfo(w io.Writer) {
	fmt.Fprintln(w, "== System Information ==")

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "(unknown)"
	}
	fmt.Fprintf(w, "Host:       %s\n", hostname)
	fmt.Fprintf(w, "OS:         %s\n", osVersion())
	fmt.Fprintf(w, "CPUs:       %d\n", runtime.NumCPU())
	fmt.Fprintf(w, "Runtime:    %s %s/%s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func osVersion() string {
	raw, err := os.ReadFile("/proc/version")
	if err != nil {
		return runtime.GOOS
	}
	return strings.TrimSpace(string(raw))
}

func (a *Assembler) writeInventory(w io.Writer) {
	fmt.Fprintln(w, "== Adapter Inventory ==")

	recs, err := a.prober.List()
	if err != nil {
		fmt.Fprintf(w, "FAILED: adapter enumeration: %v\n\n", err)
		return
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "no adapters found")
	}
	for _, rec := range recs {
		fmt.Fprintf(w, "%s: %s [%s, %s, %d Mbps]\n",
			rec.Name, rec.Description, rec.Kind, rec.Status, rec.SpeedMbps)
		for _, addr := range rec.Addrs {
			fmt.Fprintf(w, "    addr %s/%d\n", addr.IP, addr.PrefixLen)
		}
		for _, dns := range rec.DNSServers {
			fmt.Fprintf(w, "    dns %s\n", dns)
		}
	}
	fmt.Fprintln(w)
}

func (a *Assembler) writeDiagnostics(ctx context.Context, w io.Writer) {
	fmt.Fprintln(w, "== Diagnostics ==")

	a.command(ctx, w, "Adapter configuration", "ip", "addr", "show")
	a.command(ctx, w, "WLAN interface status", "iw", "dev")
	a.command(ctx, w, "Visible wireless networks", "nmcli", "dev", "wifi", "list")
	a.pingSection(w)
	a.driverSection(ctx, w)
	a.command(ctx, w, "PCI devices", "lspci")
	a.command(ctx, w, "USB devices", "lsusb")
}

// command runs one diagnostic command under a labeled sub-section. A
// command that fails to start or errors becomes a single FAILED line and
// the remaining commands still run.
func (a *Assembler) command(ctx context.Context, w io.Writer, title, name string, args ...string) {
	fmt.Fprintf(w, "--- %s (%s) ---\n", title, name)

	out, err := a.runner.Run(ctx, name, args...)
	if err != nil {
		log.Warn().Err(err).Str("command", name).Msg("diagnostic command failed")
		fmt.Fprintf(w, "FAILED: %s: %v\n\n", name, err)
		return
	}
	fmt.Fprint(w, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func (a *Assembler) pingSection(w io.Writer) {
	fmt.Fprintf(w, "--- Connectivity probe (%s) ---\n", a.pingTarget)

	out, err := pingProbe(a.pingTarget, a.pingCount, a.pingTimeout)
	if err != nil {
		log.Warn().Err(err).Msg("connectivity probe failed")
		fmt.Fprintf(w, "FAILED: ping: %v\n\n", err)
		return
	}
	fmt.Fprint(w, out)
	fmt.Fprintln(w)
}

// driverSection dumps driver properties for the first wireless adapter.
func (a *Assembler) driverSection(ctx context.Context, w io.Writer) {
	name := a.wirelessName()
	if name == "" {
		fmt.Fprintln(w, "--- Adapter driver properties (ethtool) ---")
		fmt.Fprintf(w, "FAILED: ethtool: no wireless adapter found\n\n")
		return
	}
	a.command(ctx, w, "Adapter driver properties", "ethtool", "-i", name)
}

func (a *Assembler) wirelessName() string {
	recs, err := a.prober.List()
	if err != nil {
		return ""
	}
	for _, rec := range recs {
		if rec.Kind == adapter.KindWireless {
			return rec.Name
		}
	}
	return ""
}

func (a *Assembler) writeLog(w io.Writer) {
	fmt.Fprintln(w, "== Monitoring Log ==")

	raw, err := os.ReadFile(a.logPath)
	if err != nil {
		fmt.Fprintf(w, "FAILED: reading log %s: %v\n", a.logPath, err)
		return
	}
	w.Write(raw)
}
