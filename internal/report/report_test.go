package report

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/nkhalid/wifiwatch/internal/adapter"
)

type fakeProber struct {
	recs []adapter.Record
	err  error
}

func (f *fakeProber) Probe() (*adapter.Record, error) {
	return nil, f.err
}

func (f *fakeProber) List() ([]adapter.Record, error) {
	return f.recs, f.err
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, string, ...string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}

type cannedRunner struct {
	out map[string]string
}

func (c cannedRunner) Run(_ context.Context, name string, _ ...string) (string, error) {
	out, ok := c.out[name]
	if !ok {
		return "", errors.New("no such command")
	}
	return out, nil
}

func inventory() []adapter.Record {
	return []adapter.Record{
		{
			Name:       "wlan0",
			Kind:       adapter.KindWireless,
			Status:     adapter.StatusUp,
			SpeedMbps:  866,
			Addrs:      []adapter.Addr{{IP: net.ParseIP("192.168.1.7"), PrefixLen: 24}},
			DNSServers: []net.IP{net.ParseIP("1.1.1.1")},
		},
		{Name: "lo", Kind: adapter.KindLoopback, Status: adapter.StatusOther},
	}
}

func testAssembler(t *testing.T, prober adapter.Prober, runner CommandRunner, logPath string) *Assembler {
	t.Helper()
	a := NewAssembler(prober, runner, logPath, t.TempDir(), "192.0.2.1", 1)
	a.pingTimeout = 50 * time.Millisecond
	return a
}

func writeLogFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "monitor-*.log")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return f.Name()
}

func TestSectionsAlwaysInOrder(t *testing.T) {
	logPath := writeLogFile(t, "[2026-03-14 09:00:00] monitoring session started\n")
	a := testAssembler(t, &fakeProber{recs: inventory()}, failingRunner{}, logPath)

	path, err := a.Assemble(context.Background(), "session-1", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Assemble() err=%v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	report := string(raw)

	markers := []string{
		"WiFi Watch Diagnostic Report",
		"== System Information ==",
		"== Adapter Inventory ==",
		"== Diagnostics ==",
		"== Monitoring Log ==",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(report, marker)
		if idx < 0 {
			t.Fatalf("section %q missing\nreport:\n%s", marker, report)
		}
		if idx < last {
			t.Errorf("section %q out of order", marker)
		}
		last = idx
	}
}

func TestFailedCommandsAreLabeledInline(t *testing.T) {
	logPath := writeLogFile(t, "")
	a := testAssembler(t, &fakeProber{recs: inventory()}, failingRunner{}, logPath)

	path, err := a.Assemble(context.Background(), "session-1", time.Now())
	if err != nil {
		t.Fatalf("Assemble() err=%v", err)
	}
	raw, _ := os.ReadFile(path)
	report := string(raw)

	// every external command fails, yet every sub-section is present
	for _, title := range []string{
		"Adapter configuration",
		"WLAN interface status",
		"Visible wireless networks",
		"Adapter driver properties",
		"PCI devices",
		"USB devices",
	} {
		if !strings.Contains(report, "--- "+title) {
			t.Errorf("missing sub-section %q", title)
		}
	}
	if got := strings.Count(report, "FAILED:"); got < 6 {
		t.Errorf("expected at least 6 FAILED lines, got %d\nreport:\n%s", got, report)
	}
	// failures never stop the log from being appended last
	if !strings.Contains(report, "== Monitoring Log ==") {
		t.Error("log section missing")
	}
}

func TestCommandOutputEmbeddedVerbatim(t *testing.T) {
	logPath := writeLogFile(t, "[2026-03-14 09:00:00] WiFi DISCONNECTED!\n")
	runner := cannedRunner{out: map[string]string{
		"ip": "1: lo: <LOOPBACK,UP>\n2: wlan0: <BROADCAST,UP>\n",
	}}
	a := testAssembler(t, &fakeProber{recs: inventory()}, runner, logPath)

	path, err := a.Assemble(context.Background(), "session-1", time.Now())
	if err != nil {
		t.Fatalf("Assemble() err=%v", err)
	}
	raw, _ := os.ReadFile(path)
	report := string(raw)

	if !strings.Contains(report, "2: wlan0: <BROADCAST,UP>") {
		t.Error("ip output not embedded verbatim")
	}
	if !strings.Contains(report, "[2026-03-14 09:00:00] WiFi DISCONNECTED!") {
		t.Error("log contents not embedded verbatim")
	}
}

func TestInventoryListsAllAdapters(t *testing.T) {
	logPath := writeLogFile(t, "")
	a := testAssembler(t, &fakeProber{recs: inventory()}, failingRunner{}, logPath)

	path, err := a.Assemble(context.Background(), "session-1", time.Now())
	if err != nil {
		t.Fatalf("Assemble() err=%v", err)
	}
	raw, _ := os.ReadFile(path)
	report := string(raw)

	if !strings.Contains(report, "wlan0") || !strings.Contains(report, "lo") {
		t.Errorf("inventory incomplete:\n%s", report)
	}
	if !strings.Contains(report, "addr 192.168.1.7/24") {
		t.Error("adapter addresses missing from inventory")
	}
}

func TestMissingLogFileIsLabeledFailure(t *testing.T) {
	a := testAssembler(t, &fakeProber{recs: inventory()}, failingRunner{}, "/nonexistent/monitor.log")

	path, err := a.Assemble(context.Background(), "session-1", time.Now())
	if err != nil {
		t.Fatalf("Assemble() err=%v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "FAILED: reading log") {
		t.Error("unreadable log should be a labeled failure, not a missing section")
	}
}

func TestAssembleFailsOnlyWhenFileCannotBeCreated(t *testing.T) {
	a := NewAssembler(&fakeProber{}, failingRunner{}, "x.log", "/nonexistent/dir", "192.0.2.1", 1)
	if _, err := a.Assemble(context.Background(), "session-1", time.Now()); err == nil {
		t.Fatal("expected error when report directory does not exist")
	}
}
