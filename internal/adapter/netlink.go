package adapter

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vishvananda/netlink"
)

// NetlinkProber reads adapter state from the kernel via netlink, with
// wireless detection and link speed from sysfs and DNS servers from
// resolv.conf.
type NetlinkProber struct {
	sysClassNet string
	resolvConf  string

	probed bool // first-probe info line already emitted
}

func NewNetlinkProber() *NetlinkProber {
	return &NetlinkProber{
		sysClassNet: "/sys/class/net",
		resolvConf:  "/etc/resolv.conf",
	}
}

func (p *NetlinkProber) List() ([]Record, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	dns := p.dnsServers()

	recs := make([]Record, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()

		rec := Record{
			Name:        attrs.Name,
			Description: p.describe(link),
			Kind:        p.kindOf(link),
			Status:      statusOf(attrs.OperState),
			SpeedMbps:   p.speedOf(attrs.Name),
			DNSServers:  dns,
		}

		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			log.Warn().Err(err).Str("adapter", attrs.Name).Msg("listing addresses failed")
		}
		for _, a := range addrs {
			if a.IPNet == nil {
				continue
			}
			ones, _ := a.IPNet.Mask.Size()
			rec.Addrs = append(rec.Addrs, Addr{IP: a.IPNet.IP, PrefixLen: ones})
		}

		routes, err := netlink.RouteList(link, netlink.FAMILY_V4)
		if err != nil {
			log.Warn().Err(err).Str("adapter", attrs.Name).Msg("listing routes failed")
		}
		for _, r := range routes {
			if r.Dst == nil && r.Gw != nil {
				rec.Gateways = append(rec.Gateways, r.Gw)
			}
		}

		recs = append(recs, rec)
	}
	return recs, nil
}

func (p *NetlinkProber) Probe() (*Record, error) {
	recs, err := p.List()
	if err != nil {
		return nil, err
	}

	wireless := 0
	var active *Record
	for i := range recs {
		if recs[i].Kind != KindWireless {
			continue
		}
		wireless++
		if active == nil && recs[i].Status == StatusUp {
			active = &recs[i]
		}
	}

	if !p.probed || wireless == 0 {
		log.Info().Int("wireless_adapters", wireless).Msg("wireless adapter count")
		p.probed = true
	}

	if active == nil {
		return nil, nil
	}
	out := *active
	return &out, nil
}

func (p *NetlinkProber) kindOf(link netlink.Link) Kind {
	attrs := link.Attrs()
	if attrs.Flags&net.FlagLoopback != 0 {
		return KindLoopback
	}
	// The kernel exposes a wireless/ directory only for 802.11 devices.
	if _, err := os.Stat(filepath.Join(p.sysClassNet, attrs.Name, "wireless")); err == nil {
		return KindWireless
	}
	if attrs.EncapType == "ether" {
		return KindEthernet
	}
	return KindOther
}

func (p *NetlinkProber) describe(link netlink.Link) string {
	attrs := link.Attrs()
	if attrs.Alias != "" {
		return attrs.Alias
	}
	return fmt.Sprintf("%s/%s device", link.Type(), attrs.EncapType)
}

func statusOf(state netlink.LinkOperState) Status {
	switch state {
	case netlink.OperUp:
		return StatusUp
	case netlink.OperDown:
		return StatusDown
	default:
		return StatusOther
	}
}

// speedOf reads the sysfs link speed in Mbps. Wireless drivers often
// report -1 here; treat anything unreadable or negative as unknown (0).
func (p *NetlinkProber) speedOf(name string) int {
	raw, err := os.ReadFile(filepath.Join(p.sysClassNet, name, "speed"))
	if err != nil {
		return 0
	}
	speed, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || speed < 0 {
		return 0
	}
	return speed
}

// dnsServers parses nameserver lines from resolv.conf. Failures mean an
// empty list, never an error: DNS detail is decoration on the record.
func (p *NetlinkProber) dnsServers() []net.IP {
	f, err := os.Open(p.resolvConf)
	if err != nil {
		return nil
	}
	defer f.Close()

	var servers []net.IP
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "nameserver" {
			if ip := net.ParseIP(fields[1]); ip != nil {
				servers = append(servers, ip)
			}
		}
	}
	return servers
}
