package config

import (
	"fmt"
	"net"
	"strings"
)

type deviceEntry struct {
	ip    net.IP
	net   *net.IPNet
	label string
}

// DeviceMap resolves source IP addresses to device labels. It is built
// once from the configuration and is immutable afterwards, so it can be
// shared across goroutines without locking.
type DeviceMap struct {
	entries []deviceEntry
}

// BuildDeviceMap parses the configured device definitions. An address may
// be a single IP or a CIDR prefix; single addresses take precedence over
// prefixes when both match.
func BuildDeviceMap(defs []DeviceDef) (*DeviceMap, error) {
	dm := &DeviceMap{}
	for _, def := range defs {
		label := def.Label
		if label == "" {
			label = def.Address
		}
		if strings.Contains(def.Address, "/") {
			_, ipNet, err := net.ParseCIDR(def.Address)
			if err != nil {
				return nil, fmt.Errorf("invalid device prefix %q: %w", def.Address, err)
			}
			dm.entries = append(dm.entries, deviceEntry{net: ipNet, label: label})
			continue
		}
		ip := net.ParseIP(def.Address)
		if ip == nil {
			return nil, fmt.Errorf("invalid device address %q", def.Address)
		}
		dm.entries = append(dm.entries, deviceEntry{ip: ip, label: label})
	}
	return dm, nil
}

// Resolve returns the label for the given source address.
func (dm *DeviceMap) Resolve(ip net.IP) (string, bool) {
	if dm == nil || ip == nil {
		return "", false
	}
	for _, e := range dm.entries {
		if e.ip != nil && e.ip.Equal(ip) {
			return e.label, true
		}
	}
	for _, e := range dm.entries {
		if e.net != nil && e.net.Contains(ip) {
			return e.label, true
		}
	}
	return "", false
}

// Labels returns the configured labels in definition order, without
// duplicates.
func (dm *DeviceMap) Labels() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, e := range dm.entries {
		if !seen[e.label] {
			seen[e.label] = true
			labels = append(labels, e.label)
		}
	}
	return labels
}
