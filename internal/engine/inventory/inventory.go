// Package inventory derives address associations from a decoded capture:
// which source IPs were seen behind each source MAC and vice versa.
package inventory

import (
	"sort"

	"pcapinspect/internal/model"
)

// SourceMACs returns every unique source MAC address with its OUI vendor
// and the sorted set of source IPs observed behind it.
func SourceMACs(frames []*model.FrameRecord) []model.MACEntry {
	ips := make(map[string]map[string]bool)
	for _, f := range frames {
		if f.SrcMAC == "" {
			continue
		}
		set, ok := ips[f.SrcMAC]
		if !ok {
			set = make(map[string]bool)
			ips[f.SrcMAC] = set
		}
		if f.SrcIP != nil {
			set[f.SrcIP.String()] = true
		}
	}

	entries := make([]model.MACEntry, 0, len(ips))
	for mac, set := range ips {
		entries = append(entries, model.MACEntry{
			MAC:    mac,
			Vendor: VendorName(mac),
			IPs:    sortedKeys(set),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MAC < entries[j].MAC })
	return entries
}

// SourceIPs returns every unique source IP address with the sorted set of
// MACs it was seen from.
func SourceIPs(frames []*model.FrameRecord) []model.IPEntry {
	macs := make(map[string]map[string]bool)
	for _, f := range frames {
		if f.SrcIP == nil {
			continue
		}
		ip := f.SrcIP.String()
		set, ok := macs[ip]
		if !ok {
			set = make(map[string]bool)
			macs[ip] = set
		}
		if f.SrcMAC != "" {
			set[f.SrcMAC] = true
		}
	}

	entries := make([]model.IPEntry, 0, len(macs))
	for ip, set := range macs {
		entries = append(entries, model.IPEntry{IP: ip, MACs: sortedKeys(set)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].IP < entries[j].IP })
	return entries
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
