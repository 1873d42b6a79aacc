package inventory

import "strings"

// ouiVendors maps the first three octets of a MAC address to the
// registered organization. The table covers the vendors commonly seen in
// BGP captures; everything else reports as Unknown. Extend as needed from
// the IEEE OUI registry.
var ouiVendors = map[string]string{
	"00:1c:73": "Arista Networks",
	"28:99:3a": "Arista Networks",
	"74:83:ef": "Arista Networks",
	"00:00:0c": "Cisco Systems",
	"00:1b:54": "Cisco Systems",
	"58:97:1e": "Cisco Systems",
	"00:05:85": "Juniper Networks",
	"28:c0:da": "Juniper Networks",
	"00:0c:29": "VMware",
	"00:50:56": "VMware",
	"00:1b:21": "Intel Corporate",
	"a0:36:9f": "Intel Corporate",
	"00:14:22": "Dell",
	"f8:bc:12": "Dell",
	"08:00:27": "PCS Systemtechnik (VirtualBox)",
	"52:54:00": "QEMU/KVM",
}

// VendorName looks up the organization behind a MAC address by its OUI
// prefix, returning "Unknown" for unregistered or malformed addresses.
func VendorName(mac string) string {
	if len(mac) < 8 {
		return "Unknown"
	}
	if vendor, ok := ouiVendors[strings.ToLower(mac[:8])]; ok {
		return vendor
	}
	return "Unknown"
}
