package protocol

import "encoding/binary"

// BGPPort is the well-known BGP TCP port.
const BGPPort = 179

// BGP message type names, as rendered in reports.
const (
	MsgOpen         = "Open"
	MsgUpdate       = "Update"
	MsgNotification = "Notification"
	MsgKeepalive    = "Keepalive"
	MsgRouteRefresh = "Route-Refresh"
)

const (
	bgpMarkerLen = 16
	bgpHeaderLen = 19
	// An Update message of total length 23 carries no withdrawn routes,
	// no path attributes and no NLRI: it is an End-of-RIB marker.
	bgpEORLen = 23
)

var bgpMsgTypes = map[byte]string{
	1: MsgOpen,
	2: MsgUpdate,
	3: MsgNotification,
	4: MsgKeepalive,
	5: MsgRouteRefresh,
}

// ParseMessages walks the BGP messages packed into one TCP payload and
// returns their type names in wire order, plus whether any of them is an
// End-of-RIB marker. Parsing stops silently at the first malformed or
// truncated header, so a non-BGP payload simply yields no messages.
func ParseMessages(payload []byte) (types []string, hasEOR bool) {
	for len(payload) >= bgpHeaderLen {
		if !validMarker(payload[:bgpMarkerLen]) {
			break
		}
		length := int(binary.BigEndian.Uint16(payload[bgpMarkerLen : bgpMarkerLen+2]))
		if length < bgpHeaderLen || length > len(payload) {
			break
		}
		name, ok := bgpMsgTypes[payload[bgpMarkerLen+2]]
		if !ok {
			break
		}
		types = append(types, name)
		if name == MsgUpdate && length == bgpEORLen {
			hasEOR = true
		}
		payload = payload[length:]
	}
	return types, hasEOR
}

// validMarker checks the all-ones marker that starts every BGP message.
func validMarker(marker []byte) bool {
	for _, b := range marker {
		if b != 0xFF {
			return false
		}
	}
	return true
}
