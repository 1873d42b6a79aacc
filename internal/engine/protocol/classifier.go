package protocol

import (
	"fmt"
	"pcapinspect/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Protocol tags assigned by the classifier. Every frame additionally
// belongs to the implicit model.TagAll group.
const (
	TagIPv4      = "IPv4"
	TagIPv6      = "IPv6"
	TagTCP       = "TCP"
	TagBGP       = "BGP"
	TagBGPUpdate = "BGP Update"
)

// Classify extracts the fields of interest from a decoded packet and
// returns a frame record tagged with the protocols the frame matches.
// Index, relative time and device label are filled in by the caller.
func Classify(packet gopacket.Packet) (*model.FrameRecord, error) {
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, fmt.Errorf("packet decode failed: %w", errLayer.Error())
	}

	rec := &model.FrameRecord{
		Length: len(packet.Data()),
	}
	if meta := packet.Metadata(); meta != nil {
		rec.Timestamp = meta.Timestamp
		if meta.Length > 0 {
			rec.Length = meta.Length
		}
	}

	// Link layer. Captures taken on the Linux "any" device use SLL,
	// which carries only a source address.
	if l := packet.Layer(layers.LayerTypeEthernet); l != nil {
		eth := l.(*layers.Ethernet)
		rec.SrcMAC = eth.SrcMAC.String()
		rec.DstMAC = eth.DstMAC.String()
	} else if l := packet.Layer(layers.LayerTypeLinuxSLL); l != nil {
		sll := l.(*layers.LinuxSLL)
		rec.SrcMAC = sll.Addr.String()
	}

	// Network layer.
	if l := packet.Layer(layers.LayerTypeIPv4); l != nil {
		ip := l.(*layers.IPv4)
		rec.SrcIP = ip.SrcIP
		rec.DstIP = ip.DstIP
		rec.Protocols = append(rec.Protocols, TagIPv4)
	} else if l := packet.Layer(layers.LayerTypeIPv6); l != nil {
		ip := l.(*layers.IPv6)
		rec.SrcIP = ip.SrcIP
		rec.DstIP = ip.DstIP
		rec.Protocols = append(rec.Protocols, TagIPv6)
	}

	// Transport layer.
	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		rec.HasTCP = true
		rec.TCPSeq = tcp.Seq
		rec.TCPAck = tcp.Ack
		rec.TCPLen = len(tcp.Payload)
		rec.TCPWindow = int(tcp.Window)
		rec.Protocols = append(rec.Protocols, TagTCP)

		// gopacket has no BGP decoder, so BGP messages are parsed from
		// the TCP payload of port-179 traffic by hand.
		if len(tcp.Payload) > 0 && (tcp.SrcPort == BGPPort || tcp.DstPort == BGPPort) {
			types, hasEOR := ParseMessages(tcp.Payload)
			if len(types) > 0 {
				rec.BGPTypes = types
				rec.HasEOR = hasEOR
				rec.Protocols = append(rec.Protocols, TagBGP)
				for _, t := range types {
					if t == MsgUpdate {
						rec.Protocols = append(rec.Protocols, TagBGPUpdate)
						break
					}
				}
			}
		}
	}

	return rec, nil
}
