// Generates a synthetic BGP-over-TCP capture for testing and demos: two
// peers exchanging Open, Keepalive and Update messages, ending with an
// End-of-RIB marker from the first peer.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const bgpPort = 179

func bgpMessage(msgType byte, length int) []byte {
	msg := make([]byte, length)
	for i := 0; i < 16; i++ {
		msg[i] = 0xFF
	}
	binary.BigEndian.PutUint16(msg[16:18], uint16(length))
	msg[18] = msgType
	return msg
}

func main() {
	outputFile := flag.String("o", "bgp_session.pcap", "Output pcap file path")
	updateCount := flag.Int("c", 100, "Number of Update messages to generate")
	flag.Parse()

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	pcapWriter := pcapgo.NewWriter(f)
	if err := pcapWriter.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		log.Fatalf("Failed to write pcap header: %v", err)
	}

	speaker := net.IP{10, 0, 0, 101}
	peer := net.IP{10, 0, 0, 100}
	speakerMAC := net.HardwareAddr{0x00, 0x1c, 0x73, 0x00, 0x00, 0x01}
	peerMAC := net.HardwareAddr{0x00, 0x00, 0x0c, 0x00, 0x00, 0x02}

	now := time.Now()
	written := 0

	write := func(src, dst net.IP, srcMAC, dstMAC net.HardwareAddr, srcPort, dstPort layers.TCPPort, payload []byte, at time.Time) {
		ethLayer := &layers.Ethernet{
			SrcMAC:       srcMAC,
			DstMAC:       dstMAC,
			EthernetType: layers.EthernetTypeIPv4,
		}
		ipLayer := &layers.IPv4{
			SrcIP:    src,
			DstIP:    dst,
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolTCP,
		}
		tcpLayer := &layers.TCP{
			SrcPort: srcPort,
			DstPort: dstPort,
			Seq:     rand.Uint32(),
			ACK:     true,
			Window:  14600,
		}
		tcpLayer.SetNetworkLayerForChecksum(ipLayer)

		buf := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{
			ComputeChecksums: true,
			FixLengths:       true,
		}
		if err := gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, tcpLayer, gopacket.Payload(payload)); err != nil {
			log.Fatalf("Failed to serialize layers: %v", err)
		}

		ci := gopacket.CaptureInfo{
			Timestamp:     at,
			CaptureLength: len(buf.Bytes()),
			Length:        len(buf.Bytes()),
		}
		if err := pcapWriter.WritePacket(ci, buf.Bytes()); err != nil {
			log.Fatalf("Failed to write packet: %v", err)
		}
		written++
	}

	// Session establishment: Open and Keepalive in both directions.
	write(speaker, peer, speakerMAC, peerMAC, bgpPort, 33021, bgpMessage(1, 29), now)
	write(peer, speaker, peerMAC, speakerMAC, 33021, bgpPort, bgpMessage(1, 29), now.Add(10*time.Millisecond))
	write(speaker, peer, speakerMAC, peerMAC, bgpPort, 33021, bgpMessage(4, 19), now.Add(20*time.Millisecond))
	write(peer, speaker, peerMAC, speakerMAC, 33021, bgpPort, bgpMessage(4, 19), now.Add(30*time.Millisecond))

	// Update burst from the speaker with jittered gaps.
	at := now.Add(50 * time.Millisecond)
	for i := 0; i < *updateCount; i++ {
		at = at.Add(time.Duration(rand.Intn(40)+1) * time.Millisecond)
		// Length 23 is reserved for the End-of-RIB marker; burst Updates
		// always carry at least one byte of path attributes.
		write(speaker, peer, speakerMAC, peerMAC, bgpPort, 33021, bgpMessage(2, 24+rand.Intn(59)), at)
	}

	// End-of-RIB: an Update of total length 23.
	write(speaker, peer, speakerMAC, peerMAC, bgpPort, 33021, bgpMessage(2, 23), at.Add(time.Second))

	log.Printf("Successfully generated %d packets into %s.", written, *outputFile)
}
