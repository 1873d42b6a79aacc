package model

import (
	"net"
	"time"
)

// TagAll is the implicit protocol group that every frame belongs to.
const TagAll = "All"

// FrameRecord holds the metadata extracted from a single decoded frame.
// Records are immutable after decoding; their ordering by Index matches
// capture order.
type FrameRecord struct {
	// Timestamp is the absolute capture time of the frame.
	Timestamp time.Time
	// TimeRelative is the time in seconds since the first frame of the
	// capture.
	TimeRelative float64
	// Index is the 1-based ordinal position of the frame in the capture.
	Index  int
	Length int

	SrcMAC string
	DstMAC string
	SrcIP  net.IP
	DstIP  net.IP

	HasTCP    bool
	TCPSeq    uint32
	TCPAck    uint32
	TCPLen    int
	TCPWindow int

	// BGPTypes lists the BGP message types carried by the frame, in wire
	// order. A single frame can carry several BGP messages.
	BGPTypes []string
	// HasEOR is set when one of the BGP messages is an End-of-RIB marker.
	HasEOR bool

	// Protocols is the set of protocol tags the frame matches. The "All"
	// tag is implicit and not stored.
	Protocols []string

	// Device is the label resolved from the configured IP-to-label
	// mapping for the frame's source address, if any.
	Device string
}

// HasProtocol reports whether the frame belongs to the given protocol
// group. Every frame belongs to the "All" group.
func (f *FrameRecord) HasProtocol(tag string) bool {
	if tag == TagAll {
		return true
	}
	for _, p := range f.Protocols {
		if p == tag {
			return true
		}
	}
	return false
}

// DeltaExtreme records one extreme inter-frame delta together with the
// relative timestamp and capture index of the later frame of the pair.
type DeltaExtreme struct {
	Value float64
	Time  float64
	Frame int
}

// DeltaStats summarizes the inter-frame time deltas of one protocol group.
// A group of N frames has exactly N-1 deltas; a group with fewer than two
// frames carries only FrameCount and reports no average or extremes.
type DeltaStats struct {
	Group      string
	FrameCount int
	DeltaCount int
	Average    float64
	Min        *DeltaExtreme
	Max        *DeltaExtreme
}

// HasDeltas reports whether the group had enough frames for min, max and
// average to be defined.
func (s *DeltaStats) HasDeltas() bool {
	return s != nil && s.DeltaCount > 0
}

// GroupResult pairs a group's statistics with its per-group error. A
// group-level InputError never aborts the other groups.
type GroupResult struct {
	Tag   string
	Stats *DeltaStats
	Err   error
}

// WindowExtreme records one extreme TCP window size observation.
type WindowExtreme struct {
	Size  int
	Time  float64
	Frame int
}

// SeriesPoint is one sample of a time-indexed data series handed to the
// external plotting collaborator.
type SeriesPoint struct {
	Time  float64
	Value float64
}

// WindowStats summarizes TCP window size observations for one device.
type WindowStats struct {
	Min    WindowExtreme
	Max    WindowExtreme
	Series []SeriesPoint
}

// RemainingSample tracks the remaining unused receive window of a peer at
// one frame. NegativeSinceFrame is the frame that last set the window
// size when the remaining window is negative, and zero otherwise.
type RemainingSample struct {
	Frame              int
	Remaining          int
	NegativeSinceFrame int
}

// ConversationReport holds the remaining-receive-window samples of one
// two-peer TCP conversation, one sample series per peer. SideA tracks
// PeerA's receive window and SideB tracks PeerB's.
type ConversationReport struct {
	PeerA string
	PeerB string
	SideA []RemainingSample
	SideB []RemainingSample
}

// RateSlot is one time slot of the per-second rate analysis.
type RateSlot struct {
	EndTime        float64
	FramesPerSec   float64
	TCPBytesPerSec float64
	UpdatesPerSec  float64
}

// RateStats holds the per-slot rate series for one device.
type RateStats struct {
	SlotWidth float64
	Slots     []RateSlot
}

// MACEntry associates a source MAC address with the source IPs seen
// behind it.
type MACEntry struct {
	MAC    string
	Vendor string
	IPs    []string
}

// IPEntry associates a source IP address with the MACs it was seen from.
type IPEntry struct {
	IP   string
	MACs []string
}

// EORInfo locates the first BGP End-of-RIB marker sent by a device.
type EORInfo struct {
	Frame int
	Time  float64
}

// DeviceReport holds the results of every analysis for one device.
type DeviceReport struct {
	Device   string
	SourceIP string
	EOR      *EORInfo
	Deltas   []GroupResult
	Window   *WindowStats
	Rate     *RateStats
}

// Report is the full output of one analysis run over a capture. It is the
// payload handed to writers, the publisher and the API.
type Report struct {
	Capture      string
	GeneratedAt  time.Time
	FrameCount   int
	MACs         []MACEntry
	IPs          []IPEntry
	Devices      []*DeviceReport
	Conversation *ConversationReport
}
