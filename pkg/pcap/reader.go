// Package pcap decodes capture files into ordered frame records.
package pcap

import (
	"pcapinspect/internal/config"
	"pcapinspect/internal/engine/protocol"
	"pcapinspect/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// Reader reads frames from a pcap file.
type Reader struct {
	path   string
	handle *pcap.Handle
}

// NewReader opens the given capture file. Open failures are reported as
// a DecodeError.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, &model.DecodeError{Path: filePath, Err: err}
	}
	return &Reader{path: filePath, handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadFrames decodes the entire capture into frame records, assigning
// 1-based indices and timestamps relative to the first frame, and
// annotating each record with its source device label. Any packet that
// fails to decode aborts the read with a DecodeError: no partial frame
// sequence is returned.
func (r *Reader) ReadFrames(devices *config.DeviceMap) ([]*model.FrameRecord, error) {
	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())

	var frames []*model.FrameRecord
	for packet := range packetSource.Packets() {
		rec, err := protocol.Classify(packet)
		if err != nil {
			return nil, &model.DecodeError{Path: r.path, Err: err}
		}
		rec.Index = len(frames) + 1
		if len(frames) == 0 {
			rec.TimeRelative = 0
		} else {
			rec.TimeRelative = rec.Timestamp.Sub(frames[0].Timestamp).Seconds()
		}
		if label, ok := devices.Resolve(rec.SrcIP); ok {
			rec.Device = label
		}
		frames = append(frames, rec)
	}
	return frames, nil
}
