// Package window analyzes advertised TCP window sizes and tracks the
// remaining unused receive window between two peers.
package window

import (
	"net"

	"pcapinspect/internal/model"
)

// Analyze scans the TCP frames of the sequence and reports the minimum
// and maximum advertised window together with a time-indexed series for
// plotting. Frames after stopTime are ignored when stopTime is positive.
// Returns nil when the sequence contains no TCP frames.
func Analyze(frames []*model.FrameRecord, stopTime float64) *model.WindowStats {
	stats := &model.WindowStats{
		Min: model.WindowExtreme{Size: int(^uint32(0) >> 1)},
	}
	for _, f := range frames {
		if !f.HasTCP {
			continue
		}
		if stopTime > 0 && f.TimeRelative > stopTime {
			break
		}
		// Strict comparisons keep the earliest frame on ties.
		if f.TCPWindow < stats.Min.Size {
			stats.Min = model.WindowExtreme{Size: f.TCPWindow, Time: f.TimeRelative, Frame: f.Index}
		}
		if f.TCPWindow > stats.Max.Size || stats.Max.Frame == 0 {
			stats.Max = model.WindowExtreme{Size: f.TCPWindow, Time: f.TimeRelative, Frame: f.Index}
		}
		stats.Series = append(stats.Series, model.SeriesPoint{
			Time:  f.TimeRelative,
			Value: float64(f.TCPWindow),
		})
	}
	if len(stats.Series) == 0 {
		return nil
	}
	return stats
}

// FilterConversation selects the TCP frames exchanged between exactly the
// two given peers, preserving capture order.
func FilterConversation(frames []*model.FrameRecord, ipA, ipB net.IP) []*model.FrameRecord {
	var out []*model.FrameRecord
	for _, f := range frames {
		if !f.HasTCP || f.SrcIP == nil || f.DstIP == nil {
			continue
		}
		ab := f.SrcIP.Equal(ipA) && f.DstIP.Equal(ipB)
		ba := f.SrcIP.Equal(ipB) && f.DstIP.Equal(ipA)
		if ab || ba {
			out = append(out, f)
		}
	}
	return out
}

// RemainingRx walks a two-peer TCP conversation and tracks each peer's
// remaining unused receive window: a peer's advertised window opens it,
// payload from the other peer consumes it. scaleA and scaleB apply RFC
// 1323 window scaling for captures that miss the handshake where the
// scale factors were exchanged (when the capture has the handshake the
// advertised values are already scaled). A sample whose remaining window
// is negative records the frame that last set that window.
func RemainingRx(frames []*model.FrameRecord, ipA, ipB net.IP, scaleA, scaleB int) (sideA, sideB []model.RemainingSample) {
	var (
		remainingA, remainingB int
		lastSetA, lastSetB     int
	)
	for _, f := range FilterConversation(frames, ipA, ipB) {
		if f.SrcIP.Equal(ipA) {
			remainingA = f.TCPWindow << scaleA
			remainingB -= f.TCPLen
			lastSetA = f.Index
		} else {
			remainingA -= f.TCPLen
			remainingB = f.TCPWindow << scaleB
			lastSetB = f.Index
		}
		sampleA := model.RemainingSample{Frame: f.Index, Remaining: remainingA}
		if lastSetA > 0 && remainingA < 0 {
			sampleA.NegativeSinceFrame = lastSetA
		}
		sampleB := model.RemainingSample{Frame: f.Index, Remaining: remainingB}
		if lastSetB > 0 && remainingB < 0 {
			sampleB.NegativeSinceFrame = lastSetB
		}
		sideA = append(sideA, sampleA)
		sideB = append(sideB, sampleB)
	}
	return sideA, sideB
}
