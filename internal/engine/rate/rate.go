// Package rate buckets a frame sequence into fixed time slots and
// derives per-second frame, TCP byte and BGP Update rates.
package rate

import (
	"pcapinspect/internal/engine/protocol"
	"pcapinspect/internal/model"
)

// Analyze splits the capture interval into numSlots equal slots and
// counts frames, TCP payload bytes and BGP Update messages per slot,
// normalized to per-second rates. Frames after stopTime are ignored when
// stopTime is positive. Returns nil for an empty sequence.
func Analyze(frames []*model.FrameRecord, numSlots int, stopTime float64) *model.RateStats {
	if len(frames) == 0 || numSlots <= 0 {
		return nil
	}

	lastTime := frames[0].TimeRelative
	lastIndex := frames[0].Index
	for _, f := range frames {
		if stopTime > 0 && f.TimeRelative > stopTime {
			break
		}
		lastTime = f.TimeRelative
		lastIndex = f.Index
	}

	// One extra microsecond so the last frame lands inside the last slot
	// instead of one past it.
	end := lastTime + 0.000001
	slotWidth := end / float64(numSlots)

	frameCounts := make([]int, numSlots)
	byteCounts := make([]int, numSlots)
	updateCounts := make([]int, numSlots)
	for _, f := range frames {
		if f.Index > lastIndex {
			break
		}
		i := int(f.TimeRelative / slotWidth)
		if i < 0 || i >= numSlots {
			continue
		}
		frameCounts[i]++
		if f.HasTCP {
			byteCounts[i] += f.TCPLen
		}
		for _, t := range f.BGPTypes {
			if t == protocol.MsgUpdate {
				updateCounts[i]++
			}
		}
	}

	stats := &model.RateStats{
		SlotWidth: slotWidth,
		Slots:     make([]model.RateSlot, numSlots),
	}
	for i := 0; i < numSlots; i++ {
		stats.Slots[i] = model.RateSlot{
			EndTime:        float64(i+1) * slotWidth,
			FramesPerSec:   float64(frameCounts[i]) / slotWidth,
			TCPBytesPerSec: float64(byteCounts[i]) / slotWidth,
			UpdatesPerSec:  float64(updateCounts[i]) / slotWidth,
		}
	}
	return stats
}
