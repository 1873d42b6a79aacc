package rate

import (
	"math"
	"testing"

	"pcapinspect/internal/engine/protocol"
	"pcapinspect/internal/model"
)

func TestAnalyze_CountsPerSlot(t *testing.T) {
	frames := []*model.FrameRecord{
		{Index: 1, TimeRelative: 0.0, HasTCP: true, TCPLen: 100},
		{Index: 2, TimeRelative: 0.5, HasTCP: true, TCPLen: 50, BGPTypes: []string{protocol.MsgUpdate}},
		{Index: 3, TimeRelative: 2.5, HasTCP: true, TCPLen: 200, BGPTypes: []string{protocol.MsgUpdate, protocol.MsgUpdate}},
		{Index: 4, TimeRelative: 3.9},
	}

	stats := Analyze(frames, 4, 0)
	if stats == nil {
		t.Fatal("expected rate stats")
	}
	if len(stats.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(stats.Slots))
	}

	// Totals across slots must match the raw counts.
	var frameTotal, byteTotal, updateTotal float64
	for _, s := range stats.Slots {
		frameTotal += s.FramesPerSec * stats.SlotWidth
		byteTotal += s.TCPBytesPerSec * stats.SlotWidth
		updateTotal += s.UpdatesPerSec * stats.SlotWidth
	}
	if math.Abs(frameTotal-4) > 1e-6 {
		t.Errorf("frame total %f, want 4", frameTotal)
	}
	if math.Abs(byteTotal-350) > 1e-6 {
		t.Errorf("byte total %f, want 350", byteTotal)
	}
	if math.Abs(updateTotal-3) > 1e-6 {
		t.Errorf("update total %f, want 3", updateTotal)
	}

	// Slot boundaries cover the capture exactly.
	if last := stats.Slots[3].EndTime; math.Abs(last-(3.9+0.000001)) > 1e-9 {
		t.Errorf("last slot should end at the capture end, got %f", last)
	}
}

func TestAnalyze_StopTimeCutsTail(t *testing.T) {
	frames := []*model.FrameRecord{
		{Index: 1, TimeRelative: 0.0},
		{Index: 2, TimeRelative: 1.0},
		{Index: 3, TimeRelative: 100.0},
	}

	stats := Analyze(frames, 2, 10.0)
	if stats == nil {
		t.Fatal("expected rate stats")
	}

	var total float64
	for _, s := range stats.Slots {
		total += s.FramesPerSec * stats.SlotWidth
	}
	if math.Abs(total-2) > 1e-6 {
		t.Errorf("frames past the cutoff must be excluded, counted %f", total)
	}
}

func TestAnalyze_StopTimeIsInclusive(t *testing.T) {
	frames := []*model.FrameRecord{
		{Index: 1, TimeRelative: 0.0},
		{Index: 2, TimeRelative: 10.0},
		{Index: 3, TimeRelative: 10.5},
	}

	stats := Analyze(frames, 2, 10.0)
	if stats == nil {
		t.Fatal("expected rate stats")
	}

	var total float64
	for _, s := range stats.Slots {
		total += s.FramesPerSec * stats.SlotWidth
	}
	if math.Abs(total-2) > 1e-6 {
		t.Errorf("a frame at exactly the cutoff must be counted, got %f frames", total)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	if stats := Analyze(nil, 4, 0); stats != nil {
		t.Errorf("expected nil stats for an empty sequence, got %+v", stats)
	}
}
