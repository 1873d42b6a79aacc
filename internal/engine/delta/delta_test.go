package delta

import (
	"errors"
	"math"
	"testing"

	"pcapinspect/internal/model"
)

func mkFrame(index int, t float64, tags ...string) *model.FrameRecord {
	return &model.FrameRecord{Index: index, TimeRelative: t, Protocols: tags}
}

func findGroup(t *testing.T, results []model.GroupResult, tag string) model.GroupResult {
	t.Helper()
	for _, r := range results {
		if r.Tag == tag {
			return r
		}
	}
	t.Fatalf("group %q not found in results", tag)
	return model.GroupResult{}
}

func TestAggregate_DeltaCountAndAverage(t *testing.T) {
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0),
		mkFrame(2, 0.5),
		mkFrame(3, 1.5),
		mkFrame(4, 4.5),
		mkFrame(5, 4.6),
	}

	all := findGroup(t, Aggregate(frames, nil), model.TagAll)
	if all.Err != nil {
		t.Fatalf("unexpected error for All group: %v", all.Err)
	}
	stats := all.Stats
	if stats.FrameCount != 5 {
		t.Errorf("expected frame count 5, got %d", stats.FrameCount)
	}
	if stats.DeltaCount != 4 {
		t.Errorf("expected 4 deltas for 5 frames, got %d", stats.DeltaCount)
	}

	// average * (N-1) must equal the delta sum.
	sum := 0.5 + 1.0 + 3.0 + 0.1
	if got := stats.Average * float64(stats.DeltaCount); math.Abs(got-sum) > 1e-9 {
		t.Errorf("average*deltaCount = %f, want %f", got, sum)
	}
	if stats.Min.Value != 0.1 || stats.Min.Frame != 5 || stats.Min.Time != 4.6 {
		t.Errorf("unexpected min: %+v", stats.Min)
	}
	if stats.Max.Value != 3.0 || stats.Max.Frame != 4 || stats.Max.Time != 4.5 {
		t.Errorf("unexpected max: %+v", stats.Max)
	}
	if stats.Min.Value > stats.Average || stats.Average > stats.Max.Value {
		t.Errorf("average %f outside [min %f, max %f]", stats.Average, stats.Min.Value, stats.Max.Value)
	}
}

func TestAggregate_GroupDeltasUseGroupOrdering(t *testing.T) {
	// The two BGP frames are not globally adjacent: their delta is the
	// gap between them, not the gap to interleaved frames.
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0, "BGP"),
		mkFrame(2, 1.0),
		mkFrame(3, 2.0),
		mkFrame(4, 5.0, "BGP"),
	}

	bgp := findGroup(t, Aggregate(frames, []string{"BGP"}), "BGP")
	if bgp.Err != nil {
		t.Fatalf("unexpected error: %v", bgp.Err)
	}
	if bgp.Stats.DeltaCount != 1 {
		t.Fatalf("expected 1 delta, got %d", bgp.Stats.DeltaCount)
	}
	if bgp.Stats.Min.Value != 5.0 || bgp.Stats.Max.Value != 5.0 {
		t.Errorf("expected group delta 5.0, got min %f max %f", bgp.Stats.Min.Value, bgp.Stats.Max.Value)
	}
	if bgp.Stats.Max.Frame != 4 || bgp.Stats.Max.Time != 5.0 {
		t.Errorf("extreme should report the later frame of the pair, got %+v", bgp.Stats.Max)
	}
}

func TestAggregate_TieBreakKeepsEarliest(t *testing.T) {
	// Two equal minimal deltas (0.5) and two equal maximal deltas (2.0).
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0),
		mkFrame(2, 0.5),
		mkFrame(3, 2.5),
		mkFrame(4, 3.0),
		mkFrame(5, 5.0),
	}

	all := findGroup(t, Aggregate(frames, nil), model.TagAll)
	if all.Stats.Min.Frame != 2 {
		t.Errorf("min tie should keep the earliest occurrence (frame 2), got frame %d", all.Stats.Min.Frame)
	}
	if all.Stats.Max.Frame != 3 {
		t.Errorf("max tie should keep the earliest occurrence (frame 3), got frame %d", all.Stats.Max.Frame)
	}
}

func TestAggregate_ZeroDeltaIsValid(t *testing.T) {
	frames := []*model.FrameRecord{
		mkFrame(1, 1.0),
		mkFrame(2, 1.0),
		mkFrame(3, 2.0),
	}

	all := findGroup(t, Aggregate(frames, nil), model.TagAll)
	if all.Err != nil {
		t.Fatalf("a zero delta must not be an error, got %v", all.Err)
	}
	if all.Stats.Min.Value != 0 {
		t.Errorf("expected min delta 0, got %f", all.Stats.Min.Value)
	}
}

func TestAggregate_InsufficientData(t *testing.T) {
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0, "BGP"),
		mkFrame(2, 1.0),
		mkFrame(3, 2.0),
	}

	bgp := findGroup(t, Aggregate(frames, []string{"BGP"}), "BGP")
	if bgp.Err != nil {
		t.Fatalf("a single-frame group is not an error, got %v", bgp.Err)
	}
	if bgp.Stats.FrameCount != 1 {
		t.Errorf("expected frame count 1, got %d", bgp.Stats.FrameCount)
	}
	if bgp.Stats.HasDeltas() {
		t.Errorf("a single-frame group must not report deltas: %+v", bgp.Stats)
	}
	if bgp.Stats.Min != nil || bgp.Stats.Max != nil {
		t.Errorf("min/max must be absent, not zero: %+v", bgp.Stats)
	}
}

func TestAggregate_NoMatchingFrames(t *testing.T) {
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0),
		mkFrame(2, 1.0),
	}

	results := Aggregate(frames, []string{"BGP"})
	bgp := findGroup(t, results, "BGP")
	if !errors.Is(bgp.Err, model.ErrNoMatchingFrames) {
		t.Errorf("expected ErrNoMatchingFrames, got %v", bgp.Err)
	}
	if bgp.Stats.FrameCount != 0 {
		t.Errorf("expected frame count 0, got %d", bgp.Stats.FrameCount)
	}
	var inputErr *model.InputError
	if !errors.As(bgp.Err, &inputErr) {
		t.Errorf("expected an InputError, got %T", bgp.Err)
	}

	// The failing group must not affect the others.
	all := findGroup(t, results, model.TagAll)
	if all.Err != nil || all.Stats.DeltaCount != 1 {
		t.Errorf("All group should be unaffected: err=%v stats=%+v", all.Err, all.Stats)
	}
}

func TestAggregate_NonMonotonicTimestamps(t *testing.T) {
	frames := []*model.FrameRecord{
		mkFrame(1, 5.0, "BGP"),
		mkFrame(2, 3.0, "BGP"),
		mkFrame(3, 10.0, "TCP"),
	}

	results := Aggregate(frames, []string{"BGP", "TCP"})

	bgp := findGroup(t, results, "BGP")
	if !errors.Is(bgp.Err, model.ErrNonMonotonic) {
		t.Errorf("expected ErrNonMonotonic for BGP group, got %v", bgp.Err)
	}
	if bgp.Stats.HasDeltas() {
		t.Errorf("no statistics may be reported for a failed group: %+v", bgp.Stats)
	}

	// The single-frame TCP group is untouched by the BGP failure.
	tcp := findGroup(t, results, "TCP")
	if tcp.Err != nil {
		t.Errorf("TCP group should be unaffected, got %v", tcp.Err)
	}
}

func TestAggregate_MissingTimestamp(t *testing.T) {
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0, "BGP"),
		mkFrame(2, math.NaN(), "BGP"),
	}

	bgp := findGroup(t, Aggregate(frames, []string{"BGP"}), "BGP")
	if !errors.Is(bgp.Err, model.ErrMissingTimestamp) {
		t.Errorf("expected ErrMissingTimestamp, got %v", bgp.Err)
	}
}

func TestAggregate_TagOrderIndependence(t *testing.T) {
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0, "BGP", "TCP"),
		mkFrame(2, 0.7, "TCP"),
		mkFrame(3, 1.1, "BGP"),
		mkFrame(4, 3.0, "BGP", "TCP"),
	}

	forward := Aggregate(frames, []string{"BGP", "TCP"})
	reversed := Aggregate(frames, []string{"TCP", "BGP"})

	for _, tag := range []string{model.TagAll, "BGP", "TCP"} {
		a := findGroup(t, forward, tag).Stats
		b := findGroup(t, reversed, tag).Stats
		if a.FrameCount != b.FrameCount || a.DeltaCount != b.DeltaCount || a.Average != b.Average {
			t.Errorf("group %q differs across request orders: %+v vs %+v", tag, a, b)
		}
	}
}

func TestAggregate_MultiTagFramesJoinEveryGroup(t *testing.T) {
	// A frame tagged both BGP and TCP contributes to both groups' delta
	// sequences independently.
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0, "BGP", "TCP"),
		mkFrame(2, 1.0, "BGP"),
		mkFrame(3, 2.0, "TCP"),
	}

	results := Aggregate(frames, []string{"BGP", "TCP"})
	if got := findGroup(t, results, "BGP").Stats.FrameCount; got != 2 {
		t.Errorf("expected BGP frame count 2, got %d", got)
	}
	if got := findGroup(t, results, "TCP").Stats.FrameCount; got != 2 {
		t.Errorf("expected TCP frame count 2, got %d", got)
	}
}

func TestAggregate_SubgroupExtremeCanMatchGlobal(t *testing.T) {
	// When the pair forming the capture-wide maximum gap is BGP-tagged on
	// both sides, the BGP group reports the same maximum.
	frames := []*model.FrameRecord{
		mkFrame(1, 0.0, "BGP"),
		mkFrame(2, 0.1),
		mkFrame(3, 0.2, "BGP"),
		mkFrame(4, 8.25, "BGP"),
		mkFrame(5, 8.3),
	}

	results := Aggregate(frames, []string{"BGP"})
	all := findGroup(t, results, model.TagAll).Stats
	bgp := findGroup(t, results, "BGP").Stats

	if all.Max.Value != bgp.Max.Value || all.Max.Frame != bgp.Max.Frame || all.Max.Time != bgp.Max.Time {
		t.Errorf("expected BGP max to coincide with global max: all=%+v bgp=%+v", all.Max, bgp.Max)
	}
	if bgp.Max.Frame != 4 {
		t.Errorf("expected max at frame 4, got %d", bgp.Max.Frame)
	}
}
