// Package delta computes per-protocol-group inter-frame time statistics
// from an ordered sequence of decoded frame records.
package delta

import (
	"math"
	"sync"

	"pcapinspect/internal/model"
)

// Aggregate partitions the capture-ordered frames into protocol groups
// and computes each group's delta statistics. The implicit "All" group is
// always computed first, followed by the requested tags in the order
// given (duplicates and an explicit "All" are skipped). Groups share no
// state and are computed concurrently; each result carries its own error
// slot so one group's failure never affects the others.
func Aggregate(frames []*model.FrameRecord, tags []string) []model.GroupResult {
	ordered := []string{model.TagAll}
	seen := map[string]bool{model.TagAll: true}
	for _, tag := range tags {
		if !seen[tag] {
			seen[tag] = true
			ordered = append(ordered, tag)
		}
	}

	results := make([]model.GroupResult, len(ordered))
	var wg sync.WaitGroup
	wg.Add(len(ordered))
	for i, tag := range ordered {
		go func(i int, tag string) {
			defer wg.Done()
			results[i] = analyzeGroup(tag, partition(frames, tag))
		}(i, tag)
	}
	wg.Wait()

	return results
}

// partition selects the subsequence of frames matching the tag,
// preserving capture order.
func partition(frames []*model.FrameRecord, tag string) []*model.FrameRecord {
	if tag == model.TagAll {
		return frames
	}
	var group []*model.FrameRecord
	for _, f := range frames {
		if f.HasProtocol(tag) {
			group = append(group, f)
		}
	}
	return group
}

// analyzeGroup computes the delta statistics of one group. For a group of
// N frames exactly N-1 deltas exist, each the gap between two consecutive
// frames of the group's own ordering. The min and max extremes are
// attributed to the later frame of their pair, and ties keep the first
// occurrence in capture order.
func analyzeGroup(tag string, group []*model.FrameRecord) model.GroupResult {
	res := model.GroupResult{
		Tag:   tag,
		Stats: &model.DeltaStats{Group: tag, FrameCount: len(group)},
	}

	if len(group) == 0 {
		res.Err = &model.InputError{Group: tag, Err: model.ErrNoMatchingFrames}
		return res
	}

	for _, f := range group {
		if math.IsNaN(f.TimeRelative) {
			res.Err = &model.InputError{Group: tag, Err: model.ErrMissingTimestamp}
			return res
		}
	}

	// One frame is not an error: the count is reported and the deltas
	// are simply undefined.
	if len(group) < 2 {
		return res
	}

	var (
		sum      float64
		min, max *model.DeltaExtreme
	)
	for i := 1; i < len(group); i++ {
		prev, cur := group[i-1], group[i]
		d := cur.TimeRelative - prev.TimeRelative
		if d < 0 {
			res.Err = &model.InputError{Group: tag, Err: model.ErrNonMonotonic}
			return res
		}
		sum += d
		// Strict comparisons keep the earliest occurrence on ties.
		if min == nil || d < min.Value {
			min = &model.DeltaExtreme{Value: d, Time: cur.TimeRelative, Frame: cur.Index}
		}
		if max == nil || d > max.Value {
			max = &model.DeltaExtreme{Value: d, Time: cur.TimeRelative, Frame: cur.Index}
		}
	}

	res.Stats.DeltaCount = len(group) - 1
	res.Stats.Average = sum / float64(res.Stats.DeltaCount)
	res.Stats.Min = min
	res.Stats.Max = max
	return res
}
