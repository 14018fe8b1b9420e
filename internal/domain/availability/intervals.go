package availability

import "sort"

// interval is a half-open [start,end) range in minutes since midnight.
type interval struct {
	start int
	end   int
}

func (iv interval) empty() bool { return iv.end <= iv.start }

// mergeIntervals unions a set of intervals into maximal non-overlapping
// intervals in ascending order. Touching intervals are coalesced.
func mergeIntervals(set []interval) []interval {
	if len(set) == 0 {
		return nil
	}
	sorted := make([]interval, 0, len(set))
	for _, iv := range set {
		if !iv.empty() {
			sorted = append(sorted, iv)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	merged := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// subtract removes cut from every interval in set. Cutting the middle of
// an interval splits it in two.
func subtract(set []interval, cut interval) []interval {
	if cut.empty() {
		return set
	}
	var out []interval
	for _, iv := range set {
		if cut.end <= iv.start || cut.start >= iv.end {
			out = append(out, iv)
			continue
		}
		if left := (interval{iv.start, cut.start}); !left.empty() {
			out = append(out, left)
		}
		if right := (interval{cut.end, iv.end}); !right.empty() {
			out = append(out, right)
		}
	}
	return out
}

// discretize chops each free interval into granularity-wide slots from
// its start. Partial remainders are dropped, never rounded.
func discretize(set []interval, granularity int) []interval {
	var slots []interval
	for _, iv := range set {
		for s := iv.start; s+granularity <= iv.end; s += granularity {
			slots = append(slots, interval{s, s + granularity})
		}
	}
	return slots
}

// containedIn reports whether want fits entirely inside a single free
// interval. Partial overlap is not containment.
func containedIn(set []interval, want interval) bool {
	for _, iv := range set {
		if want.start >= iv.start && want.end <= iv.end {
			return true
		}
	}
	return false
}
