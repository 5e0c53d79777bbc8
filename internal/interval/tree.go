// Package interval provides a static overlap index over genomic intervals.
package interval

import "sort"

// Interval is a closed range [Start, End] carrying a value.
type Interval[T any] struct {
	Start int64
	End   int64
	Value T
}

// Tree provides O(log n + k) overlap queries using a sorted-slice approach.
// Intervals are loaded once and never modified after build, so a Tree is
// safe for concurrent queries.
type Tree[T any] struct {
	intervals []Interval[T]
	maxEnd    []int64 // maxEnd[i] = max(End) for intervals[:i+1]
}

// Build creates a tree from intervals. The input slice is not retained.
func Build[T any](intervals []Interval[T]) *Tree[T] {
	if len(intervals) == 0 {
		return &Tree[T]{}
	}

	sorted := make([]Interval[T], len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	// Prefix-max array so a backwards scan can stop once no earlier
	// interval can reach the query.
	maxEnd := make([]int64, len(sorted))
	maxEnd[0] = sorted[0].End
	for i := 1; i < len(sorted); i++ {
		maxEnd[i] = sorted[i].End
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &Tree[T]{intervals: sorted, maxEnd: maxEnd}
}

// Len returns the number of intervals.
func (t *Tree[T]) Len() int {
	return len(t.intervals)
}

// FindOverlaps returns the values of all intervals containing pos.
func (t *Tree[T]) FindOverlaps(pos int64) []T {
	return t.FindRange(pos, pos)
}

// FindRange returns the values of all intervals overlapping [start, end].
func (t *Tree[T]) FindRange(start, end int64) []T {
	if len(t.intervals) == 0 {
		return nil
	}

	// Candidates are intervals starting at or before end.
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].Start > end
	})

	var result []T
	for i := hi - 1; i >= 0; i-- {
		if t.maxEnd[i] < start {
			break
		}
		if t.intervals[i].End >= start {
			result = append(result, t.intervals[i].Value)
		}
	}
	return result
}

// Overlaps reports whether any interval overlaps [start, end].
func (t *Tree[T]) Overlaps(start, end int64) bool {
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].Start > end
	})
	for i := hi - 1; i >= 0; i-- {
		if t.maxEnd[i] < start {
			return false
		}
		if t.intervals[i].End >= start {
			return true
		}
	}
	return false
}
