package evaluation

import "slices"

// Results is a set of filter results keyed by filter type. A type appears at
// most once; setting a result for a type already present replaces it in place,
// keeping the original insertion position.
type Results struct {
	order  []FilterType
	byType map[FilterType]Result
}

// NewResults creates a result set from the given results. Later results
// replace earlier ones of the same type.
func NewResults(rs ...Result) *Results {
	out := &Results{}
	for _, r := range rs {
		out.Set(r)
	}
	return out
}

// Set adds r, replacing any existing result of the same type. It reports
// whether a previous result was replaced.
func (rs *Results) Set(r Result) bool {
	if rs.byType == nil {
		rs.byType = make(map[FilterType]Result)
	}
	_, replaced := rs.byType[r.Type]
	if !replaced {
		rs.order = append(rs.order, r.Type)
	}
	rs.byType[r.Type] = r
	return replaced
}

// Get returns the result for type t.
func (rs *Results) Get(t FilterType) (Result, bool) {
	r, ok := rs.byType[t]
	return r, ok
}

// Len returns the number of results.
func (rs *Results) Len() int {
	return len(rs.order)
}

// List returns the results in insertion order.
func (rs *Results) List() []Result {
	if len(rs.order) == 0 {
		return nil
	}
	out := make([]Result, len(rs.order))
	for i, t := range rs.order {
		out[i] = rs.byType[t]
	}
	return out
}

// Sorted returns the results ordered by filter type.
func (rs *Results) Sorted() []Result {
	out := rs.List()
	slices.SortFunc(out, Compare)
	return out
}

// Passed reports whether a passing result of type t is present.
func (rs *Results) Passed(t FilterType) bool {
	r, ok := rs.byType[t]
	return ok && r.Passed()
}

// Failed reports whether a failing result of type t is present.
func (rs *Results) Failed(t FilterType) bool {
	r, ok := rs.byType[t]
	return ok && !r.Passed()
}

// PassedAll reports whether every recorded result passed. An empty set
// passes.
func (rs *Results) PassedAll() bool {
	for _, r := range rs.byType {
		if !r.Passed() {
			return false
		}
	}
	return true
}

// FailedTypes returns the types of failing results in filter-type order.
func (rs *Results) FailedTypes() []FilterType {
	var out []FilterType
	for _, r := range rs.Sorted() {
		if !r.Passed() {
			out = append(out, r.Type)
		}
	}
	return out
}

func (rs *Results) clone() *Results {
	out := &Results{order: append([]FilterType(nil), rs.order...)}
	if rs.byType != nil {
		out.byType = make(map[FilterType]Result, len(rs.byType))
		for k, v := range rs.byType {
			out.byType[k] = v
		}
	}
	return out
}
