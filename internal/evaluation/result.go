// Package evaluation holds an annotated variant and the filter results
// attached to it during an analysis run.
package evaluation

import (
	"fmt"
	"strings"
)

// FilterType identifies the filter that produced a Result. The declaration
// order is the order results are reported in.
type FilterType uint8

// Filter types.
const (
	FailedVariantFilter FilterType = iota + 1
	QualityFilter
	IntervalFilter
	BedFilter
	VariantEffectFilter
	KnownVariantFilter
	FrequencyFilter
	PathogenicityFilter
	RegulatoryFeatureFilter
	JointFailureFilter

	numFilterTypes
)

var filterTypeNames = [numFilterTypes]string{
	FailedVariantFilter:     "FAILED_VARIANT",
	QualityFilter:           "QUALITY",
	IntervalFilter:          "INTERVAL",
	BedFilter:               "BED",
	VariantEffectFilter:     "VARIANT_EFFECT",
	KnownVariantFilter:      "KNOWN_VARIANT",
	FrequencyFilter:         "FREQUENCY",
	PathogenicityFilter:     "PATHOGENICITY",
	RegulatoryFeatureFilter: "REGULATORY_FEATURE",
	JointFailureFilter:      "JOINT_FAILURE",
}

func (t FilterType) String() string {
	if t == 0 || t >= numFilterTypes {
		return "UNKNOWN"
	}
	return filterTypeNames[t]
}

// ParseFilterType parses a filter type name, case-insensitively.
func ParseFilterType(s string) (FilterType, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	up = strings.TrimSuffix(up, "_FILTER")
	for i := FilterType(1); i < numFilterTypes; i++ {
		if filterTypeNames[i] == up {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown filter type %q", s)
}

// FilterTypes returns every filter type in report order.
func FilterTypes() []FilterType {
	out := make([]FilterType, 0, numFilterTypes-1)
	for t := FilterType(1); t < numFilterTypes; t++ {
		out = append(out, t)
	}
	return out
}

// Status is the verdict of a filter.
type Status uint8

// Filter verdicts.
const (
	Pass Status = iota + 1
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one filter on one variant. The status is
// authoritative: a failing result may still carry a high score. Results are
// comparable values and may be used as map keys.
type Result struct {
	Type   FilterType
	Status Status
	Score  float32
}

// PassResult creates a passing result.
func PassResult(t FilterType, score float32) Result {
	return Result{Type: t, Status: Pass, Score: score}
}

// FailResult creates a failing result.
func FailResult(t FilterType, score float32) Result {
	return Result{Type: t, Status: Fail, Score: score}
}

// Passed reports whether the result passed.
func (r Result) Passed() bool {
	return r.Status == Pass
}

func (r Result) String() string {
	return fmt.Sprintf("%s=%s:%.4g", r.Type, r.Status, r.Score)
}

// Compare orders results by filter type, then status, then score.
func Compare(a, b Result) int {
	switch {
	case a.Type != b.Type:
		return cmp(a.Type, b.Type)
	case a.Status != b.Status:
		return cmp(a.Status, b.Status)
	default:
		return cmp(a.Score, b.Score)
	}
}

func cmp[T ~uint8 | ~float32](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
