package filter

import (
	"github.com/inodb/vibe-filter/internal/evaluation"
	"github.com/inodb/vibe-filter/internal/interval"
)

// Bed passes variants overlapping any target region.
type Bed struct {
	targets interval.Index[struct{}]
}

// NewBed creates a filter over the given regions.
func NewBed(regions []interval.Region) *Bed {
	return &Bed{targets: interval.BuildIndex(regions, func(interval.Region) struct{} { return struct{}{} })}
}

// LoadBed creates a filter from a BED file.
func LoadBed(path string) (*Bed, error) {
	regions, err := interval.LoadBED(path)
	if err != nil {
		return nil, err
	}
	return NewBed(regions), nil
}

// Len returns the number of target regions.
func (f *Bed) Len() int {
	return f.targets.Len()
}

func (*Bed) Type() evaluation.FilterType { return evaluation.BedFilter }

func (f *Bed) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	v := ev.Variant()
	if f.targets.Overlaps(v.Chrom, v.Pos, v.End()) {
		return evaluation.PassResult(f.Type(), 1)
	}
	return evaluation.FailResult(f.Type(), 0)
}
