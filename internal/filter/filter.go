// Package filter implements variant filters and the pipeline that runs them.
package filter

import (
	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/effect"
	"github.com/inodb/vibe-filter/internal/evaluation"
)

// Filter evaluates one aspect of an annotated variant. Evaluate must not
// modify the evaluation; the pipeline records the returned result.
type Filter interface {
	Type() evaluation.FilterType
	Evaluate(ev *evaluation.Evaluation) evaluation.Result
}

// FailedVariant fails variants whose VCF FILTER column is neither PASS nor ".".
type FailedVariant struct{}

func (FailedVariant) Type() evaluation.FilterType { return evaluation.FailedVariantFilter }

func (f FailedVariant) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	if ev.Variant().PassedVCFFilter() {
		return evaluation.PassResult(f.Type(), 1)
	}
	return evaluation.FailResult(f.Type(), 0)
}

// Quality fails variants with a QUAL below Min.
type Quality struct {
	Min float64
}

func (Quality) Type() evaluation.FilterType { return evaluation.QualityFilter }

func (f Quality) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	if ev.Variant().Qual >= f.Min {
		return evaluation.PassResult(f.Type(), 1)
	}
	return evaluation.FailResult(f.Type(), 0)
}

// Interval passes variants overlapping a single region [Start, End] (1-based,
// inclusive) on Chrom.
type Interval struct {
	Chrom string
	Start int64
	End   int64
}

func (Interval) Type() evaluation.FilterType { return evaluation.IntervalFilter }

func (f Interval) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	v := ev.Variant()
	if allele.NormalizeChrom(v.Chrom) == allele.NormalizeChrom(f.Chrom) &&
		v.Pos <= f.End && v.End() >= f.Start {
		return evaluation.PassResult(f.Type(), 1)
	}
	return evaluation.FailResult(f.Type(), 0)
}

// VariantEffect fails variants whose effect is in Exclude.
type VariantEffect struct {
	Exclude map[effect.VariantEffect]struct{}
}

// NewVariantEffect creates a filter excluding the given effects.
func NewVariantEffect(exclude ...effect.VariantEffect) VariantEffect {
	m := make(map[effect.VariantEffect]struct{}, len(exclude))
	for _, e := range exclude {
		m[e] = struct{}{}
	}
	return VariantEffect{Exclude: m}
}

func (VariantEffect) Type() evaluation.FilterType { return evaluation.VariantEffectFilter }

func (f VariantEffect) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	if _, ok := f.Exclude[ev.Effect()]; ok {
		return evaluation.FailResult(f.Type(), 0)
	}
	return evaluation.PassResult(f.Type(), 1)
}

// KnownVariant fails variants observed in any frequency database.
type KnownVariant struct{}

func (KnownVariant) Type() evaluation.FilterType { return evaluation.KnownVariantFilter }

func (f KnownVariant) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	if ev.FrequencyData().IsRepresentedInDatabase() {
		return evaluation.FailResult(f.Type(), 0)
	}
	return evaluation.PassResult(f.Type(), 1)
}

// Frequency fails variants whose maximum population frequency, as a
// percentage, exceeds MaxFreq. The score is the frequency score either way.
type Frequency struct {
	MaxFreq float32
}

func (Frequency) Type() evaluation.FilterType { return evaluation.FrequencyFilter }

func (f Frequency) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	fd := ev.FrequencyData()
	if fd.MaxFreq() > f.MaxFreq {
		return evaluation.FailResult(f.Type(), fd.Score())
	}
	return evaluation.PassResult(f.Type(), fd.Score())
}

// Pathogenicity passes variants whose most pathogenic normalised score is at
// least Cutoff, and any variant ClinVar classifies as pathogenic or likely
// pathogenic. With KeepNonPathogenic every variant passes and only the score
// is reported.
type Pathogenicity struct {
	Cutoff            float32
	KeepNonPathogenic bool
}

func (Pathogenicity) Type() evaluation.FilterType { return evaluation.PathogenicityFilter }

func (f Pathogenicity) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	pd := ev.PathogenicityData()

	var score float32
	if best, ok := pd.MostPathogenicScore(); ok {
		score = best.Normalized()
	}
	if cv, ok := pd.ClinVar(); ok && cv.IsPathogenicOrLikelyPathogenic() {
		return evaluation.PassResult(f.Type(), 1)
	}
	if f.KeepNonPathogenic || score >= f.Cutoff {
		return evaluation.PassResult(f.Type(), score)
	}
	return evaluation.FailResult(f.Type(), score)
}

// RegulatoryFeature fails variants outside any regulatory feature whose
// effect is intergenic, upstream, downstream or unclassified. Genic effects
// pass.
type RegulatoryFeature struct{}

func (RegulatoryFeature) Type() evaluation.FilterType { return evaluation.RegulatoryFeatureFilter }

func (f RegulatoryFeature) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	switch ev.Effect() {
	case effect.IntergenicVariant, effect.UpstreamGeneVariant, effect.DownstreamGeneVariant, effect.SequenceVariant:
		return evaluation.FailResult(f.Type(), 0)
	}
	return evaluation.PassResult(f.Type(), 1)
}

// JointFailure fails a variant when every one of Types has already failed.
// It reads results recorded earlier in the run, so it belongs at the end of
// a pipeline. A type with no recorded result does not count as failed.
type JointFailure struct {
	Types []evaluation.FilterType
}

func (JointFailure) Type() evaluation.FilterType { return evaluation.JointFailureFilter }

func (f JointFailure) Evaluate(ev *evaluation.Evaluation) evaluation.Result {
	if len(f.Types) == 0 {
		return evaluation.PassResult(f.Type(), 1)
	}
	rs := ev.Results()
	for _, t := range f.Types {
		if !rs.Failed(t) {
			return evaluation.PassResult(f.Type(), 1)
		}
	}
	return evaluation.FailResult(f.Type(), 0)
}
