package evaluation

import (
	"sync"

	"github.com/inodb/vibe-filter/internal/effect"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
	"github.com/inodb/vibe-filter/internal/vcf"
)

// FilterStatus summarises the results recorded on an evaluation.
type FilterStatus uint8

// Overall filter states.
const (
	Unfiltered FilterStatus = iota
	Passed
	Failed
)

func (s FilterStatus) String() string {
	switch s {
	case Passed:
		return "PASSED"
	case Failed:
		return "FAILED"
	default:
		return "UNFILTERED"
	}
}

// Evaluation is a variant together with its annotations and the filter
// results recorded against it. The annotations are fixed at construction;
// only the result set changes, through Record.
type Evaluation struct {
	variant       vcf.Variant
	frequency     frequency.Data
	pathogenicity pathogenicity.Data
	effect        effect.VariantEffect

	mu      sync.Mutex
	results *Results
	runs    map[FilterType]string
}

// Variant returns the evaluated variant.
func (e *Evaluation) Variant() vcf.Variant { return e.variant }

// FrequencyData returns the frequency annotations.
func (e *Evaluation) FrequencyData() frequency.Data { return e.frequency }

// PathogenicityData returns the pathogenicity annotations.
func (e *Evaluation) PathogenicityData() pathogenicity.Data { return e.pathogenicity }

// Effect returns the variant effect classification.
func (e *Evaluation) Effect() effect.VariantEffect { return e.effect }

// Record stores r as the result of its filter type for run runID. A second
// result of the same type within the same run is a *MisuseError. A result
// from a new run replaces the result of the previous run.
func (e *Evaluation) Record(runID string, r Result) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.runs[r.Type]; ok && prev == runID {
		existing, _ := e.results.Get(r.Type)
		return &MisuseError{
			RunID:    runID,
			Variant:  e.variant.Key().String(),
			Type:     r.Type,
			Existing: existing,
		}
	}
	if e.runs == nil {
		e.runs = make(map[FilterType]string)
	}
	e.runs[r.Type] = runID
	e.results.Set(r)
	return nil
}

// Results returns a snapshot of the recorded results.
func (e *Evaluation) Results() *Results {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results.clone()
}

// Result returns the recorded result for type t.
func (e *Evaluation) Result(t FilterType) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results.Get(t)
}

// Status returns UNFILTERED when no results are recorded, FAILED when any
// result failed and PASSED otherwise.
func (e *Evaluation) Status() FilterStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.results.Len() == 0:
		return Unfiltered
	case e.results.PassedAll():
		return Passed
	default:
		return Failed
	}
}

// Builder assembles an Evaluation.
type Builder struct {
	variant       vcf.Variant
	frequency     frequency.Data
	pathogenicity pathogenicity.Data
	effect        effect.VariantEffect
	results       []Result
}

// NewBuilder starts an evaluation of v with empty annotations.
func NewBuilder(v vcf.Variant) *Builder {
	return &Builder{
		variant:       v,
		frequency:     frequency.Empty(),
		pathogenicity: pathogenicity.Empty(),
		effect:        effect.SequenceVariant,
	}
}

func (b *Builder) FrequencyData(d frequency.Data) *Builder {
	b.frequency = d
	return b
}

func (b *Builder) PathogenicityData(d pathogenicity.Data) *Builder {
	b.pathogenicity = d
	return b
}

func (b *Builder) Effect(ve effect.VariantEffect) *Builder {
	if ve == "" {
		ve = effect.SequenceVariant
	}
	b.effect = ve
	return b
}

// Results seeds the evaluation with results from an earlier analysis. They
// belong to no run and may be overwritten by any run.
func (b *Builder) Results(rs ...Result) *Builder {
	b.results = append(b.results, rs...)
	return b
}

// Build returns the evaluation. The builder may be reused.
func (b *Builder) Build() *Evaluation {
	return &Evaluation{
		variant:       b.variant,
		frequency:     b.frequency,
		pathogenicity: b.pathogenicity,
		effect:        b.effect,
		results:       NewResults(b.results...),
	}
}
