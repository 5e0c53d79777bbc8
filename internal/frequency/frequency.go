package frequency

import (
	"math"
	"sort"
)

// AlleleCounts carries the allele count context a frequency was derived from.
type AlleleCounts struct {
	AC  int // alternate allele count
	AN  int // total allele number
	Hom int // homozygote count
}

// Frequency is the frequency of an allele in one source, expressed as a
// percentage (0.7 means 0.7%).
type Frequency struct {
	Source Source
	Value  float32
	Counts *AlleleCounts // nil when the store only recorded a frequency
}

// Of creates a Frequency without allele count context.
func Of(source Source, value float32) Frequency {
	return Frequency{Source: source, Value: value}
}

// OfCounts creates a Frequency from allele counts. The value is 100*ac/an,
// or 0 when an is 0.
func OfCounts(source Source, ac, an, hom int) Frequency {
	var value float32
	if an > 0 {
		value = float32(100 * float64(ac) / float64(an))
	}
	return Frequency{
		Source: source,
		Value:  value,
		Counts: &AlleleCounts{AC: ac, AN: an, Hom: hom},
	}
}

// Data is the set of frequencies known for one variant, at most one per source.
type Data struct {
	freqs []Frequency // sorted by Source
}

// Empty returns Data with no frequencies.
func Empty() Data {
	return Data{}
}

// NewData builds Data from frequencies. When a source appears more than once
// the last value wins.
func NewData(freqs ...Frequency) Data {
	if len(freqs) == 0 {
		return Data{}
	}
	bySource := make(map[Source]Frequency, len(freqs))
	for _, f := range freqs {
		bySource[f.Source] = f
	}
	out := make([]Frequency, 0, len(bySource))
	for _, f := range bySource {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return Data{freqs: out}
}

// IsEmpty reports whether no frequency is known.
func (d Data) IsEmpty() bool {
	return len(d.freqs) == 0
}

// Size returns the number of frequencies.
func (d Data) Size() int {
	return len(d.freqs)
}

// Frequencies returns a copy of the frequencies in canonical source order.
func (d Data) Frequencies() []Frequency {
	if len(d.freqs) == 0 {
		return nil
	}
	out := make([]Frequency, len(d.freqs))
	copy(out, d.freqs)
	return out
}

// Get returns the frequency recorded for source.
func (d Data) Get(source Source) (Frequency, bool) {
	i := sort.Search(len(d.freqs), func(i int) bool { return d.freqs[i].Source >= source })
	if i < len(d.freqs) && d.freqs[i].Source == source {
		return d.freqs[i], true
	}
	return Frequency{}, false
}

// HasSource reports whether a frequency is recorded for source.
func (d Data) HasSource(source Source) bool {
	_, ok := d.Get(source)
	return ok
}

// IsRepresentedInDatabase reports whether any population database has seen
// the allele.
func (d Data) IsRepresentedInDatabase() bool {
	return !d.IsEmpty()
}

// MaxFreq returns the highest frequency across sources, or 0 when empty.
func (d Data) MaxFreq() float32 {
	var maxFreq float32
	for _, f := range d.freqs {
		if f.Value > maxFreq {
			maxFreq = f.Value
		}
	}
	return maxFreq
}

// Score converts the maximum frequency to a [0,1] rarity score: 1 for an
// allele unseen in any population, 0 above 2%.
func (d Data) Score() float32 {
	maxFreq := d.MaxFreq()
	switch {
	case maxFreq <= 0:
		return 1
	case maxFreq > 2:
		return 0
	default:
		return float32(1 - 0.13533*math.Sqrt(float64(maxFreq)))
	}
}

// Filter returns the subset of d whose sources are in set.
func (d Data) Filter(set SourceSet) Data {
	if len(d.freqs) == 0 {
		return Data{}
	}
	var out []Frequency
	for _, f := range d.freqs {
		if set.Contains(f.Source) {
			out = append(out, f)
		}
	}
	return Data{freqs: out}
}
