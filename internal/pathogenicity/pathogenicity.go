package pathogenicity

import "sort"

// Score is a single predictor score as recorded in the annotation store.
type Score struct {
	Source Source
	Value  float32
}

// Of creates a Score.
func Of(source Source, value float32) Score {
	return Score{Source: source, Value: value}
}

// Normalized returns the score on a scale where higher means more
// pathogenic. SIFT scores damaging variants low, so it is inverted.
func (s Score) Normalized() float32 {
	if s.Source == SIFT {
		return 1 - s.Value
	}
	return s.Value
}

// Data is the pathogenicity evidence for one variant: at most one score per
// predictor plus an optional ClinVar record.
type Data struct {
	scores  []Score // sorted by Source
	clinVar *ClinVar
}

// Empty returns Data with no scores and no ClinVar record.
func Empty() Data {
	return Data{}
}

// NewData builds Data from scores. When a source appears more than once the
// last value wins.
func NewData(scores ...Score) Data {
	if len(scores) == 0 {
		return Data{}
	}
	bySource := make(map[Source]Score, len(scores))
	for _, s := range scores {
		bySource[s.Source] = s
	}
	out := make([]Score, 0, len(bySource))
	for _, s := range bySource {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return Data{scores: out}
}

// WithClinVar returns a copy of d carrying cv. A zero-valued record is
// treated as absent.
func (d Data) WithClinVar(cv ClinVar) Data {
	if cv.IsZero() {
		d.clinVar = nil
		return d
	}
	d.clinVar = &cv
	return d
}

// ClinVar returns the ClinVar record, if any.
func (d Data) ClinVar() (ClinVar, bool) {
	if d.clinVar == nil {
		return ClinVar{}, false
	}
	return *d.clinVar, true
}

// HasClinVar reports whether a ClinVar record is present.
func (d Data) HasClinVar() bool {
	return d.clinVar != nil
}

// IsEmpty reports whether d has neither scores nor a ClinVar record.
func (d Data) IsEmpty() bool {
	return len(d.scores) == 0 && d.clinVar == nil
}

// Scores returns a copy of the scores in canonical source order.
func (d Data) Scores() []Score {
	if len(d.scores) == 0 {
		return nil
	}
	out := make([]Score, len(d.scores))
	copy(out, d.scores)
	return out
}

// Get returns the score recorded for source.
func (d Data) Get(source Source) (Score, bool) {
	i := sort.Search(len(d.scores), func(i int) bool { return d.scores[i].Source >= source })
	if i < len(d.scores) && d.scores[i].Source == source {
		return d.scores[i], true
	}
	return Score{}, false
}

// HasSource reports whether a score is recorded for source.
func (d Data) HasSource(source Source) bool {
	_, ok := d.Get(source)
	return ok
}

// MostPathogenicScore returns the score with the highest normalized value.
func (d Data) MostPathogenicScore() (Score, bool) {
	if len(d.scores) == 0 {
		return Score{}, false
	}
	best := d.scores[0]
	for _, s := range d.scores[1:] {
		if s.Normalized() > best.Normalized() {
			best = s
		}
	}
	return best, true
}

// Filter returns the subset of scores whose sources are in set. ClinVar is
// not a numeric predictor and is always kept.
func (d Data) Filter(set SourceSet) Data {
	out := Data{clinVar: d.clinVar}
	for _, s := range d.scores {
		if set.Contains(s.Source) {
			out.scores = append(out.scores, s)
		}
	}
	return out
}
