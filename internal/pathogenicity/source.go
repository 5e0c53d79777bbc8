// Package pathogenicity holds in-silico pathogenicity predictions and ClinVar
// clinical significance for a variant.
package pathogenicity

import "strings"

// Source identifies a pathogenicity predictor.
type Source uint8

// Pathogenicity sources in canonical order.
const (
	Polyphen Source = iota + 1
	MutationTaster
	SIFT
	CADD
	REMM
	REVEL
	MCAP
	MPC
	MVP
	PrimateAI

	numSources
)

var sourceInfos = [numSources]struct{ code, name string }{
	Polyphen:       {"POLYPHEN", "POLYPHEN"},
	MutationTaster: {"MUT_TASTER", "MUTATION_TASTER"},
	SIFT:           {"SIFT", "SIFT"},
	CADD:           {"CADD", "CADD"},
	REMM:           {"REMM", "REMM"},
	REVEL:          {"REVEL", "REVEL"},
	MCAP:           {"MCAP", "M_CAP"},
	MPC:            {"MPC", "MPC"},
	MVP:            {"MVP", "MVP"},
	PrimateAI:      {"PRIMATE_AI", "PRIMATE_AI"},
}

var byCode = func() map[string]Source {
	m := make(map[string]Source, numSources)
	for _, s := range Sources() {
		m[s.Code()] = s
	}
	return m
}()

// Sources returns every known pathogenicity source in canonical order.
func Sources() []Source {
	out := make([]Source, 0, numSources-1)
	for s := Source(1); s < numSources; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s > 0 && s < numSources
}

// Code returns the property key used for this source in the annotation store.
func (s Source) Code() string {
	if !s.Valid() {
		return ""
	}
	return sourceInfos[s].code
}

func (s Source) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return sourceInfos[s].name
}

// SourceForCode maps a store property key to its source.
func SourceForCode(code string) (Source, bool) {
	s, ok := byCode[code]
	return s, ok
}

// ParseSource accepts a store code ("MUT_TASTER") or a source name
// ("MUTATION_TASTER"), case-insensitively.
func ParseSource(s string) (Source, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if src, ok := byCode[up]; ok {
		return src, true
	}
	for _, src := range Sources() {
		if src.String() == up {
			return src, true
		}
	}
	return 0, false
}

// SourceSet is a set of pathogenicity sources requested by a caller.
type SourceSet map[Source]struct{}

// NewSourceSet builds a set from the given sources.
func NewSourceSet(sources ...Source) SourceSet {
	set := make(SourceSet, len(sources))
	for _, s := range sources {
		set[s] = struct{}{}
	}
	return set
}

// AllSources returns a set holding every known source.
func AllSources() SourceSet {
	return NewSourceSet(Sources()...)
}

// Contains reports whether s is in the set.
func (set SourceSet) Contains(s Source) bool {
	_, ok := set[s]
	return ok
}
