// Package frequency holds population allele frequency records for a variant.
package frequency

import "strings"

// Source identifies a population frequency database.
type Source uint8

// Frequency sources. The order is the canonical order of records in a Data.
const (
	ThousandGenomes Source = iota + 1
	TopMed
	UK10K
	ESPAfricanAmerican
	ESPEuropeanAmerican
	ESPAll
	ExACAfrican
	ExACAmerican
	ExACEastAsian
	ExACFinnish
	ExACNonFinnishEuropean
	ExACOther
	ExACSouthAsian
	GnomADExomesAfrican
	GnomADExomesAmerican
	GnomADExomesAshkenazi
	GnomADExomesEastAsian
	GnomADExomesFinnish
	GnomADExomesNonFinnishEuropean
	GnomADExomesOther
	GnomADExomesSouthAsian
	GnomADGenomesAfrican
	GnomADGenomesAmerican
	GnomADGenomesAshkenazi
	GnomADGenomesEastAsian
	GnomADGenomesFinnish
	GnomADGenomesNonFinnishEuropean
	GnomADGenomesOther
	Local

	numSources
)

type sourceInfo struct {
	code string // property key in the annotation store
	name string
}

var sourceInfos = [numSources]sourceInfo{
	ThousandGenomes:                 {"KG", "THOUSAND_GENOMES"},
	TopMed:                          {"TOPMED", "TOPMED"},
	UK10K:                           {"UK10K", "UK10K"},
	ESPAfricanAmerican:              {"ESP_AA", "ESP_AFRICAN_AMERICAN"},
	ESPEuropeanAmerican:             {"ESP_EA", "ESP_EUROPEAN_AMERICAN"},
	ESPAll:                          {"ESP_ALL", "ESP_ALL"},
	ExACAfrican:                     {"EXAC_AFR", "EXAC_AFRICAN_INC_AFRICAN_AMERICAN"},
	ExACAmerican:                    {"EXAC_AMR", "EXAC_AMERICAN"},
	ExACEastAsian:                   {"EXAC_EAS", "EXAC_EAST_ASIAN"},
	ExACFinnish:                     {"EXAC_FIN", "EXAC_FINNISH"},
	ExACNonFinnishEuropean:          {"EXAC_NFE", "EXAC_NON_FINNISH_EUROPEAN"},
	ExACOther:                       {"EXAC_OTH", "EXAC_OTHER"},
	ExACSouthAsian:                  {"EXAC_SAS", "EXAC_SOUTH_ASIAN"},
	GnomADExomesAfrican:             {"GNOMAD_E_AFR", "GNOMAD_E_AFR"},
	GnomADExomesAmerican:            {"GNOMAD_E_AMR", "GNOMAD_E_AMR"},
	GnomADExomesAshkenazi:           {"GNOMAD_E_ASJ", "GNOMAD_E_ASJ"},
	GnomADExomesEastAsian:           {"GNOMAD_E_EAS", "GNOMAD_E_EAS"},
	GnomADExomesFinnish:             {"GNOMAD_E_FIN", "GNOMAD_E_FIN"},
	GnomADExomesNonFinnishEuropean:  {"GNOMAD_E_NFE", "GNOMAD_E_NFE"},
	GnomADExomesOther:               {"GNOMAD_E_OTH", "GNOMAD_E_OTH"},
	GnomADExomesSouthAsian:          {"GNOMAD_E_SAS", "GNOMAD_E_SAS"},
	GnomADGenomesAfrican:            {"GNOMAD_G_AFR", "GNOMAD_G_AFR"},
	GnomADGenomesAmerican:           {"GNOMAD_G_AMR", "GNOMAD_G_AMR"},
	GnomADGenomesAshkenazi:          {"GNOMAD_G_ASJ", "GNOMAD_G_ASJ"},
	GnomADGenomesEastAsian:          {"GNOMAD_G_EAS", "GNOMAD_G_EAS"},
	GnomADGenomesFinnish:            {"GNOMAD_G_FIN", "GNOMAD_G_FIN"},
	GnomADGenomesNonFinnishEuropean: {"GNOMAD_G_NFE", "GNOMAD_G_NFE"},
	GnomADGenomesOther:              {"GNOMAD_G_OTH", "GNOMAD_G_OTH"},
	Local:                           {"LOCAL", "LOCAL"},
}

var byCode = func() map[string]Source {
	m := make(map[string]Source, numSources)
	for _, s := range Sources() {
		m[s.Code()] = s
	}
	return m
}()

// Sources returns every known frequency source in canonical order.
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

// ParseSource accepts either a store code ("KG") or a source name
// ("THOUSAND_GENOMES"), case-insensitively.
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

// SourceSet is a set of frequency sources requested by a caller.
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
