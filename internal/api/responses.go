package api

import (
	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
)

// Response is implemented by lookup responses that can carry a decode error.
type Response interface {
	VariantKey() string
	SetError(msg string)
}

// SourceInfo names a data source by wire code and display name.
type SourceInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FrequencyValue is one population frequency.
type FrequencyValue struct {
	Source string  `json:"source"`
	Value  float32 `json:"value"`
	AC     *int    `json:"ac,omitempty"`
	AN     *int    `json:"an,omitempty"`
	Hom    *int    `json:"hom,omitempty"`
}

// FrequencyResponse is the body of /variants/:key/frequency.
type FrequencyResponse struct {
	Key         string           `json:"key"`
	Frequencies []FrequencyValue `json:"frequencies"`
	MaxFreq     float32          `json:"maxFreq"`
	Score       float32          `json:"score"`
	Error       string           `json:"error,omitempty"`
}

// NewFrequencyResponse converts frequency data for key.
func NewFrequencyResponse(key allele.Key, d frequency.Data) *FrequencyResponse {
	resp := &FrequencyResponse{
		Key:         key.String(),
		Frequencies: make([]FrequencyValue, 0, d.Size()),
		MaxFreq:     d.MaxFreq(),
		Score:       d.Score(),
	}
	for _, f := range d.Frequencies() {
		fv := FrequencyValue{Source: f.Source.String(), Value: f.Value}
		if f.Counts != nil {
			ac, an, hom := f.Counts.AC, f.Counts.AN, f.Counts.Hom
			fv.AC, fv.AN, fv.Hom = &ac, &an, &hom
		}
		resp.Frequencies = append(resp.Frequencies, fv)
	}
	return resp
}

func (r *FrequencyResponse) VariantKey() string  { return r.Key }
func (r *FrequencyResponse) SetError(msg string) { r.Error = msg }

// ScoreValue is one pathogenicity prediction.
type ScoreValue struct {
	Source     string  `json:"source"`
	Value      float32 `json:"value"`
	Normalized float32 `json:"normalized"`
}

// ClinVarValue is the ClinVar assertion for an allele.
type ClinVarValue struct {
	AlleleID        string            `json:"alleleId,omitempty"`
	Primary         string            `json:"primaryInterpretation"`
	Secondary       []string          `json:"secondaryInterpretations,omitempty"`
	IncludedAlleles map[string]string `json:"includedAlleles,omitempty"`
	ReviewStatus    string            `json:"reviewStatus,omitempty"`
	Stars           int               `json:"stars"`
}

// PathogenicityResponse is the body of /variants/:key/pathogenicity.
type PathogenicityResponse struct {
	Key     string        `json:"key"`
	Scores  []ScoreValue  `json:"scores"`
	ClinVar *ClinVarValue `json:"clinvar,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// NewPathogenicityResponse converts pathogenicity data for key.
func NewPathogenicityResponse(key allele.Key, d pathogenicity.Data) *PathogenicityResponse {
	resp := &PathogenicityResponse{
		Key:    key.String(),
		Scores: make([]ScoreValue, 0),
	}
	for _, s := range d.Scores() {
		resp.Scores = append(resp.Scores, ScoreValue{Source: s.Source.String(), Value: s.Value, Normalized: s.Normalized()})
	}
	if cv, ok := d.ClinVar(); ok {
		v := &ClinVarValue{
			AlleleID:     cv.AlleleID,
			Primary:      cv.Primary.String(),
			ReviewStatus: cv.ReviewStatus,
			Stars:        cv.StarRating(),
		}
		for _, c := range cv.Secondary.Sorted() {
			v.Secondary = append(v.Secondary, c.String())
		}
		if len(cv.IncludedAlleles) > 0 {
			v.IncludedAlleles = make(map[string]string, len(cv.IncludedAlleles))
			for id, c := range cv.IncludedAlleles {
				v.IncludedAlleles[id] = c.String()
			}
		}
		resp.ClinVar = v
	}
	return resp
}

func (r *PathogenicityResponse) VariantKey() string  { return r.Key }
func (r *PathogenicityResponse) SetError(msg string) { r.Error = msg }

// RegulatoryResponse is the body of /variants/:key/regulatory.
type RegulatoryResponse struct {
	Key    string `json:"key"`
	Effect string `json:"effect"`
}
