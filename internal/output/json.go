package output

import (
	"bufio"
	"io"

	"github.com/goccy/go-json"

	"github.com/inodb/vibe-filter/internal/evaluation"
)

// VariantRecord is the JSON form of an evaluation.
type VariantRecord struct {
	Key           string             `json:"key"`
	ID            string             `json:"id,omitempty"`
	Chrom         string             `json:"chrom"`
	Pos           int64              `json:"pos"`
	Ref           string             `json:"ref"`
	Alt           string             `json:"alt"`
	Status        string             `json:"status"`
	Effect        string             `json:"effect"`
	Results       []ResultRecord     `json:"results,omitempty"`
	Frequencies   map[string]float32 `json:"frequencies,omitempty"`
	Pathogenicity map[string]float32 `json:"pathogenicity,omitempty"`
	ClinVar       *ClinVarRecord     `json:"clinvar,omitempty"`
}

// ResultRecord is the JSON form of a filter result.
type ResultRecord struct {
	Filter string  `json:"filter"`
	Status string  `json:"status"`
	Score  float32 `json:"score"`
}

// ClinVarRecord is the JSON form of a ClinVar assertion.
type ClinVarRecord struct {
	AlleleID     string   `json:"alleleId,omitempty"`
	Primary      string   `json:"primaryInterpretation"`
	Secondary    []string `json:"secondaryInterpretations,omitempty"`
	ReviewStatus string   `json:"reviewStatus,omitempty"`
	Stars        int      `json:"stars"`
}

// NewVariantRecord converts an evaluation to its JSON form.
func NewVariantRecord(ev *evaluation.Evaluation) VariantRecord {
	v := ev.Variant()
	rec := VariantRecord{
		Key:    v.Key().String(),
		ID:     v.ID,
		Chrom:  v.Chrom,
		Pos:    v.Pos,
		Ref:    v.Ref,
		Alt:    v.Alt,
		Status: ev.Status().String(),
		Effect: ev.Effect().String(),
	}

	for _, r := range ev.Results().Sorted() {
		rec.Results = append(rec.Results, ResultRecord{Filter: r.Type.String(), Status: r.Status.String(), Score: r.Score})
	}
	if freqs := ev.FrequencyData().Frequencies(); len(freqs) > 0 {
		rec.Frequencies = make(map[string]float32, len(freqs))
		for _, f := range freqs {
			rec.Frequencies[f.Source.String()] = f.Value
		}
	}
	pd := ev.PathogenicityData()
	if scores := pd.Scores(); len(scores) > 0 {
		rec.Pathogenicity = make(map[string]float32, len(scores))
		for _, s := range scores {
			rec.Pathogenicity[s.Source.String()] = s.Value
		}
	}
	if cv, ok := pd.ClinVar(); ok {
		cr := &ClinVarRecord{
			AlleleID:     cv.AlleleID,
			Primary:      cv.Primary.String(),
			ReviewStatus: cv.ReviewStatus,
			Stars:        cv.StarRating(),
		}
		for _, c := range cv.Secondary.Sorted() {
			cr.Secondary = append(cr.Secondary, c.String())
		}
		rec.ClinVar = cr
	}
	return rec
}

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONWriter creates a JSON lines writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	bw := bufio.NewWriter(w)
	return &JSONWriter{w: bw, enc: json.NewEncoder(bw)}
}

// WriteHeader is a no-op; JSON lines output has no header.
func (jw *JSONWriter) WriteHeader() error {
	return nil
}

// Write writes a single evaluation.
func (jw *JSONWriter) Write(ev *evaluation.Evaluation) error {
	return jw.enc.Encode(NewVariantRecord(ev))
}

// Flush flushes any buffered data to the underlying writer.
func (jw *JSONWriter) Flush() error {
	return jw.w.Flush()
}
