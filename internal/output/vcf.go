package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-filter/internal/evaluation"
)

// INFO keys written by VCFWriter.
const (
	InfoEffect  = "VF_EFFECT"
	InfoMaxFreq = "VF_MAXFREQ"
	InfoPath    = "VF_PATH"
	InfoClinVar = "VF_CLINVAR"
	InfoScores  = "VF_FILTER_SCORES"
)

var filterDescriptions = map[evaluation.FilterType]string{
	evaluation.FailedVariantFilter:     "Variant failed the caller's own FILTER",
	evaluation.QualityFilter:           "QUAL below threshold",
	evaluation.IntervalFilter:          "Outside the requested interval",
	evaluation.BedFilter:               "Outside all target regions",
	evaluation.VariantEffectFilter:     "Variant effect excluded",
	evaluation.KnownVariantFilter:      "Present in a population frequency database",
	evaluation.FrequencyFilter:         "Population frequency above threshold",
	evaluation.PathogenicityFilter:     "Predicted pathogenicity below threshold",
	evaluation.RegulatoryFeatureFilter: "Non-coding variant outside regulatory features",
	evaluation.JointFailureFilter:      "Failed every filter of a joint group",
}

// VCFWriter writes evaluations as VCF records. FILTER holds PASS, "." when
// no filter ran, or the failing filter types separated by ';'.
type VCFWriter struct {
	w       *bufio.Writer
	source  string
	samples []string
}

// NewVCFWriter creates a new VCF output writer. source is written to the
// ##source header line.
func NewVCFWriter(w io.Writer, source string) *VCFWriter {
	return &VCFWriter{
		w:      bufio.NewWriter(w),
		source: source,
	}
}

// WriteHeader writes the meta-information and column header lines.
func (vw *VCFWriter) WriteHeader() error {
	lines := []string{
		"##fileformat=VCFv4.2",
		"##source=" + vw.source,
	}
	for _, t := range evaluation.FilterTypes() {
		lines = append(lines, fmt.Sprintf("##FILTER=<ID=%s,Description=%q>", t, filterDescriptions[t]))
	}
	lines = append(lines,
		fmt.Sprintf("##INFO=<ID=%s,Number=1,Type=String,Description=\"Variant effect\">", InfoEffect),
		fmt.Sprintf("##INFO=<ID=%s,Number=1,Type=Float,Description=\"Maximum population frequency (percent)\">", InfoMaxFreq),
		fmt.Sprintf("##INFO=<ID=%s,Number=.,Type=String,Description=\"Pathogenicity scores as SOURCE:score\">", InfoPath),
		fmt.Sprintf("##INFO=<ID=%s,Number=1,Type=String,Description=\"ClinVar primary interpretation\">", InfoClinVar),
		fmt.Sprintf("##INFO=<ID=%s,Number=.,Type=String,Description=\"Filter results as TYPE:STATUS:score\">", InfoScores),
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	)
	_, err := vw.w.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}

// Write writes a single evaluation as one VCF record.
func (vw *VCFWriter) Write(ev *evaluation.Evaluation) error {
	v := ev.Variant()

	var lb strings.Builder
	lb.Grow(256)

	lb.WriteString(v.Chrom)
	lb.WriteByte('\t')
	lb.WriteString(strconv.FormatInt(v.Pos, 10))
	lb.WriteByte('\t')
	if v.ID != "" {
		lb.WriteString(v.ID)
	} else {
		lb.WriteByte('.')
	}
	lb.WriteByte('\t')
	lb.WriteString(v.Ref)
	lb.WriteByte('\t')
	lb.WriteString(v.Alt)
	lb.WriteByte('\t')
	if v.Qual != 0 {
		lb.WriteString(strconv.FormatFloat(v.Qual, 'g', -1, 64))
	} else {
		lb.WriteByte('.')
	}
	lb.WriteByte('\t')
	lb.WriteString(filterColumn(ev))
	lb.WriteByte('\t')
	lb.WriteString(vw.info(ev))
	lb.WriteByte('\n')

	_, err := vw.w.WriteString(lb.String())
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}

func filterColumn(ev *evaluation.Evaluation) string {
	switch ev.Status() {
	case evaluation.Unfiltered:
		return "."
	case evaluation.Passed:
		return "PASS"
	}
	failed := ev.Results().FailedTypes()
	names := make([]string, len(failed))
	for i, t := range failed {
		names[i] = t.String()
	}
	return strings.Join(names, ";")
}

func (vw *VCFWriter) info(ev *evaluation.Evaluation) string {
	fields := []string{InfoEffect + "=" + ev.Effect().String()}

	if fd := ev.FrequencyData(); !fd.IsEmpty() {
		fields = append(fields, InfoMaxFreq+"="+formatFloat(fd.MaxFreq()))
	}
	if pd := ev.PathogenicityData(); len(pd.Scores()) > 0 {
		fields = append(fields, InfoPath+"="+FormatScores(pd))
	}
	if cv, ok := ev.PathogenicityData().ClinVar(); ok {
		fields = append(fields, InfoClinVar+"="+cv.Primary.String())
	}
	if sorted := ev.Results().Sorted(); len(sorted) > 0 {
		parts := make([]string, len(sorted))
		for i, r := range sorted {
			parts[i] = r.Type.String() + ":" + r.Status.String() + ":" + formatFloat(r.Score)
		}
		fields = append(fields, InfoScores+"="+strings.Join(parts, ","))
	}
	return strings.Join(fields, ";")
}
