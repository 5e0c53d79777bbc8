// Package output provides filter result output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-filter/internal/evaluation"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
)

// TabWriter writes one tab-delimited row per evaluated variant.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Uploaded_variation",
			"Location",
			"Ref",
			"Alt",
			"Status",
			"Filters",
			"Effect",
			"Max_freq",
			"Frequencies",
			"Pathogenicity",
			"ClinVar",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single evaluation.
func (tw *TabWriter) Write(ev *evaluation.Evaluation) error {
	v := ev.Variant()

	id := v.ID
	if id == "" {
		id = "."
	}

	maxFreq := "-"
	fd := ev.FrequencyData()
	if !fd.IsEmpty() {
		maxFreq = formatFloat(fd.MaxFreq())
	}

	values := []string{
		id,
		v.Chrom + ":" + strconv.FormatInt(v.Pos, 10),
		v.Ref,
		v.Alt,
		ev.Status().String(),
		FormatResults(ev.Results()),
		ev.Effect().String(),
		maxFreq,
		FormatFrequencies(fd),
		FormatScores(ev.PathogenicityData()),
		FormatClinVar(ev.PathogenicityData()),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// FormatResults renders results as TYPE=STATUS:score in filter-type order,
// or "-" when there are none.
func FormatResults(rs *evaluation.Results) string {
	sorted := rs.Sorted()
	if len(sorted) == 0 {
		return "-"
	}
	parts := make([]string, len(sorted))
	for i, r := range sorted {
		parts[i] = r.Type.String() + "=" + r.Status.String() + ":" + formatFloat(r.Score)
	}
	return strings.Join(parts, ",")
}

// FormatFrequencies renders frequencies as SOURCE:value, or "-".
func FormatFrequencies(fd frequency.Data) string {
	freqs := fd.Frequencies()
	if len(freqs) == 0 {
		return "-"
	}
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = f.Source.String() + ":" + formatFloat(f.Value)
	}
	return strings.Join(parts, ",")
}

// FormatScores renders pathogenicity scores as SOURCE:value, or "-".
func FormatScores(pd pathogenicity.Data) string {
	scores := pd.Scores()
	if len(scores) == 0 {
		return "-"
	}
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = s.Source.String() + ":" + formatFloat(s.Value)
	}
	return strings.Join(parts, ",")
}

// FormatClinVar renders the primary interpretation, star rating and any
// secondary interpretations, or "-".
func FormatClinVar(pd pathogenicity.Data) string {
	cv, ok := pd.ClinVar()
	if !ok {
		return "-"
	}
	var sb strings.Builder
	sb.WriteString(cv.Primary.String())
	sb.WriteString("(")
	sb.WriteString(strconv.Itoa(cv.StarRating()))
	sb.WriteString("*)")
	if secondary := cv.Secondary.Sorted(); len(secondary) > 0 {
		names := make([]string, len(secondary))
		for i, c := range secondary {
			names[i] = c.String()
		}
		sb.WriteString("|")
		sb.WriteString(strings.Join(names, "|"))
	}
	return sb.String()
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', 4, 32)
}
