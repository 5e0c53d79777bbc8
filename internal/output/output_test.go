package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-filter/internal/effect"
	"github.com/inodb/vibe-filter/internal/evaluation"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
	"github.com/inodb/vibe-filter/internal/vcf"
)

func krasEvaluation(t *testing.T) *evaluation.Evaluation {
	t.Helper()
	ev := evaluation.NewBuilder(vcf.Variant{
		Chrom: "12", Pos: 25245351, ID: "rs121913529", Ref: "C", Alt: "A", Qual: 60, Filter: "PASS",
	}).
		FrequencyData(frequency.NewData(frequency.Of(frequency.TopMed, 0.05), frequency.Of(frequency.ThousandGenomes, 0.7))).
		PathogenicityData(pathogenicity.NewData(pathogenicity.Of(pathogenicity.REVEL, 0.93)).WithClinVar(pathogenicity.ClinVar{
			AlleleID:     "12345",
			Primary:      pathogenicity.Pathogenic,
			Secondary:    pathogenicity.NewClinSigSet(pathogenicity.LikelyPathogenic),
			ReviewStatus: "reviewed by expert panel",
		})).
		Effect(effect.MissenseVariant).
		Build()
	require.NoError(t, ev.Record("run", evaluation.PassResult(evaluation.PathogenicityFilter, 0.93)))
	require.NoError(t, ev.Record("run", evaluation.FailResult(evaluation.FrequencyFilter, 0.9)))
	return ev
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()
	for _, col := range []string{"#Uploaded_variation", "Location", "Status", "Filters", "ClinVar"} {
		assert.Contains(t, header, col)
	}
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)
	require.NoError(t, w.Write(krasEvaluation(t)))
	require.NoError(t, w.Flush())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 11)
	assert.Equal(t, "rs121913529", fields[0])
	assert.Equal(t, "12:25245351", fields[1])
	assert.Equal(t, "FAILED", fields[4])
	assert.Equal(t, "FREQUENCY=FAIL:0.9,PATHOGENICITY=PASS:0.93", fields[5])
	assert.Equal(t, "missense_variant", fields[6])
	assert.Equal(t, "0.7", fields[7])
	assert.Equal(t, "THOUSAND_GENOMES:0.7,TOPMED:0.05", fields[8])
	assert.Equal(t, "REVEL:0.93", fields[9])
	assert.Equal(t, "PATHOGENIC(3*)|LIKELY_PATHOGENIC", fields[10])
}

func TestTabWriter_WriteUnannotated(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)
	ev := evaluation.NewBuilder(vcf.Variant{Chrom: "1", Pos: 1, Ref: "A", Alt: "T"}).Build()
	require.NoError(t, w.Write(ev))
	require.NoError(t, w.Flush())

	assert.Equal(t, ".\t1:1\tA\tT\tUNFILTERED\t-\tsequence_variant\t-\t-\t-\t-\n", buf.String())
}

func TestVCFWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf, "vibe-filter")
	require.NoError(t, w.WriteHeader())

	passing := evaluation.NewBuilder(vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}).Build()
	require.NoError(t, passing.Record("run", evaluation.PassResult(evaluation.QualityFilter, 1)))

	require.NoError(t, w.Write(krasEvaluation(t)))
	require.NoError(t, w.Write(passing))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "##fileformat=VCFv4.2", lines[0])
	assert.Contains(t, buf.String(), "##FILTER=<ID=FREQUENCY,")
	assert.Contains(t, buf.String(), "##INFO=<ID=VF_EFFECT,")

	records := lines[len(lines)-2:]
	kras := strings.Split(records[0], "\t")
	require.Len(t, kras, 8)
	assert.Equal(t, []string{"12", "25245351", "rs121913529", "C", "A", "60", "FREQUENCY"}, kras[:7])
	assert.Equal(t, "VF_EFFECT=missense_variant;VF_MAXFREQ=0.7;VF_PATH=REVEL:0.93;VF_CLINVAR=PATHOGENIC;"+
		"VF_FILTER_SCORES=FREQUENCY:FAIL:0.9,PATHOGENICITY:PASS:0.93", kras[7])

	pass := strings.Split(records[1], "\t")
	assert.Equal(t, ".", pass[2])
	assert.Equal(t, ".", pass[5])
	assert.Equal(t, "PASS", pass[6])
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(krasEvaluation(t)))
	require.NoError(t, w.Flush())

	var rec VariantRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "12-25245351-C-A", rec.Key)
	assert.Equal(t, "FAILED", rec.Status)
	assert.Equal(t, []ResultRecord{
		{Filter: "FREQUENCY", Status: "FAIL", Score: 0.9},
		{Filter: "PATHOGENICITY", Status: "PASS", Score: 0.93},
	}, rec.Results)
	assert.Equal(t, map[string]float32{"THOUSAND_GENOMES": 0.7, "TOPMED": 0.05}, rec.Frequencies)
	require.NotNil(t, rec.ClinVar)
	assert.Equal(t, 3, rec.ClinVar.Stars)
	assert.Equal(t, []string{"LIKELY_PATHOGENIC"}, rec.ClinVar.Secondary)
}

func TestNewWriter(t *testing.T) {
	for _, f := range Formats {
		w, err := NewWriter(f, &bytes.Buffer{}, "test")
		require.NoError(t, err, f)
		assert.NotNil(t, w)
	}
	_, err := NewWriter("maf", &bytes.Buffer{}, "test")
	assert.Error(t, err)
}
