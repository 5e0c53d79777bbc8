package maf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-filter/internal/vcf"
)

const sampleMAF = `#version 2.4
Hugo_Symbol	Chromosome	Start_Position	End_Position	Reference_Allele	Tumor_Seq_Allele1	Tumor_Seq_Allele2	dbSNP_RS	FILTER
TRUB1	10	116734973	116734973	G	G	A	novel	PASS
KRAS	12	25398285	25398285	G	G	T	rs121913530	PASS
EGFR	7	55242465	55242479	GGAATTAAGAGAAGC	GGAATTAAGAGAAGC	-		PASS
BRAF	7	140453136	140453136	A	T	A		common_variant
`

func TestParser_ParseVariants(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleMAF))
	require.NoError(t, err)
	defer p.Close()

	cols := p.Columns()
	assert.Equal(t, 1, cols.Chromosome)
	assert.Equal(t, 2, cols.StartPosition)
	assert.Equal(t, 4, cols.ReferenceAllele)
	assert.Equal(t, 6, cols.TumorSeqAllele2)

	variants, err := vcf.ReadAll(p)
	require.NoError(t, err)
	require.Len(t, variants, 4)

	assert.Equal(t, vcf.Variant{Chrom: "10", Pos: 116734973, Ref: "G", Alt: "A", Filter: "PASS"}, variants[0])
	assert.Equal(t, "rs121913530", variants[1].ID)
	assert.Equal(t, "12-25398285-G-T", variants[1].Key().String())

	del := variants[2]
	assert.Equal(t, "GGAATTAAGAGAAGC", del.Ref)
	assert.Equal(t, "", del.Alt)
	assert.True(t, del.IsIndel())

	// Tumor_Seq_Allele1 carries the variant allele
	assert.Equal(t, "T", variants[3].Alt)
	assert.False(t, variants[3].PassedVCFFilter())
}

func TestParser_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleMAF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "sample.maf.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	variants, err := vcf.ReadAll(p)
	require.NoError(t, err)
	assert.Len(t, variants, 4)
	assert.Contains(t, p.Header(), "Tumor_Seq_Allele2")
}

func TestParser_MissingColumn(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("Chromosome\tStart_Position\tReference_Allele\n1\t100\tA\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "Tumor_Seq_Allele2")
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no header", "#version 2.4\n", "no header line found"},
		{"bad position", "Chromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\n1\tabc\tA\tT\n", "invalid position"},
		{"short line", "Chromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\n1\t100\n", "expected at least 4 columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParserFromReader(strings.NewReader(tt.input))
			if err == nil {
				_, _, err = p.Next()
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{Line: 42, Message: "required column not found"}
	assert.Equal(t, "maf parse error at line 42: required column not found", err.Error())
}
