package vcf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVCF = `##fileformat=VCFv4.2
##FILTER=<ID=LowQual,Description="Low quality">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
12	25245351	rs121913529	C	A	50	PASS	.
chr1	100	.	A	C,T	20	LowQual	.
7	140753336	.	A	T	99	PASS	.
`

func TestParser_FromReader(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)
	defer p.Close()

	variants, err := ReadAll(p)
	require.NoError(t, err)
	require.Len(t, variants, 4, "multi-allelic record is split")

	kras := variants[0]
	assert.Equal(t, "12", kras.Chrom)
	assert.Equal(t, int64(25245351), kras.Pos)
	assert.Equal(t, "rs121913529", kras.ID)
	assert.Equal(t, "C", kras.Ref)
	assert.Equal(t, "A", kras.Alt)
	assert.InDelta(t, 50, kras.Qual, 1e-6)
	assert.Equal(t, "PASS", kras.Filter)

	assert.Equal(t, "C", variants[1].Alt)
	assert.Equal(t, "T", variants[2].Alt)
	assert.Equal(t, variants[1].Pos, variants[2].Pos)
	assert.Equal(t, "LowQual", variants[2].Filter)

	assert.Equal(t, 3, p.LineNumber())
}

func TestParser_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(path, []byte(testVCF), 0644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	variants, err := ReadAll(p)
	require.NoError(t, err)
	assert.Len(t, variants, 4)
}

func TestParser_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(testVCF))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "in.vcf.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	variants, err := ReadAll(p)
	require.NoError(t, err)
	assert.Len(t, variants, 4)
}

func TestParser_NotFound(t *testing.T) {
	_, err := NewParser("/nonexistent/path.vcf")
	assert.Error(t, err)
}
