package interval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBED = `track name=targets
# comment
chr1	99	200	exon1
1	299	400
chrX	0	10	tfbs
`

func TestReadBED(t *testing.T) {
	regions, err := ReadBED(strings.NewReader(testBED))
	require.NoError(t, err)
	require.Len(t, regions, 3)

	assert.Equal(t, Region{Chrom: "1", Start: 100, End: 200, Name: "exon1"}, regions[0])
	assert.Equal(t, Region{Chrom: "1", Start: 300, End: 400}, regions[1])
	assert.Equal(t, "X", regions[2].Chrom)
	assert.Equal(t, int64(1), regions[2].Start)
}

func TestReadBED_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too few columns", "1\t100\n"},
		{"bad start", "1\tx\t100\n"},
		{"bad end", "1\t100\ty\n"},
		{"empty interval", "1\t100\t100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBED(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestLoadBED_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.bed.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testBED))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	regions, err := LoadBED(path)
	require.NoError(t, err)
	assert.Len(t, regions, 3)

	_, err = LoadBED(filepath.Join(t.TempDir(), "missing.bed"))
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	regions, err := ReadBED(strings.NewReader(testBED))
	require.NoError(t, err)

	idx := BuildIndex(regions, func(r Region) string { return r.Name })
	assert.Equal(t, 3, idx.Len())
	assert.True(t, idx.Overlaps("chr1", 150, 150))
	assert.False(t, idx.Overlaps("1", 201, 299))
	assert.False(t, idx.Overlaps("2", 150, 150))
	assert.Equal(t, []string{"tfbs"}, idx.FindRange("X", 5, 5))
	assert.Nil(t, idx.FindRange("Y", 5, 5))
}
