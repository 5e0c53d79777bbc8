package regulatory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/effect"
)

func TestClassify(t *testing.T) {
	c := NewClassifier([]Feature{
		{Chrom: "chr1", Start: 1000, End: 2000, Type: "enhancer"},
		{Chrom: "1", Start: 1500, End: 1510, Type: "TF_binding_site"},
		{Chrom: "2", Start: 500, End: 600, Type: "promoter"},
	})
	assert.Equal(t, 3, c.Len())

	tests := []struct {
		name string
		key  allele.Key
		want effect.VariantEffect
	}{
		{"enhancer", allele.NewKey("1", 1200, "A", "T"), effect.RegulatoryRegionVariant},
		{"binding site wins", allele.NewKey("chr1", 1505, "A", "T"), effect.TFBindingSiteVariant},
		{"promoter", allele.NewKey("2", 600, "A", "T"), effect.RegulatoryRegionVariant},
		{"outside", allele.NewKey("2", 601, "A", "T"), effect.SequenceVariant},
		{"deletion reaching feature", allele.NewKey("2", 498, "ACGT", "A"), effect.RegulatoryRegionVariant},
		{"unknown chrom", allele.NewKey("3", 1200, "A", "T"), effect.SequenceVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.key))
		})
	}
}

func TestFeatures(t *testing.T) {
	c := NewClassifier([]Feature{{Chrom: "X", Start: 10, End: 20, Type: "open_chromatin"}})
	got := c.Features(allele.NewKey("chrX", 15, "A", "G"))
	require.Len(t, got, 1)
	assert.Equal(t, Feature{Chrom: "X", Start: 10, End: 20, Type: "open_chromatin"}, got[0])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.bed")
	require.NoError(t, os.WriteFile(path, []byte(
		"#chrom\tstart\tend\ttype\n"+
			"chr1\t999\t2000\tenhancer\n"+
			"chr1\t1499\t1510\tTFBS\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, effect.TFBindingSiteVariant, c.Classify(allele.NewKey("1", 1500, "A", "T")))
	assert.Equal(t, effect.RegulatoryRegionVariant, c.Classify(allele.NewKey("1", 1000, "A", "T")))
	assert.Equal(t, effect.SequenceVariant, c.Classify(allele.NewKey("1", 999, "A", "T")))

	_, err = Load(filepath.Join(t.TempDir(), "missing.bed"))
	assert.Error(t, err)
}
