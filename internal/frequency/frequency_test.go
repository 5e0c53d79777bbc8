package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewData_UniquePerSource(t *testing.T) {
	d := NewData(
		Of(TopMed, 0.05),
		Of(ThousandGenomes, 0.7),
		Of(TopMed, 0.06),
	)
	assert.Equal(t, 2, d.Size())
	f, ok := d.Get(TopMed)
	require.True(t, ok)
	assert.Equal(t, float32(0.06), f.Value, "last value for a source wins")

	// Insertion order is irrelevant.
	assert.Equal(t, NewData(Of(ThousandGenomes, 0.7), Of(TopMed, 0.06)), d)
}

func TestEmpty(t *testing.T) {
	d := Empty()
	assert.True(t, d.IsEmpty())
	assert.False(t, d.IsRepresentedInDatabase())
	assert.Zero(t, d.MaxFreq())
	assert.Equal(t, float32(1), d.Score())
	assert.Nil(t, d.Frequencies())
	assert.Equal(t, d, NewData())
}

func TestMaxFreqAndScore(t *testing.T) {
	tests := []struct {
		name  string
		data  Data
		max   float32
		score float32
	}{
		{"rare", NewData(Of(ExACAfrican, 0.01)), 0.01, 0.986467},
		{"one percent", NewData(Of(ESPAll, 1), Of(UK10K, 0.5)), 1, 0.86467},
		{"common", NewData(Of(GnomADGenomesFinnish, 5)), 5, 0},
		{"boundary", NewData(Of(Local, 2)), 2, 0.808614},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.max, tt.data.MaxFreq())
			assert.InDelta(t, tt.score, tt.data.Score(), 1e-4)
		})
	}
}

func TestFilter(t *testing.T) {
	d := NewData(Of(ThousandGenomes, 0.7), Of(TopMed, 0.05), Of(ESPAll, 0.1))

	got := d.Filter(NewSourceSet(TopMed, GnomADExomesOther))
	assert.Equal(t, NewData(Of(TopMed, 0.05)), got)

	assert.True(t, d.Filter(NewSourceSet()).IsEmpty())
	assert.Equal(t, d, d.Filter(AllSources()))
	assert.Equal(t, 3, d.Size(), "filtering does not modify the receiver")
}

func TestOfCounts(t *testing.T) {
	f := OfCounts(GnomADExomesAfrican, 3, 600, 0)
	assert.InDelta(t, 0.5, f.Value, 1e-6)
	assert.Equal(t, &AlleleCounts{AC: 3, AN: 600}, f.Counts)

	assert.Zero(t, OfCounts(GnomADExomesAfrican, 0, 0, 0).Value)
}

func TestSourceCodes(t *testing.T) {
	for _, s := range Sources() {
		got, ok := SourceForCode(s.Code())
		require.True(t, ok, s.String())
		assert.Equal(t, s, got)
	}

	s, ok := ParseSource("kg")
	require.True(t, ok)
	assert.Equal(t, ThousandGenomes, s)

	s, ok = ParseSource("THOUSAND_GENOMES")
	require.True(t, ok)
	assert.Equal(t, ThousandGenomes, s)

	_, ok = ParseSource("DBSNP")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", Source(0).String())
}

func TestSources_IncludesEveryEnumerator(t *testing.T) {
	all := Sources()
	require.Len(t, all, 29)
	assert.Equal(t, ThousandGenomes, all[0])
	assert.Equal(t, Local, all[len(all)-1])
	assert.True(t, Local.Valid())
	assert.Equal(t, "LOCAL", Local.Code())
	assert.True(t, AllSources().Contains(Local))
	assert.False(t, (Local + 1).Valid())
}
