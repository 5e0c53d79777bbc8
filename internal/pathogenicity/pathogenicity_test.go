package pathogenicity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_OnlyRequestedSources(t *testing.T) {
	d := NewData(Of(SIFT, 0.2), Of(Polyphen, 0.9))

	got := d.Filter(NewSourceSet(SIFT))
	assert.Equal(t, NewData(Of(SIFT, 0.2)), got)
	assert.False(t, got.HasSource(Polyphen))
}

func TestFilter_KeepsClinVar(t *testing.T) {
	cv := ClinVar{AlleleID: "1", Primary: Pathogenic}
	d := NewData(Of(CADD, 0.5)).WithClinVar(cv)

	got := d.Filter(NewSourceSet(REVEL))
	assert.Empty(t, got.Scores())
	gotCV, ok := got.ClinVar()
	require.True(t, ok)
	assert.Equal(t, cv, gotCV)
}

func TestWithClinVar_ZeroIsAbsent(t *testing.T) {
	d := Empty().WithClinVar(ClinVar{})
	assert.False(t, d.HasClinVar())
	assert.True(t, d.IsEmpty())

	d = Empty().WithClinVar(ClinVar{ReviewStatus: "no assertion criteria provided"})
	assert.True(t, d.HasClinVar())
	assert.False(t, d.IsEmpty())
}

func TestMostPathogenicScore(t *testing.T) {
	_, ok := Empty().MostPathogenicScore()
	assert.False(t, ok)

	// SIFT 0.01 normalizes to 0.99, beating PolyPhen 0.9.
	d := NewData(Of(Polyphen, 0.9), Of(SIFT, 0.01), Of(MutationTaster, 0.5))
	best, ok := d.MostPathogenicScore()
	require.True(t, ok)
	assert.Equal(t, SIFT, best.Source)
	assert.InDelta(t, 0.99, best.Normalized(), 1e-6)
}

func TestClinSig(t *testing.T) {
	for i := 0; i < int(numClinSigs); i++ {
		c := ClinSig(i)
		parsed, ok := ParseClinSig(c.String())
		require.True(t, ok)
		assert.Equal(t, c, parsed)
	}

	c, ok := ParseClinSig("conflicting")
	require.True(t, ok)
	assert.Equal(t, ConflictingPathogenicityInterpretations, c)

	_, ok = ClinSigFromCode(99)
	assert.False(t, ok)

	assert.True(t, LikelyPathogenic.IsPathogenicOrLikelyPathogenic())
	assert.False(t, ConflictingPathogenicityInterpretations.IsPathogenicOrLikelyPathogenic())
}

func TestClinSigSet(t *testing.T) {
	set := NewClinSigSet(Benign, Pathogenic, Benign)
	assert.Len(t, set, 2)
	assert.Equal(t, []ClinSig{Benign, Pathogenic}, set.Sorted())
	assert.Nil(t, NewClinSigSet())
}

func TestStarRating(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{"practice guideline", 4},
		{"reviewed_by_expert_panel", 3},
		{"criteria provided, multiple submitters, no conflicts", 2},
		{"criteria provided, single submitter", 1},
		{"no assertion criteria provided", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, ClinVar{ReviewStatus: tt.status}.StarRating())
		})
	}
}

func TestSourceCodes(t *testing.T) {
	s, ok := SourceForCode("MUT_TASTER")
	require.True(t, ok)
	assert.Equal(t, MutationTaster, s)

	s, ok = ParseSource("m_cap")
	require.True(t, ok)
	assert.Equal(t, MCAP, s)

	_, ok = SourceForCode("ALPHAMISSENSE")
	assert.False(t, ok)
}

func TestSources_IncludesEveryEnumerator(t *testing.T) {
	all := Sources()
	require.Len(t, all, 10)
	assert.Equal(t, Polyphen, all[0])
	assert.Equal(t, PrimateAI, all[len(all)-1])
	assert.True(t, PrimateAI.Valid())
	assert.Equal(t, "PRIMATE_AI", PrimateAI.String())
	assert.True(t, AllSources().Contains(PrimateAI))
	assert.False(t, (PrimateAI + 1).Valid())
}
