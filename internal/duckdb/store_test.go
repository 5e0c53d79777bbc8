package duckdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	krasKey = allele.NewKey("12", 25245350, "C", "A")
	brafKey = allele.NewKey("7", 140753336, "A", "T")
)

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.False(t, s.Loaded())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "alleles.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), []Record{{Key: krasKey, Properties: allele.Properties{"KG": 0.1}}}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestWriteAndLookup(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []Record{
		{Key: krasKey, Properties: allele.Properties{"KG": 0.7, "TOPMED": 0.05}},
		{Key: brafKey, Properties: allele.Properties{"SIFT": 0.01, "POLYPHEN": 0.99}},
	}))

	props, ok, err := s.Lookup(krasKey)
	require.NoError(t, err)
	require.True(t, ok)
	fd, err := allele.ToFrequencyData(props)
	require.NoError(t, err)
	assert.Equal(t, frequency.NewData(
		frequency.Of(frequency.ThousandGenomes, 0.7),
		frequency.Of(frequency.TopMed, 0.05),
	), fd)

	props, ok, err = s.Lookup(brafKey)
	require.NoError(t, err)
	require.True(t, ok)
	pd, err := allele.ToPathogenicityData(props)
	require.NoError(t, err)
	assert.True(t, pd.HasSource(pathogenicity.SIFT))

	_, ok, err = s.Lookup(allele.NewKey("12", 99999, "C", "A"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWrite_ReplacesAndDeduplicates(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []Record{
		{Key: krasKey, Properties: allele.Properties{"KG": 0.1}},
		{Key: krasKey, Properties: allele.Properties{"KG": 0.2}},
	}))
	require.NoError(t, s.Write(ctx, []Record{
		{Key: krasKey, Properties: allele.Properties{"KG": 0.3}},
	}))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	props, ok, err := s.Lookup(krasKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.3, props["KG"])

	assert.NoError(t, s.Write(ctx, nil))
}

func TestLookup_ClinVarRoundTrip(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.Write(context.Background(), []Record{{
		Key: brafKey,
		Properties: allele.Properties{allele.ClinVarKey: map[string]any{
			"alleleId":              "12345",
			"primaryInterpretation": "PATHOGENIC",
			"reviewStatus":          "reviewed by expert panel",
		}},
	}}))

	props, ok, err := s.Lookup(brafKey)
	require.NoError(t, err)
	require.True(t, ok)
	pd, err := allele.ToPathogenicityData(props)
	require.NoError(t, err)
	cv, ok := pd.ClinVar()
	require.True(t, ok)
	assert.Equal(t, pathogenicity.Pathogenic, cv.Primary)
	assert.Equal(t, 3, cv.StarRating())
}

func TestLookup_Concurrent(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.Write(context.Background(), []Record{{Key: krasKey, Properties: allele.Properties{"KG": 0.1}}}))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := s.Lookup(krasKey)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

const testTSV = "chrom\tpos\tref\talt\tproperties\n" +
	"chr12\t25245350\tc\ta\t{\"KG\": 0.7, \"TOPMED\": 0.05}\n" +
	"7\t140753336\tA\tT\t{\"SIFT\": 0.01, \"CLINVAR\": {\"alleleId\": \"1\", \"primaryInterpretation\": \"LIKELY_PATHOGENIC\"}}\n"

func writeTSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alleles.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTSV(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()
	path := writeTSV(t, testTSV)

	loaded, err := s.LoadTSV(ctx, path)
	require.NoError(t, err)
	assert.True(t, loaded)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Chromosome and alleles are normalised to match allele.NewKey.
	props, ok, err := s.Lookup(krasKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.7, props["KG"])

	sources, err := s.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, path, sources[0].Path)
	assert.Equal(t, int64(2), sources[0].Records)
}

func TestLoadTSV_SkipsUnchangedFile(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()
	path := writeTSV(t, testTSV)

	loaded, err := s.LoadTSV(ctx, path)
	require.NoError(t, err)
	require.True(t, loaded)

	loaded, err = s.LoadTSV(ctx, path)
	require.NoError(t, err)
	assert.False(t, loaded, "unchanged file is not reloaded")

	// Touching the file invalidates the fingerprint.
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	loaded, err = s.LoadTSV(ctx, path)
	require.NoError(t, err)
	assert.True(t, loaded)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "reload replaces rows")
}

func TestLoadTSV_MissingFile(t *testing.T) {
	s := openInMemory(t)
	_, err := s.LoadTSV(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}

func TestPreloadToMemory(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.Write(context.Background(), []Record{
		{Key: krasKey, Properties: allele.Properties{"KG": 0.7}},
		{Key: brafKey, Properties: allele.Properties{"REVEL": 0.9}},
	}))

	mem, err := s.PreloadToMemory()
	require.NoError(t, err)
	assert.Equal(t, 2, mem.Len())

	for _, k := range []allele.Key{krasKey, brafKey} {
		want, _, err := s.Lookup(k)
		require.NoError(t, err)
		got, ok, err := mem.Lookup(k)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestClear(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()
	_, err := s.LoadTSV(ctx, writeTSV(t, testTSV))
	require.NoError(t, err)
	require.True(t, s.Loaded())

	require.NoError(t, s.Clear())
	assert.False(t, s.Loaded())
	sources, err := s.Sources()
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestFileFingerprint_Matches(t *testing.T) {
	now := time.Now()
	fp := FileFingerprint{Path: "a.tsv", Size: 100, ModTimeNanos: now.UnixNano()}

	assert.True(t, fp.Matches(fp))

	changed := fp
	changed.Size = 101
	assert.False(t, fp.Matches(changed))

	changed = fp
	changed.ModTimeNanos = now.Add(time.Second).UnixNano()
	assert.False(t, fp.Matches(changed))
}

func TestEach_StopsOnCallbackError(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.Write(context.Background(), []Record{
		{Key: krasKey, Properties: allele.Properties{"KG": 0.7}},
		{Key: brafKey, Properties: allele.Properties{"REVEL": 0.9}},
	}))

	var seen int
	require.NoError(t, s.Each(context.Background(), func(Record) error {
		seen++
		return nil
	}))
	assert.Equal(t, 2, seen)

	stop := errors.New("stop")
	seen = 0
	err := s.Each(context.Background(), func(Record) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}
