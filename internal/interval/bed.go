package interval

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/inodb/vibe-filter/internal/allele"
)

// Region is one BED line converted to 1-based inclusive coordinates.
type Region struct {
	Chrom string // normalised, without "chr"
	Start int64
	End   int64
	Name  string // fourth column, empty when absent
}

// ReadBED parses BED records from r. Header, track, browser and comment lines
// are skipped. Only the first four columns are used.
func ReadBED(r io.Reader) ([]Region, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var regions []Region
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("bed line %d: expected at least 3 columns, got %d", lineNum, len(fields))
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed line %d: invalid start %q: %w", lineNum, fields[1], err)
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed line %d: invalid end %q: %w", lineNum, fields[2], err)
		}
		if start < 0 || end <= start {
			return nil, fmt.Errorf("bed line %d: invalid interval %d-%d", lineNum, start, end)
		}
		reg := Region{
			Chrom: allele.NormalizeChrom(fields[0]),
			Start: start + 1,
			End:   end,
		}
		if len(fields) > 3 {
			reg.Name = strings.TrimSpace(fields[3])
		}
		regions = append(regions, reg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading bed: %w", err)
	}
	return regions, nil
}

// LoadBED reads a BED file, transparently decompressing ".gz" files.
func LoadBED(path string) ([]Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bed file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip bed %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	regions, err := ReadBED(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regions, nil
}

// Index holds one Tree per chromosome.
type Index[T any] map[string]*Tree[T]

// BuildIndex groups regions by chromosome and builds a tree for each, using
// value to compute the payload of every region.
func BuildIndex[T any](regions []Region, value func(Region) T) Index[T] {
	byChrom := make(map[string][]Interval[T])
	for _, r := range regions {
		byChrom[r.Chrom] = append(byChrom[r.Chrom], Interval[T]{Start: r.Start, End: r.End, Value: value(r)})
	}
	idx := make(Index[T], len(byChrom))
	for chrom, ivs := range byChrom {
		idx[chrom] = Build(ivs)
	}
	return idx
}

// FindRange returns the values overlapping [start, end] on chrom.
func (idx Index[T]) FindRange(chrom string, start, end int64) []T {
	tree, ok := idx[allele.NormalizeChrom(chrom)]
	if !ok {
		return nil
	}
	return tree.FindRange(start, end)
}

// Overlaps reports whether any region on chrom overlaps [start, end].
func (idx Index[T]) Overlaps(chrom string, start, end int64) bool {
	tree, ok := idx[allele.NormalizeChrom(chrom)]
	return ok && tree.Overlaps(start, end)
}

// Len returns the total number of intervals.
func (idx Index[T]) Len() int {
	n := 0
	for _, tree := range idx {
		n += tree.Len()
	}
	return n
}
