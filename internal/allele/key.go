// Package allele converts raw annotation-store records into frequency and
// pathogenicity data.
package allele

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies one alternate allele: chromosome, 1-based position,
// reference and alternate alleles. Keys are comparable and usable as map keys.
type Key struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
}

// NewKey creates a Key with a normalised chromosome name ("chr" prefix
// removed) and upper-case alleles.
func NewKey(chrom string, pos int64, ref, alt string) Key {
	return Key{
		Chrom: NormalizeChrom(chrom),
		Pos:   pos,
		Ref:   strings.ToUpper(ref),
		Alt:   strings.ToUpper(alt),
	}
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func NormalizeChrom(chrom string) string {
	if len(chrom) > 3 && strings.EqualFold(chrom[:3], "chr") {
		return chrom[3:]
	}
	return chrom
}

// String formats the key as chrom-pos-ref-alt.
func (k Key) String() string {
	return k.Chrom + "-" + strconv.FormatInt(k.Pos, 10) + "-" + k.Ref + "-" + k.Alt
}

// ParseKey parses a chrom-pos-ref-alt string. ':' is accepted as separator too.
func ParseKey(s string) (Key, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ':' })
	if len(fields) != 4 {
		return Key{}, fmt.Errorf("parse allele key %q: expected chrom-pos-ref-alt", s)
	}
	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 1 {
		return Key{}, fmt.Errorf("parse allele key %q: invalid position %q", s, fields[1])
	}
	return NewKey(fields[0], pos, fields[2], fields[3]), nil
}
