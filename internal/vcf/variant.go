// Package vcf reads variants from VCF files.
package vcf

import "github.com/inodb/vibe-filter/internal/allele"

// Variant is a single alternate allele read from a VCF record. Multi-allelic
// records are split so that each Variant carries exactly one Alt. Variants
// are passed by value and never modified after parsing.
type Variant struct {
	Chrom  string  // Chromosome name as written in the file (e.g., "12", "chr12")
	Pos    int64   // 1-based genomic position
	ID     string  // Variant identifier (e.g., rs ID)
	Ref    string  // Reference allele
	Alt    string  // Alternate allele
	Qual   float64 // Quality score, 0 when missing
	Filter string  // Filter status (PASS, "." or filter names)
}

// Key returns the annotation-store key for this allele.
func (v Variant) Key() allele.Key {
	return allele.NewKey(v.Chrom, v.Pos, v.Ref, v.Alt)
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// PassedVCFFilter reports whether the caller's own FILTER column passed.
// Unfiltered records (".") count as passing.
func (v Variant) PassedVCFFilter() bool {
	return v.Filter == "" || v.Filter == "PASS" || v.Filter == "."
}

// End returns the last reference base covered by the variant.
func (v Variant) End() int64 {
	if len(v.Ref) == 0 {
		return v.Pos
	}
	return v.Pos + int64(len(v.Ref)) - 1
}
