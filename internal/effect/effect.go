// Package effect defines variant effect classifications (Sequence Ontology terms).
package effect

import "strings"

// VariantEffect is a Sequence Ontology consequence term.
type VariantEffect string

// Effects used by the filters. SequenceVariant means "no classification".
const (
	RegulatoryRegionVariant VariantEffect = "regulatory_region_variant"
	TFBindingSiteVariant    VariantEffect = "TF_binding_site_variant"
	SequenceVariant         VariantEffect = "sequence_variant"

	IntergenicVariant     VariantEffect = "intergenic_variant"
	UpstreamGeneVariant   VariantEffect = "upstream_gene_variant"
	DownstreamGeneVariant VariantEffect = "downstream_gene_variant"
	IntronVariant         VariantEffect = "intron_variant"
	SynonymousVariant     VariantEffect = "synonymous_variant"
	MissenseVariant       VariantEffect = "missense_variant"
	StopGained            VariantEffect = "stop_gained"
	FrameshiftVariant     VariantEffect = "frameshift_variant"
)

// IsRegulatory reports whether e falls in a regulatory feature.
func (e VariantEffect) IsRegulatory() bool {
	return e == RegulatoryRegionVariant || e == TFBindingSiteVariant
}

// Parse normalises a term; unknown terms are kept verbatim so that
// classifications from newer annotation engines pass through.
func Parse(s string) VariantEffect {
	s = strings.TrimSpace(s)
	if s == "" {
		return SequenceVariant
	}
	if strings.EqualFold(s, string(TFBindingSiteVariant)) {
		return TFBindingSiteVariant
	}
	return VariantEffect(strings.ToLower(s))
}

func (e VariantEffect) String() string {
	return string(e)
}
