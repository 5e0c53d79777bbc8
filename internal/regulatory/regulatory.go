// Package regulatory classifies alleles by overlap with regulatory features
// such as enhancers, promoters and transcription-factor binding sites.
package regulatory

import (
	"fmt"
	"strings"

	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/effect"
	"github.com/inodb/vibe-filter/internal/interval"
)

// Feature is one regulatory region.
type Feature struct {
	Chrom string
	Start int64 // 1-based, inclusive
	End   int64
	Type  string // e.g. "enhancer", "promoter", "TF_binding_site"
}

// Effect returns the variant effect of an allele overlapping the feature.
func (f Feature) Effect() effect.VariantEffect {
	switch strings.ToLower(f.Type) {
	case "tf_binding_site", "tfbs", "tf_binding_site_variant":
		return effect.TFBindingSiteVariant
	default:
		return effect.RegulatoryRegionVariant
	}
}

// Classifier assigns regulatory effects by feature overlap. It is built once
// and safe for concurrent use.
type Classifier struct {
	features interval.Index[Feature]
}

// NewClassifier indexes features.
func NewClassifier(features []Feature) *Classifier {
	regions := make([]interval.Region, len(features))
	for i, f := range features {
		regions[i] = interval.Region{Chrom: allele.NormalizeChrom(f.Chrom), Start: f.Start, End: f.End, Name: f.Type}
	}
	return &Classifier{features: interval.BuildIndex(regions, featureOf)}
}

// Load builds a classifier from a BED file whose name column holds the
// feature type. Gzipped files are read transparently.
func Load(path string) (*Classifier, error) {
	regions, err := interval.LoadBED(path)
	if err != nil {
		return nil, fmt.Errorf("load regulatory features: %w", err)
	}
	return &Classifier{features: interval.BuildIndex(regions, featureOf)}, nil
}

func featureOf(r interval.Region) Feature {
	return Feature{Chrom: r.Chrom, Start: r.Start, End: r.End, Type: r.Name}
}

// Len returns the number of indexed features.
func (c *Classifier) Len() int {
	return c.features.Len()
}

// Features returns the features overlapping the reference span of key.
func (c *Classifier) Features(key allele.Key) []Feature {
	return c.features.FindRange(key.Chrom, key.Pos, end(key))
}

// Classify returns TF_binding_site_variant when key overlaps a binding site,
// regulatory_region_variant when it overlaps any other feature and
// sequence_variant otherwise.
func (c *Classifier) Classify(key allele.Key) effect.VariantEffect {
	result := effect.SequenceVariant
	for _, f := range c.Features(key) {
		e := f.Effect()
		if e == effect.TFBindingSiteVariant {
			return e
		}
		result = e
	}
	return result
}

func end(key allele.Key) int64 {
	if len(key.Ref) <= 1 {
		return key.Pos
	}
	return key.Pos + int64(len(key.Ref)) - 1
}
