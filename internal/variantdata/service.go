// Package variantdata looks up annotation records for variants and turns them
// into frequency, pathogenicity and regulatory data.
package variantdata

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/effect"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
)

// Lookup fetches the raw annotation record for an allele. A missing record
// is (nil, false, nil); errors are reserved for store failures.
// Implementations must be safe for concurrent use.
type Lookup interface {
	Lookup(key allele.Key) (allele.Properties, bool, error)
}

// EffectClassifier classifies the functional effect of an allele.
type EffectClassifier interface {
	Classify(key allele.Key) effect.VariantEffect
}

// Service provides per-variant annotation data restricted to the requested
// sources.
type Service interface {
	FrequencyData(key allele.Key, sources frequency.SourceSet) (frequency.Data, error)
	PathogenicityData(key allele.Key, sources pathogenicity.SourceSet) (pathogenicity.Data, error)
	RegulatoryEffect(key allele.Key) effect.VariantEffect
}

// DefaultService implements Service over a Lookup and an optional
// EffectClassifier.
type DefaultService struct {
	store      Lookup
	classifier EffectClassifier
	logger     *zap.Logger
}

// NewService creates a service. classifier may be nil, in which case every
// variant is classified as sequence_variant.
func NewService(store Lookup, classifier EffectClassifier) *DefaultService {
	return &DefaultService{
		store:      store,
		classifier: classifier,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for misses and decode errors.
func (s *DefaultService) SetLogger(l *zap.Logger) {
	s.logger = l
}

// FrequencyData returns the frequencies recorded for key from the requested
// sources. A decode error is returned together with whatever decoded cleanly.
func (s *DefaultService) FrequencyData(key allele.Key, sources frequency.SourceSet) (frequency.Data, error) {
	props, ok, err := s.lookup(key)
	if err != nil || !ok {
		return frequency.Empty(), err
	}
	data, err := allele.ToFrequencyData(props)
	data = data.Filter(sources)
	if err != nil {
		s.logger.Warn("frequency decode error", zap.Stringer("key", key), zap.Error(err))
		return data, fmt.Errorf("frequency data for %s: %w", key, err)
	}
	return data, nil
}

// PathogenicityData returns the pathogenicity scores recorded for key from
// the requested sources, plus any ClinVar record.
func (s *DefaultService) PathogenicityData(key allele.Key, sources pathogenicity.SourceSet) (pathogenicity.Data, error) {
	props, ok, err := s.lookup(key)
	if err != nil || !ok {
		return pathogenicity.Empty(), err
	}
	data, err := allele.ToPathogenicityData(props)
	data = data.Filter(sources)
	if err != nil {
		s.logger.Warn("pathogenicity decode error", zap.Stringer("key", key), zap.Error(err))
		return data, fmt.Errorf("pathogenicity data for %s: %w", key, err)
	}
	return data, nil
}

// RegulatoryEffect returns the classifier's verdict unchanged.
func (s *DefaultService) RegulatoryEffect(key allele.Key) effect.VariantEffect {
	if s.classifier == nil {
		return effect.SequenceVariant
	}
	return s.classifier.Classify(key)
}

func (s *DefaultService) lookup(key allele.Key) (allele.Properties, bool, error) {
	props, ok, err := s.store.Lookup(key)
	if err != nil {
		return nil, false, fmt.Errorf("lookup %s: %w", key, err)
	}
	if !ok {
		s.logger.Debug("no annotation record", zap.Stringer("key", key))
	}
	return props, ok, nil
}
