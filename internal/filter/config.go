package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/vibe-filter/internal/effect"
	"github.com/inodb/vibe-filter/internal/evaluation"
)

// Config selects and parameterises filters. Nil pointers and zero values
// disable a filter.
type Config struct {
	FailedVariant       bool
	Quality             float64
	Interval            string
	Bed                 string
	Effects             []string
	KnownVariant        bool
	Frequency           *float32
	PathogenicityCutoff *float32
	KeepNonPathogenic   bool
	Regulatory          bool
	JointFailure        []string

	ShortCircuit bool
	SkipOnError  bool
}

// FromConfig builds a pipeline with the enabled filters in filter-type order.
func FromConfig(cfg Config) (*Pipeline, error) {
	var filters []Filter

	if cfg.FailedVariant {
		filters = append(filters, FailedVariant{})
	}
	if cfg.Quality > 0 {
		filters = append(filters, Quality{Min: cfg.Quality})
	}
	if cfg.Interval != "" {
		iv, err := ParseInterval(cfg.Interval)
		if err != nil {
			return nil, err
		}
		filters = append(filters, iv)
	}
	if cfg.Bed != "" {
		bed, err := LoadBed(cfg.Bed)
		if err != nil {
			return nil, fmt.Errorf("load bed filter: %w", err)
		}
		filters = append(filters, bed)
	}
	if len(cfg.Effects) > 0 {
		effects := make([]effect.VariantEffect, len(cfg.Effects))
		for i, e := range cfg.Effects {
			effects[i] = effect.Parse(e)
		}
		filters = append(filters, NewVariantEffect(effects...))
	}
	if cfg.KnownVariant {
		filters = append(filters, KnownVariant{})
	}
	if cfg.Frequency != nil {
		if *cfg.Frequency < 0 || *cfg.Frequency > 100 {
			return nil, fmt.Errorf("frequency cutoff %v is not a percentage", *cfg.Frequency)
		}
		filters = append(filters, Frequency{MaxFreq: *cfg.Frequency})
	}
	if cfg.PathogenicityCutoff != nil || cfg.KeepNonPathogenic {
		f := Pathogenicity{KeepNonPathogenic: cfg.KeepNonPathogenic}
		if cfg.PathogenicityCutoff != nil {
			f.Cutoff = *cfg.PathogenicityCutoff
		}
		filters = append(filters, f)
	}
	if cfg.Regulatory {
		filters = append(filters, RegulatoryFeature{})
	}
	if len(cfg.JointFailure) > 0 {
		types := make([]evaluation.FilterType, len(cfg.JointFailure))
		for i, name := range cfg.JointFailure {
			t, err := evaluation.ParseFilterType(name)
			if err != nil {
				return nil, fmt.Errorf("joint failure: %w", err)
			}
			types[i] = t
		}
		filters = append(filters, JointFailure{Types: types})
	}

	p := NewPipeline(filters...)
	p.ShortCircuit = cfg.ShortCircuit
	p.SkipOnError = cfg.SkipOnError
	return p, nil
}

// ParseInterval parses "chrom:start-end" (1-based, inclusive).
func ParseInterval(s string) (Interval, error) {
	chrom, rng, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || chrom == "" {
		return Interval{}, fmt.Errorf("invalid interval %q: expected chrom:start-end", s)
	}
	startStr, endStr, ok := strings.Cut(rng, "-")
	if !ok {
		return Interval{}, fmt.Errorf("invalid interval %q: expected chrom:start-end", s)
	}
	start, err := strconv.ParseInt(strings.ReplaceAll(startStr, ",", ""), 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval start %q: %w", startStr, err)
	}
	end, err := strconv.ParseInt(strings.ReplaceAll(endStr, ",", ""), 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval end %q: %w", endStr, err)
	}
	if start < 1 || end < start {
		return Interval{}, fmt.Errorf("invalid interval %q", s)
	}
	return Interval{Chrom: chrom, Start: start, End: end}, nil
}
