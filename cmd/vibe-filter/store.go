package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/duckdb"
	"github.com/inodb/vibe-filter/internal/elastic"
	"github.com/inodb/vibe-filter/internal/filter"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
	"github.com/inodb/vibe-filter/internal/regulatory"
	"github.com/inodb/vibe-filter/internal/variantdata"
)

// openLookup opens the configured annotation store. The returned close
// function is never nil.
func openLookup(ctx context.Context) (variantdata.Lookup, func() error, error) {
	noop := func() error { return nil }

	switch backend := strings.ToLower(viper.GetString("store.backend")); backend {
	case "duckdb":
		path := viper.GetString("store.path")
		store, err := duckdb.Open(path)
		if err != nil {
			return nil, noop, fmt.Errorf("opening allele store: %w", err)
		}
		store.SetLogger(logger)
		if !store.Loaded() {
			logger.Warn("allele store is empty, every variant will be unannotated",
				zap.String("path", path))
		}
		if !viper.GetBool("store.preload") {
			return store, store.Close, nil
		}
		mem, err := store.PreloadToMemory()
		store.Close()
		if err != nil {
			return nil, noop, err
		}
		return mem, noop, nil

	case "elasticsearch", "es":
		store, err := elastic.NewStore(elasticConfig())
		if err != nil {
			return nil, noop, err
		}
		store.SetLogger(logger)
		if err := store.Ping(ctx); err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown store backend %q (want duckdb or elasticsearch)", backend)
	}
}

func elasticConfig() elastic.Config {
	return elastic.Config{
		URL:        viper.GetString("elasticsearch.url"),
		Index:      viper.GetString("elasticsearch.index"),
		Username:   viper.GetString("elasticsearch.username"),
		Password:   viper.GetString("elasticsearch.password"),
		Timeout:    viper.GetDuration("elasticsearch.timeout"),
		MaxRetries: viper.GetInt("elasticsearch.max_retries"),
	}
}

// newService wires the configured store and regulatory classifier.
func newService(ctx context.Context) (*variantdata.DefaultService, func() error, error) {
	store, closeStore, err := openLookup(ctx)
	if err != nil {
		return nil, closeStore, err
	}

	var classifier variantdata.EffectClassifier
	if path := viper.GetString("regulatory.features"); path != "" {
		c, err := regulatory.Load(path)
		if err != nil {
			closeStore()
			return nil, func() error { return nil }, err
		}
		logger.Info("loaded regulatory features", zap.String("path", path), zap.Int("features", c.Len()))
		classifier = c
	}

	svc := variantdata.NewService(store, classifier)
	svc.SetLogger(logger)
	return svc, closeStore, nil
}

// sourceRequest reads sources.frequency and sources.pathogenicity. An empty
// list requests every source.
func sourceRequest() (variantdata.Request, error) {
	req := variantdata.AllSources()

	if names := viper.GetStringSlice("sources.frequency"); len(names) > 0 {
		var list []frequency.Source
		for _, name := range names {
			src, ok := frequency.ParseSource(name)
			if !ok {
				return req, fmt.Errorf("unknown frequency source %q", name)
			}
			list = append(list, src)
		}
		req.FrequencySources = frequency.NewSourceSet(list...)
	}

	if names := viper.GetStringSlice("sources.pathogenicity"); len(names) > 0 {
		var list []pathogenicity.Source
		for _, name := range names {
			src, ok := pathogenicity.ParseSource(name)
			if !ok {
				return req, fmt.Errorf("unknown pathogenicity source %q", name)
			}
			list = append(list, src)
		}
		req.PathogenicitySources = pathogenicity.NewSourceSet(list...)
	}

	return req, nil
}

// filterConfig reads the filters.* and pipeline.* keys. Thresholds that are
// not set leave their filter disabled.
func filterConfig() filter.Config {
	cfg := filter.Config{
		FailedVariant:     viper.GetBool("filters.failed_variant"),
		Quality:           viper.GetFloat64("filters.quality"),
		Interval:          viper.GetString("filters.interval"),
		Bed:               viper.GetString("filters.bed"),
		Effects:           viper.GetStringSlice("filters.effects"),
		KnownVariant:      viper.GetBool("filters.known_variant"),
		KeepNonPathogenic: viper.GetBool("filters.keep_non_pathogenic"),
		Regulatory:        viper.GetBool("filters.regulatory"),
		JointFailure:      viper.GetStringSlice("filters.joint_failure"),
		ShortCircuit:      viper.GetBool("pipeline.short_circuit"),
		SkipOnError:       viper.GetBool("pipeline.skip_on_error"),
	}
	if viper.IsSet("filters.frequency") {
		f := float32(viper.GetFloat64("filters.frequency"))
		cfg.Frequency = &f
	}
	if viper.IsSet("filters.pathogenicity_cutoff") {
		c := float32(viper.GetFloat64("filters.pathogenicity_cutoff"))
		cfg.PathogenicityCutoff = &c
	}
	return cfg
}
