package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/evaluation"
	"github.com/inodb/vibe-filter/internal/filter"
	"github.com/inodb/vibe-filter/internal/maf"
	"github.com/inodb/vibe-filter/internal/output"
	"github.com/inodb/vibe-filter/internal/variantdata"
	"github.com/inodb/vibe-filter/internal/vcf"
)

func newFilterCmd() *cobra.Command {
	var (
		outputFile   string
		outputFormat string
		inputFormat  string
		passedOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "filter [flags] <input>",
		Short: "Annotate and filter variants in a VCF or MAF file",
		Long: `Annotate each variant with frequency, pathogenicity and regulatory data from
the configured store, run the enabled filters and write one record per variant.

Filters run in a fixed order: failed_variant, quality, interval, bed,
variant_effect, known_variant, frequency, pathogenicity, regulatory_feature,
joint_failure. A filter is enabled by setting its threshold or switch.`,
		Example: `  vibe-filter filter input.vcf
  vibe-filter filter --frequency 1.0 --pathogenicity-cutoff 0.5 input.vcf.gz
  vibe-filter filter --bed targets.bed -f vcf -o filtered.vcf input.vcf
  vibe-filter filter --known-variant data_mutations.txt
  cat input.vcf | vibe-filter filter --passed-only -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := inputFormat
			if format == "" {
				format = detectInputFormat(args[0])
			}
			return runFilter(cmd, args[0], format, outputFile, outputFormat, passedOnly)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.StringVarP(&outputFormat, "output-format", "f", "tab", "Output format: "+strings.Join(output.Formats, ", "))
	flags.StringVar(&inputFormat, "input-format", "", "Input format: vcf, maf (auto-detected if not specified)")
	flags.BoolVar(&passedOnly, "passed-only", false, "Only write variants that passed every filter")

	flags.Bool("failed-variant", false, "Fail variants whose VCF FILTER is not PASS")
	flags.Float64("quality", 0, "Minimum QUAL")
	flags.String("interval", "", "Keep variants in chrom:start-end")
	flags.String("bed", "", "Keep variants overlapping a BED file of target regions")
	flags.StringSlice("exclude-effects", nil, "Variant effects to fail")
	flags.Bool("known-variant", false, "Fail variants present in any frequency source")
	flags.Float64("frequency", 0, "Maximum population frequency, in percent")
	flags.Float64("pathogenicity-cutoff", 0, "Minimum pathogenicity score")
	flags.Bool("keep-non-pathogenic", false, "Pass variants below the pathogenicity cutoff")
	flags.Bool("regulatory", false, "Fail non-coding variants outside regulatory features")
	flags.StringSlice("joint-failure", nil, "Filter types that fail jointly")
	flags.Bool("short-circuit", false, "Stop filtering a variant at its first failure")
	flags.Bool("skip-on-error", false, "Log and skip variants whose filters error")
	flags.Int("workers", 0, "Parallel workers (default: number of CPUs)")

	for key, name := range map[string]string{
		"filters.failed_variant":       "failed-variant",
		"filters.quality":              "quality",
		"filters.interval":             "interval",
		"filters.bed":                  "bed",
		"filters.effects":              "exclude-effects",
		"filters.known_variant":        "known-variant",
		"filters.frequency":            "frequency",
		"filters.pathogenicity_cutoff": "pathogenicity-cutoff",
		"filters.keep_non_pathogenic":  "keep-non-pathogenic",
		"filters.regulatory":           "regulatory",
		"filters.joint_failure":        "joint-failure",
		"pipeline.short_circuit":       "short-circuit",
		"pipeline.skip_on_error":       "skip-on-error",
		"pipeline.workers":             "workers",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

func runFilter(cmd *cobra.Command, inputPath, inputFormat, outputFile, outputFormat string, passedOnly bool) error {
	ctx := cmd.Context()
	start := time.Now()

	pipeline, err := filter.FromConfig(filterConfig())
	if err != nil {
		return err
	}
	pipeline.SetLogger(logger)

	req, err := sourceRequest()
	if err != nil {
		return err
	}

	workers := viper.GetInt("pipeline.workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	variants, err := readVariants(inputPath, inputFormat)
	if err != nil {
		return err
	}
	logger.Info("read variants",
		zap.String("input", inputPath),
		zap.String("format", inputFormat),
		zap.Int("variants", len(variants)))

	svc, closeStore, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	evs, err := variantdata.AnnotateAll(ctx, svc, variants, req, workers)
	if err != nil {
		if !variantdata.IsDecodeError(err) {
			return fmt.Errorf("annotating variants: %w", err)
		}
		logger.Warn("some annotation records could not be decoded", zap.Error(err))
	}

	runID, err := pipeline.RunAll(ctx, evs, workers)
	if err != nil {
		return fmt.Errorf("filter run %s: %w", runID, err)
	}

	var out io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := output.NewWriter(outputFormat, out, "vibe-filter "+version)
	if err != nil {
		return err
	}
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	counts := make(map[evaluation.FilterStatus]int)
	for _, ev := range evs {
		status := ev.Status()
		counts[status]++
		if passedOnly && status != evaluation.Passed {
			continue
		}
		if err := w.Write(ev); err != nil {
			return fmt.Errorf("writing %s: %w", ev.Variant().Key(), err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	logger.Info("filtering complete",
		zap.String("run", runID),
		zap.Int("passed", counts[evaluation.Passed]),
		zap.Int("failed", counts[evaluation.Failed]),
		zap.Int("unfiltered", counts[evaluation.Unfiltered]),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func readVariants(path, format string) ([]vcf.Variant, error) {
	var (
		parser vcf.VariantParser
		err    error
	)
	switch format {
	case "vcf":
		parser, err = vcf.NewParser(path)
	case "maf":
		parser, err = maf.NewParser(path)
	default:
		return nil, fmt.Errorf("unknown input format %q (want vcf or maf)", format)
	}
	if err != nil {
		return nil, err
	}
	defer parser.Close()
	return vcf.ReadAll(parser)
}

// detectInputFormat detects the input file format based on extension or content.
func detectInputFormat(path string) string {
	lowerPath := strings.TrimSuffix(strings.ToLower(path), ".gz")

	switch {
	case strings.HasSuffix(lowerPath, ".vcf"):
		return "vcf"
	case strings.HasSuffix(lowerPath, ".maf"):
		return "maf"
	}

	// cBioPortal MAF filenames
	baseName := filepath.Base(lowerPath)
	if baseName == "data_mutations.txt" || baseName == "data_mutations_extended.txt" {
		return "maf"
	}

	if path == "-" {
		return "vcf"
	}

	file, err := os.Open(path)
	if err != nil {
		return "vcf"
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil || n == 0 {
		return "vcf"
	}
	content := string(buf[:n])

	if strings.HasPrefix(content, "##fileformat=VCF") || strings.HasPrefix(content, "#CHROM") {
		return "vcf"
	}
	if strings.Contains(content, "Tumor_Seq_Allele2") && strings.Contains(content, "Chromosome") {
		return "maf"
	}
	return "vcf"
}
