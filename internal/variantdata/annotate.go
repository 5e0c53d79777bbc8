package variantdata

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/evaluation"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
	"github.com/inodb/vibe-filter/internal/vcf"
)

// Request names the sources to retrieve for each variant.
type Request struct {
	FrequencySources     frequency.SourceSet
	PathogenicitySources pathogenicity.SourceSet
}

// AllSources requests every known source.
func AllSources() Request {
	return Request{
		FrequencySources:     frequency.AllSources(),
		PathogenicitySources: pathogenicity.AllSources(),
	}
}

// Annotate builds an evaluation for v. Decode errors do not prevent the
// evaluation from being built: it is returned along with the error, carrying
// whatever decoded cleanly. Store errors return a nil evaluation.
func Annotate(svc Service, v vcf.Variant, req Request) (*evaluation.Evaluation, error) {
	key := v.Key()

	fd, ferr := svc.FrequencyData(key, req.FrequencySources)
	if ferr != nil && !IsDecodeError(ferr) {
		return nil, ferr
	}
	pd, perr := svc.PathogenicityData(key, req.PathogenicitySources)
	if perr != nil && !IsDecodeError(perr) {
		return nil, perr
	}

	ev := evaluation.NewBuilder(v).
		FrequencyData(fd).
		PathogenicityData(pd).
		Effect(svc.RegulatoryEffect(key)).
		Build()
	return ev, multierr.Append(ferr, perr)
}

// AnnotateAll annotates variants concurrently with at most workers lookups in
// flight and returns evaluations in input order. A store error cancels the
// remaining work and is returned alone. Decode errors are combined and
// returned with the complete result.
func AnnotateAll(ctx context.Context, svc Service, variants []vcf.Variant, req Request, workers int) ([]*evaluation.Evaluation, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	evs := make([]*evaluation.Evaluation, len(variants))
	decodeErrs := make([]error, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range variants {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev, err := Annotate(svc, v, req)
			if ev == nil {
				return err
			}
			evs[i] = ev
			decodeErrs[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return evs, multierr.Combine(decodeErrs...)
}

// IsDecodeError reports whether err contains an annotation decode error.
func IsDecodeError(err error) bool {
	var de *allele.DecodeError
	return errors.As(err, &de)
}
