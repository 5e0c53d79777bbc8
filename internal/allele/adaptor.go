package allele

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"

	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
)

// ClinVarKey is the property key holding the structured ClinVar payload.
const ClinVarKey = "CLINVAR"

// Properties is a raw annotation-store record: property key to value. Values
// are numbers, allele-count blocks or, under ClinVarKey, a ClinVar payload.
type Properties map[string]any

// sortedKeys returns the keys in lexical order so that decoding and error
// reporting are deterministic.
func (p Properties) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToFrequencyData decodes the frequency properties of p. Unknown keys are
// ignored. Malformed values are reported as *DecodeError (several are
// combined with multierr) and the Data built from the remaining keys is
// returned alongside the error.
func ToFrequencyData(p Properties) (frequency.Data, error) {
	var (
		freqs []frequency.Frequency
		errs  error
	)
	for _, key := range p.sortedKeys() {
		src, ok := frequency.SourceForCode(key)
		if !ok || p[key] == nil {
			continue
		}
		f, err := decodeFrequency(key, src, p[key])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		freqs = append(freqs, f)
	}
	return frequency.NewData(freqs...), errs
}

// ToPathogenicityData decodes predictor scores and the ClinVar payload of p.
// Error handling follows ToFrequencyData.
func ToPathogenicityData(p Properties) (pathogenicity.Data, error) {
	var (
		scores []pathogenicity.Score
		errs   error
	)
	for _, key := range p.sortedKeys() {
		src, ok := pathogenicity.SourceForCode(key)
		if !ok || p[key] == nil {
			continue
		}
		v, err := decodeScore(key, p[key])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		scores = append(scores, pathogenicity.Of(src, rescale(src, v)))
	}

	data := pathogenicity.NewData(scores...)
	if raw, ok := p[ClinVarKey]; ok && raw != nil {
		cv, err := decodeClinVar(raw)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			data = data.WithClinVar(cv)
		}
	}
	return data, errs
}

// rescale converts a stored score to the internal range. Every predictor is
// currently stored on its native [0,1] scale, so values pass through.
func rescale(_ pathogenicity.Source, v float32) float32 {
	return v
}

func decodeFrequency(key string, src frequency.Source, raw any) (frequency.Frequency, error) {
	if counts, ok := raw.(map[string]any); ok {
		var c struct {
			AC  int `mapstructure:"ac"`
			AN  int `mapstructure:"an"`
			Hom int `mapstructure:"hom"`
		}
		if err := mapstructure.Decode(counts, &c); err != nil {
			return frequency.Frequency{}, &DecodeError{Key: key, Expected: "allele count block {ac, an, hom}", Actual: err.Error()}
		}
		if c.AC < 0 || c.AN < 0 || c.AC > c.AN {
			return frequency.Frequency{}, &DecodeError{
				Key:      key,
				Field:    "ac",
				Expected: "0 <= ac <= an",
				Actual:   strconv.Itoa(c.AC) + "/" + strconv.Itoa(c.AN),
			}
		}
		return frequency.OfCounts(src, c.AC, c.AN, c.Hom), nil
	}

	v, err := decodeScore(key, raw)
	if err != nil {
		return frequency.Frequency{}, err
	}
	if v < 0 {
		return frequency.Frequency{}, &DecodeError{Key: key, Expected: "non-negative frequency", Actual: strconv.FormatFloat(float64(v), 'g', -1, 32)}
	}
	return frequency.Of(src, v), nil
}

func decodeScore(key string, raw any) (float32, error) {
	v, ok := toFloat(raw)
	if !ok {
		return 0, &DecodeError{Key: key, Expected: "number", Actual: describe(raw)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DecodeError{Key: key, Expected: "finite number", Actual: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	return float32(v), nil
}

func toFloat(raw any) (float64, bool) {
	if n, ok := raw.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	default:
		return 0, false
	}
}

// clinVarPayload is the wire shape of the ClinVar block. Enum fields are
// decoded separately so that a bad value can be reported precisely.
type clinVarPayload struct {
	AlleleID                 string         `mapstructure:"alleleId"`
	PrimaryInterpretation    any            `mapstructure:"primaryInterpretation"`
	SecondaryInterpretations []any          `mapstructure:"secondaryInterpretations"`
	IncludedAlleles          map[string]any `mapstructure:"includedAlleles"`
	ReviewStatus             string         `mapstructure:"reviewStatus"`
}

func decodeClinVar(raw any) (pathogenicity.ClinVar, error) {
	var w clinVarPayload
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &w,
		WeaklyTypedInput: true, // numeric allele ids become strings
	})
	if err != nil {
		return pathogenicity.ClinVar{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return pathogenicity.ClinVar{}, &DecodeError{Key: ClinVarKey, Expected: "ClinVar payload", Actual: err.Error()}
	}

	cv := pathogenicity.ClinVar{
		AlleleID:     w.AlleleID,
		ReviewStatus: w.ReviewStatus,
	}

	if w.PrimaryInterpretation != nil {
		cv.Primary, err = decodeClinSig("primaryInterpretation", w.PrimaryInterpretation)
		if err != nil {
			return pathogenicity.ClinVar{}, err
		}
	}

	if len(w.SecondaryInterpretations) > 0 {
		sigs := make([]pathogenicity.ClinSig, 0, len(w.SecondaryInterpretations))
		for i, s := range w.SecondaryInterpretations {
			sig, err := decodeClinSig("secondaryInterpretations["+strconv.Itoa(i)+"]", s)
			if err != nil {
				return pathogenicity.ClinVar{}, err
			}
			sigs = append(sigs, sig)
		}
		cv.Secondary = pathogenicity.NewClinSigSet(sigs...)
	}

	if len(w.IncludedAlleles) > 0 {
		cv.IncludedAlleles = make(map[string]pathogenicity.ClinSig, len(w.IncludedAlleles))
		for id, s := range w.IncludedAlleles {
			sig, err := decodeClinSig("includedAlleles."+id, s)
			if err != nil {
				return pathogenicity.ClinVar{}, err
			}
			cv.IncludedAlleles[id] = sig
		}
	}

	return cv, nil
}

func decodeClinSig(field string, raw any) (pathogenicity.ClinSig, error) {
	if s, ok := raw.(string); ok {
		if sig, ok := pathogenicity.ParseClinSig(s); ok {
			return sig, nil
		}
		return 0, &DecodeError{Key: ClinVarKey, Field: field, Expected: "clinical significance", Actual: describe(raw)}
	}
	if f, ok := toFloat(raw); ok && f == math.Trunc(f) {
		if sig, ok := pathogenicity.ClinSigFromCode(int(f)); ok {
			return sig, nil
		}
	}
	return 0, &DecodeError{Key: ClinVarKey, Field: field, Expected: "clinical significance", Actual: describe(raw)}
}
