package pathogenicity

import (
	"sort"
	"strings"
)

// ClinSig is a ClinVar clinical significance category. Values match the
// integer codes used by the annotation store.
type ClinSig uint8

// ClinVar interpretation categories.
const (
	NotProvided ClinSig = iota
	Benign
	BenignOrLikelyBenign
	LikelyBenign
	UncertainSignificance
	LikelyPathogenic
	PathogenicOrLikelyPathogenic
	Pathogenic
	ConflictingPathogenicityInterpretations
	Affects
	Association
	DrugResponse
	Other
	Protective
	RiskFactor

	numClinSigs = iota
)

var clinSigNames = [numClinSigs]string{
	NotProvided:                             "NOT_PROVIDED",
	Benign:                                  "BENIGN",
	BenignOrLikelyBenign:                    "BENIGN_OR_LIKELY_BENIGN",
	LikelyBenign:                            "LIKELY_BENIGN",
	UncertainSignificance:                   "UNCERTAIN_SIGNIFICANCE",
	LikelyPathogenic:                        "LIKELY_PATHOGENIC",
	PathogenicOrLikelyPathogenic:            "PATHOGENIC_OR_LIKELY_PATHOGENIC",
	Pathogenic:                              "PATHOGENIC",
	ConflictingPathogenicityInterpretations: "CONFLICTING_PATHOGENICITY_INTERPRETATIONS",
	Affects:                                 "AFFECTS",
	Association:                             "ASSOCIATION",
	DrugResponse:                            "DRUG_RESPONSE",
	Other:                                   "OTHER",
	Protective:                              "PROTECTIVE",
	RiskFactor:                              "RISK_FACTOR",
}

func (c ClinSig) String() string {
	if c >= numClinSigs {
		return "UNKNOWN"
	}
	return clinSigNames[c]
}

// ParseClinSig parses a category name, case-insensitively. "CONFLICTING" is
// accepted as shorthand for CONFLICTING_PATHOGENICITY_INTERPRETATIONS.
func ParseClinSig(s string) (ClinSig, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "CONFLICTING" {
		return ConflictingPathogenicityInterpretations, true
	}
	for i, name := range clinSigNames {
		if name == up {
			return ClinSig(i), true
		}
	}
	return 0, false
}

// ClinSigFromCode converts a store integer code to a category.
func ClinSigFromCode(code int) (ClinSig, bool) {
	if code < 0 || code >= int(numClinSigs) {
		return 0, false
	}
	return ClinSig(code), true
}

// IsPathogenicOrLikelyPathogenic reports whether c asserts pathogenicity.
func (c ClinSig) IsPathogenicOrLikelyPathogenic() bool {
	return c == Pathogenic || c == LikelyPathogenic || c == PathogenicOrLikelyPathogenic
}

// ClinSigSet is an unordered set of categories.
type ClinSigSet map[ClinSig]struct{}

// NewClinSigSet builds a set, collapsing duplicates.
func NewClinSigSet(sigs ...ClinSig) ClinSigSet {
	if len(sigs) == 0 {
		return nil
	}
	set := make(ClinSigSet, len(sigs))
	for _, s := range sigs {
		set[s] = struct{}{}
	}
	return set
}

// Contains reports whether c is in the set.
func (set ClinSigSet) Contains(c ClinSig) bool {
	_, ok := set[c]
	return ok
}

// Sorted returns the categories in code order.
func (set ClinSigSet) Sorted() []ClinSig {
	out := make([]ClinSig, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ClinVar is the ClinVar record for an allele.
type ClinVar struct {
	AlleleID        string
	Primary         ClinSig
	Secondary       ClinSigSet
	IncludedAlleles map[string]ClinSig // related allele id -> interpretation
	ReviewStatus    string
}

// IsZero reports whether every field is unset.
func (c ClinVar) IsZero() bool {
	return c.AlleleID == "" && c.Primary == NotProvided && len(c.Secondary) == 0 &&
		len(c.IncludedAlleles) == 0 && c.ReviewStatus == ""
}

// IsPathogenicOrLikelyPathogenic reports whether the primary interpretation
// asserts pathogenicity.
func (c ClinVar) IsPathogenicOrLikelyPathogenic() bool {
	return c.Primary.IsPathogenicOrLikelyPathogenic()
}

// StarRating converts the review status into ClinVar's 0-4 star scale.
func (c ClinVar) StarRating() int {
	switch strings.ToLower(strings.ReplaceAll(c.ReviewStatus, "_", " ")) {
	case "practice guideline":
		return 4
	case "reviewed by expert panel":
		return 3
	case "criteria provided, multiple submitters, no conflicts":
		return 2
	case "criteria provided, single submitter", "criteria provided, conflicting interpretations":
		return 1
	default:
		return 0
	}
}
