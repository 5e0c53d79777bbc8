package vcf

import (
	"testing"

	"github.com/inodb/vibe-filter/internal/allele"
)

func TestVariant_IsSNV(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		alt  string
		want bool
	}{
		{"A to G", "A", "G", true},
		{"G to C (KRAS G12C)", "G", "C", true},
		{"deletion", "AT", "A", false},
		{"insertion", "A", "AT", false},
		{"MNV", "AT", "GC", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Variant{Ref: tt.ref, Alt: tt.alt}
			if got := v.IsSNV(); got != tt.want {
				t.Errorf("IsSNV() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_IsIndel(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		alt  string
		want bool
	}{
		{"SNV", "A", "G", false},
		{"deletion", "AT", "A", true},
		{"insertion", "A", "AT", true},
		{"MNV same length", "AT", "GC", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Variant{Ref: tt.ref, Alt: tt.alt}
			if got := v.IsIndel(); got != tt.want {
				t.Errorf("IsIndel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_Key(t *testing.T) {
	v := Variant{Chrom: "chr12", Pos: 25245351, Ref: "C", Alt: "A"}
	want := allele.Key{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"}
	if got := v.Key(); got != want {
		t.Errorf("Key() = %v, want %v", got, want)
	}
}

func TestVariant_PassedVCFFilter(t *testing.T) {
	tests := []struct {
		filter string
		want   bool
	}{
		{"PASS", true},
		{".", true},
		{"", true},
		{"LowQual", false},
		{"q10;s50", false},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			if got := (Variant{Filter: tt.filter}).PassedVCFFilter(); got != tt.want {
				t.Errorf("PassedVCFFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_End(t *testing.T) {
	if got := (Variant{Pos: 100, Ref: "ATG", Alt: "A"}).End(); got != 102 {
		t.Errorf("End() = %d, want 102", got)
	}
	if got := (Variant{Pos: 100, Ref: "A", Alt: "T"}).End(); got != 100 {
		t.Errorf("End() = %d, want 100", got)
	}
}
