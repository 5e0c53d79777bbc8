package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/brentp/vcfgo"
	"github.com/klauspost/compress/gzip"
)

// Parser reads variants from a VCF file using vcfgo, splitting
// multi-allelic records into one Variant per alternate allele.
type Parser struct {
	vr         *vcfgo.Reader
	file       *os.File
	gzipReader *gzip.Reader
	pending    []Variant
	records    int
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}

	p := &Parser{file: file}
	var r io.Reader = br
	// gzip magic number (0x1f, 0x8b)
	if magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r = p.gzipReader
	}

	p.vr, err = vcfgo.NewReader(r, true)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}
	return p, nil
}

// NewParserFromReader creates a parser from an uncompressed io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	vr, err := vcfgo.NewReader(r, true)
	if err != nil {
		return nil, fmt.Errorf("read vcf header: %w", err)
	}
	return &Parser{vr: vr}, nil
}

// Next returns the next alternate allele. ok is false at end of input.
func (p *Parser) Next() (Variant, bool, error) {
	if len(p.pending) > 0 {
		v := p.pending[0]
		p.pending = p.pending[1:]
		return v, true, nil
	}

	rec := p.vr.Read()
	if rec == nil {
		if err := p.vr.Error(); err != nil {
			return Variant{}, false, &ParseError{Record: p.records + 1, Err: err}
		}
		return Variant{}, false, nil
	}
	p.records++

	alts := rec.Alt()
	if len(alts) == 0 {
		return Variant{}, false, &ParseError{Record: p.records, Err: fmt.Errorf("%s:%d has no alternate allele", rec.Chrom(), rec.Pos)}
	}

	for _, alt := range alts {
		p.pending = append(p.pending, Variant{
			Chrom:  rec.Chrom(),
			Pos:    int64(rec.Pos),
			ID:     rec.Id(),
			Ref:    rec.Ref(),
			Alt:    alt,
			Qual:   float64(rec.Quality),
			Filter: rec.Filter,
		})
	}
	return p.Next()
}

// LineNumber returns the ordinal of the last VCF data record read.
func (p *Parser) LineNumber() int {
	return p.records
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError reports a malformed VCF record.
type ParseError struct {
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at record %d: %v", e.Record, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadAll reads every variant from p.
func ReadAll(p VariantParser) ([]Variant, error) {
	var out []Variant
	for {
		v, ok, err := p.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
