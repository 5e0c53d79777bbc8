// Package maf reads variants from MAF (Mutation Annotation Format) files so
// they can be filtered like VCF input.
package maf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/inodb/vibe-filter/internal/vcf"
)

// Standard MAF column names
const (
	ColChromosome      = "Chromosome"
	ColStartPosition   = "Start_Position"
	ColReferenceAllele = "Reference_Allele"
	ColTumorSeqAllele1 = "Tumor_Seq_Allele1"
	ColTumorSeqAllele2 = "Tumor_Seq_Allele2"
	ColDbSNP           = "dbSNP_RS"
	ColFilter          = "FILTER"
)

// ColumnIndices holds the indices of the MAF columns the parser reads.
// Optional columns are -1 when absent.
type ColumnIndices struct {
	Chromosome      int
	StartPosition   int
	ReferenceAllele int
	TumorSeqAllele1 int
	TumorSeqAllele2 int
	DbSNP           int
	Filter          int
}

// Parser reads variants from a MAF file. It implements vcf.VariantParser.
//
// MAF writes missing bases as "-"; they become empty alleles, so indels keep
// MAF's unanchored representation.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
	headerLine string
}

var _ vcf.VariantParser = (*Parser)(nil)

// NewParser creates a new MAF parser for the given file.
// Supports both plain MAF and gzipped MAF (.maf.gz) files; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maf file: %w", err)
	}

	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read maf header: %w", err)
	}

	p := &Parser{file: file, reader: br}
	// gzip magic number (0x1f, 0x8b)
	if magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser from an uncompressed io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseHeader skips "#version" comment lines and indexes the header line.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return &ParseError{Line: p.lineNumber, Message: "no header line found"}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.headerLine = line
		return p.parseColumnIndices(line)
	}
}

func (p *Parser) parseColumnIndices(headerLine string) error {
	p.columns = ColumnIndices{-1, -1, -1, -1, -1, -1, -1}

	for i, col := range strings.Split(headerLine, "\t") {
		switch col {
		case ColChromosome:
			p.columns.Chromosome = i
		case ColStartPosition:
			p.columns.StartPosition = i
		case ColReferenceAllele:
			p.columns.ReferenceAllele = i
		case ColTumorSeqAllele1:
			p.columns.TumorSeqAllele1 = i
		case ColTumorSeqAllele2:
			p.columns.TumorSeqAllele2 = i
		case ColDbSNP:
			p.columns.DbSNP = i
		case ColFilter:
			p.columns.Filter = i
		}
	}

	for name, idx := range map[string]int{
		ColChromosome:      p.columns.Chromosome,
		ColStartPosition:   p.columns.StartPosition,
		ColReferenceAllele: p.columns.ReferenceAllele,
		ColTumorSeqAllele2: p.columns.TumorSeqAllele2,
	} {
		if idx == -1 {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column '%s' not found in header", name),
			}
		}
	}
	return nil
}

// Next reads the next variant. It returns false at end of file.
func (p *Parser) Next() (vcf.Variant, bool, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return vcf.Variant{}, false, nil
			}
			return vcf.Variant{}, false, fmt.Errorf("read variant line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := p.parseLine(line)
		if err != nil {
			return vcf.Variant{}, false, err
		}
		return v, true, nil
	}
}

func (p *Parser) parseLine(line string) (vcf.Variant, error) {
	fields := strings.Split(line, "\t")
	field := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return fields[idx]
	}

	minCols := max(p.columns.Chromosome, p.columns.StartPosition, p.columns.ReferenceAllele, p.columns.TumorSeqAllele2)
	if len(fields) <= minCols {
		return vcf.Variant{}, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(field(p.columns.StartPosition), 10, 64)
	if err != nil {
		return vcf.Variant{}, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", field(p.columns.StartPosition)),
		}
	}

	ref := field(p.columns.ReferenceAllele)
	alt := field(p.columns.TumorSeqAllele2)
	// Some callers put the variant allele in Tumor_Seq_Allele1 and repeat
	// the reference in Tumor_Seq_Allele2.
	if alt == ref {
		if a1 := field(p.columns.TumorSeqAllele1); a1 != "" && a1 != ref {
			alt = a1
		}
	}

	id := field(p.columns.DbSNP)
	if id == "novel" {
		id = ""
	}

	return vcf.Variant{
		Chrom:  field(p.columns.Chromosome),
		Pos:    pos,
		ID:     id,
		Ref:    mafAllele(ref),
		Alt:    mafAllele(alt),
		Filter: field(p.columns.Filter),
	}, nil
}

func mafAllele(a string) string {
	if a == "-" {
		return ""
	}
	return a
}

// Header returns the MAF header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the parsed column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
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

// ParseError represents an error during MAF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("maf parse error at line %d: %s", e.Line, e.Message)
}
