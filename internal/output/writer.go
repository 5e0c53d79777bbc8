package output

import (
	"fmt"
	"io"

	"github.com/inodb/vibe-filter/internal/evaluation"
)

// Writer is implemented by every output format.
type Writer interface {
	WriteHeader() error
	Write(ev *evaluation.Evaluation) error
	Flush() error
}

// Formats lists the accepted output format names.
var Formats = []string{"tab", "vcf", "json"}

// NewWriter returns a writer for the named format.
func NewWriter(format string, w io.Writer, source string) (Writer, error) {
	switch format {
	case "tab", "":
		return NewTabWriter(w), nil
	case "vcf":
		return NewVCFWriter(w, source), nil
	case "json":
		return NewJSONWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}
