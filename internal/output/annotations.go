package output

import (
	"fmt"
	"io"

	"github.com/bgricker/actioncheck/internal/validate"
)

// AnnotationMode selects whether CI-native annotations are emitted. The
// engine never inspects the environment itself; the CLI resolves the ambient
// GITHUB_ACTIONS state into an explicit mode.
type AnnotationMode int

const (
	AnnotationsOff AnnotationMode = iota
	AnnotationsOn
	AnnotationsAuto
)

// Active resolves the mode against the externally supplied CI detection.
func (m AnnotationMode) Active(inCI bool) bool {
	switch m {
	case AnnotationsOn:
		return true
	case AnnotationsAuto:
		return inCI
	default:
		return false
	}
}

// AnnotationWriter emits GitHub Actions workflow command annotations, one
// line per diagnostic, on the diagnostic output stream. This is a side
// channel: it never alters the JSON contract.
type AnnotationWriter struct {
	out io.Writer
}

// NewAnnotations creates an AnnotationWriter writing to out.
func NewAnnotations(out io.Writer) *AnnotationWriter {
	return &AnnotationWriter{out: out}
}

// WriteFile emits annotations for every diagnostic of one file.
func (a *AnnotationWriter) WriteFile(path string, res validate.FileResult) {
	for _, d := range res.Errors {
		a.write(path, d)
	}
	for _, d := range res.Warnings {
		a.write(path, d)
	}
}

// WriteBatch emits annotations for every file in a batch, in batch order.
func (a *AnnotationWriter) WriteBatch(batch validate.BatchResult) {
	for _, entry := range batch.Files {
		a.WriteFile(entry.Path, entry.Result)
	}
}

func (a *AnnotationWriter) write(path string, d validate.Diagnostic) {
	level := "warning"
	if d.Severity == validate.SeverityError {
		level = "error"
	}
	line := d.Line
	if line < 1 {
		line = 1
	}
	fmt.Fprintf(a.out, "::%s file=%s,line=%d::%s: %s\n", level, path, line, d.Kind, d.Message)
}
