// Package validate implements the three-phase static validation engine for
// GitHub Actions workflow files: YAML syntax, structural schema conformance,
// and heuristic linting. The engine is deliberately synchronous and
// stateless: results depend only on file content, batches run strictly in
// input order, and repeated runs over identical input produce byte-identical
// serialized output. It proves only what static analysis can prove; embedded
// expressions and runtime behavior are out of scope.
package validate

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/bgricker/actioncheck/internal/logger"
)

var log = logger.New("validate")

// Validator runs the validation pipeline. The zero value is not useful;
// construct with New.
type Validator struct {
	rules LintRules
}

// New constructs a Validator with the given lint rules.
func New(rules LintRules) *Validator {
	return &Validator{rules: rules}
}

// ValidateContent validates one file's content through all three phases.
//
// Phase order is fixed: a syntax failure records its single error and skips
// the schema and tree-lint phases (Structure stays nil); text heuristics and
// stats still run because they need only raw text. The verdict is derived
// solely from the error list.
func (v *Validator) ValidateContent(content string) FileResult {
	lines := splitLines(content)

	result := FileResult{
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
		Stats:    computeStats(lines),
	}

	doc, syntaxErr := parseDocument(content)
	if syntaxErr != nil {
		log.Printf("syntax phase failed: line=%d %s", syntaxErr.Line, syntaxErr.Message)
		result.Errors = append(result.Errors, *syntaxErr)
		result.Warnings = appendSorted(result.Warnings, lintText(lines, v.rules))
		result.Valid = false
		return result
	}

	summary, schemaErrs := checkStructure(doc)
	result.Structure = &summary
	result.Errors = appendSorted(result.Errors, schemaErrs)

	warnings := lintText(lines, v.rules)
	warnings = append(warnings, lintTree(doc, summary, v.rules)...)
	result.Warnings = appendSorted(result.Warnings, warnings)

	result.Valid = len(result.Errors) == 0
	log.Printf("validated content: valid=%v errors=%d warnings=%d jobs=%d",
		result.Valid, len(result.Errors), len(result.Warnings), summary.JobCount)
	return result
}

// ValidateFile reads and validates the file at path. Read failures and
// non-UTF-8 content become that file's FileReadError rather than an error
// return, so one bad path never aborts a batch.
func (v *Validator) ValidateFile(path string) FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("read failed: %s: %v", path, err)
		return readErrorResult(fmt.Sprintf("cannot read file: %v", err))
	}
	if !utf8.Valid(data) {
		return readErrorResult(fmt.Sprintf("file %q is not valid UTF-8", path))
	}
	return v.ValidateContent(string(data))
}

// ValidateBatch validates paths strictly in order and merges the results.
// Sequential processing is what guarantees reproducible output ordering; do
// not parallelize this loop. An empty path list yields a failed batch
// carrying a NoMatchError message.
func (v *Validator) ValidateBatch(paths []string) BatchResult {
	batch := BatchResult{Version: Version, Files: FileResults{}}

	if len(paths) == 0 {
		batch.Err = "no workflow files matched"
		return batch
	}

	batch.OverallValid = true
	for _, path := range paths {
		result := v.ValidateFile(path)
		batch.Files = append(batch.Files, FileEntry{Path: path, Result: result})
		if !result.Valid {
			batch.OverallValid = false
		}
	}
	log.Printf("batch complete: files=%d overall_valid=%v", len(batch.Files), batch.OverallValid)
	return batch
}

func readErrorResult(message string) FileResult {
	return FileResult{
		Errors: []Diagnostic{{
			Kind:     KindFileReadError,
			Message:  message,
			Severity: SeverityError,
		}},
		Warnings: []Diagnostic{},
	}
}

// appendSorted appends diagnostics and re-sorts the sequence by source line.
// The sort is stable so diagnostics on the same line (and the non-addressable
// line-0 group) keep their discovery order.
func appendSorted(dst, src []Diagnostic) []Diagnostic {
	dst = append(dst, src...)
	sort.SliceStable(dst, func(i, j int) bool { return dst[i].Line < dst[j].Line })
	return dst
}
