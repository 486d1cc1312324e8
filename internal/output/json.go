package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/actioncheck/internal/validate"
)

// JSONRenderer emits the versioned machine readable contract. Output is
// deterministic: field order is fixed by the result structs and batch file
// order follows input order.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// singleReport is the single-file output shape under version "1.0".
type singleReport struct {
	Version string `json:"version"`
	validate.FileResult
}

// RenderFile encodes one file's result in the single-file contract shape.
func (j *JSONRenderer) RenderFile(res validate.FileResult) error {
	return j.encode(singleReport{Version: validate.Version, FileResult: res})
}

// RenderBatch encodes a batch result in the batch contract shape.
func (j *JSONRenderer) RenderBatch(batch validate.BatchResult) error {
	return j.encode(batch)
}

func (j *JSONRenderer) encode(v any) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
