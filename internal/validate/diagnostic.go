package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Version identifies the output contract. New optional fields may be added
// under the same version; renames or removals require a major bump.
const Version = "1.0"

// Severity partitions diagnostics into hard failures and advisory findings.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Diagnostic kinds emitted by the syntax phase and input handling.
const (
	KindYAMLSyntaxError = "YAMLSyntaxError"
	KindFileReadError   = "FileReadError"
	KindNoMatchError    = "NoMatchError"
)

// Diagnostic kinds emitted by the structural schema phase.
const (
	KindInvalidRootType          = "InvalidRootType"
	KindMissingOn                = "MissingOn"
	KindInvalidOn                = "InvalidOn"
	KindMissingJobs              = "MissingJobs"
	KindEmptyJobs                = "EmptyJobs"
	KindInvalidJobs              = "InvalidJobs"
	KindInvalidJob               = "InvalidJob"
	KindJobMissingRunner         = "JobMissingRunner"
	KindInvalidSteps             = "InvalidSteps"
	KindStepMissingAction        = "StepMissingAction"
	KindInvalidPermissionScope   = "InvalidPermissionScope"
	KindInvalidPermissionLevel   = "InvalidPermissionLevel"
	KindInvalidPermissionType    = "InvalidPermissionType"
	KindDuplicatePermissionScope = "DuplicatePermissionScope"
	KindInvalidStrategy          = "InvalidStrategy"
	KindInvalidStrategyMatrix    = "InvalidStrategyMatrix"
	KindInvalidFailFast          = "InvalidFailFast"
	KindInvalidMaxParallel       = "InvalidMaxParallel"
	KindInvalidContinueOnError   = "InvalidContinueOnError"
	KindInvalidMatrixInclude     = "InvalidMatrixInclude"
	KindInvalidMatrixValue       = "InvalidMatrixValue"
	KindInvalidEnv               = "InvalidEnv"
)

// Diagnostic kinds emitted by the heuristic lint phase. All are warnings.
const (
	KindTabWarning            = "TabWarning"
	KindUnclosedStringWarning = "UnclosedStringWarning"
	KindEmptyJobWarning       = "EmptyJobWarning"
	KindMissingTriggerWarning = "MissingTriggerWarning"
)

// Diagnostic is a single validation finding. Line is 1-based; 0 means the
// finding is not addressable to a specific line.
type Diagnostic struct {
	Line     int      `json:"line"`
	Kind     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// FileStats counts line categories for one file. The three categories are
// mutually exclusive and sum to TotalLines.
type FileStats struct {
	TotalLines   int `json:"total_lines"`
	EmptyLines   int `json:"empty_lines"`
	CommentLines int `json:"comment_lines"`
	CodeLines    int `json:"code_lines"`
}

// StructureSummary records facts extracted from a parsed workflow. It is
// best-effort: populated even when the schema phase reports errors.
type StructureSummary struct {
	HasName        bool     `json:"has_name"`
	HasOn          bool     `json:"has_on"`
	HasJobs        bool     `json:"has_jobs"`
	HasEnv         bool     `json:"has_env"`
	HasPermissions bool     `json:"has_permissions"`
	JobCount       int      `json:"job_count"`
	Jobs           []string `json:"jobs"`
	Triggers       []string `json:"triggers"`
}

// FileResult is the outcome of validating one file. Structure is nil exactly
// when the syntax phase failed.
type FileResult struct {
	Valid     bool              `json:"valid"`
	Errors    []Diagnostic      `json:"errors"`
	Warnings  []Diagnostic      `json:"warnings"`
	Stats     FileStats         `json:"stats"`
	Structure *StructureSummary `json:"structure"`
}

// FileEntry pairs a path with its result inside a batch.
type FileEntry struct {
	Path   string
	Result FileResult
}

// FileResults serializes as a JSON object whose keys appear in insertion
// order, matching the order paths were supplied to the batch.
type FileResults []FileEntry

// MarshalJSON emits an ordered JSON object. encoding/json would sort map
// keys, which breaks the batch order-preservation guarantee.
func (f FileResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("marshal path %q: %w", entry.Path, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(entry.Result)
		if err != nil {
			return nil, fmt.Errorf("marshal result for %q: %w", entry.Path, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BatchResult aggregates per-file results in input order. Err carries the
// zero-match condition; it is empty for any batch that processed files.
type BatchResult struct {
	Version      string      `json:"version"`
	Files        FileResults `json:"files"`
	OverallValid bool        `json:"overall_valid"`
	Err          string      `json:"error,omitempty"`
}

// Lookup returns the result stored under path.
func (b BatchResult) Lookup(path string) (FileResult, bool) {
	for _, entry := range b.Files {
		if entry.Path == path {
			return entry.Result, true
		}
	}
	return FileResult{}, false
}
