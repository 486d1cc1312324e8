package report

import "github.com/bgricker/actioncheck/internal/validate"

// Totals aggregates diagnostic counts across a batch. It feeds the human
// report's summary footer; the JSON contract derives nothing from it.
type Totals struct {
	Files        int `json:"files"`
	InvalidFiles int `json:"invalid_files"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
}

// Collect tallies a batch result.
func Collect(batch validate.BatchResult) Totals {
	var t Totals
	for _, entry := range batch.Files {
		t.Files++
		if !entry.Result.Valid {
			t.InvalidFiles++
		}
		t.Errors += len(entry.Result.Errors)
		t.Warnings += len(entry.Result.Warnings)
	}
	return t
}

// CollectFile tallies a single file result.
func CollectFile(res validate.FileResult) Totals {
	t := Totals{Files: 1, Errors: len(res.Errors), Warnings: len(res.Warnings)}
	if !res.Valid {
		t.InvalidFiles = 1
	}
	return t
}
