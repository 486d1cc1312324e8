package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bgricker/actioncheck/internal/report"
	"github.com/bgricker/actioncheck/internal/validate"
)

const maxListedItems = 10
const maxListedJobs = 8

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// ReportRenderer renders validation results as a human readable report with
// a phase-by-phase breakdown and a banner verdict.
type ReportRenderer struct {
	out     io.Writer
	verbose bool
}

// NewReport creates a ReportRenderer writing to out. Verbose mode lists
// every job instead of truncating.
func NewReport(out io.Writer, verbose bool) *ReportRenderer {
	return &ReportRenderer{out: out, verbose: verbose}
}

// RenderFile renders one file's full report.
func (r *ReportRenderer) RenderFile(path string, res validate.FileResult) error {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, headerStyle.Render("WORKFLOW VALIDATION REPORT"), dimStyle.Render(path))
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out)

	r.renderStats(res.Stats)
	if res.Structure != nil {
		r.renderStructure(*res.Structure)
	}
	r.renderPhases(res)

	fmt.Fprintln(r.out, rule)
	if res.Valid {
		fmt.Fprintln(r.out, passStyle.Render("RESULT: workflow is valid"))
	} else {
		fmt.Fprintln(r.out, failStyle.Render("RESULT: fix errors before using this workflow"))
	}
	fmt.Fprintln(r.out, rule)
	return nil
}

// RenderBatch renders every file's report followed by a batch summary.
func (r *ReportRenderer) RenderBatch(batch validate.BatchResult) error {
	if batch.Err != "" {
		fmt.Fprintf(r.out, "%s %s: %s\n", failStyle.Render("✗"), validate.KindNoMatchError, batch.Err)
		return nil
	}

	for _, entry := range batch.Files {
		if err := r.RenderFile(entry.Path, entry.Result); err != nil {
			return err
		}
		fmt.Fprintln(r.out)
	}

	totals := report.Collect(batch)
	verdict := passStyle.Render("PASS")
	if !batch.OverallValid {
		verdict = failStyle.Render("FAIL")
	}
	fmt.Fprintf(r.out, "SUMMARY: %s: %d files, %d invalid, %d errors, %d warnings\n",
		verdict, totals.Files, totals.InvalidFiles, totals.Errors, totals.Warnings)
	return nil
}

func (r *ReportRenderer) renderStats(stats validate.FileStats) {
	fmt.Fprintln(r.out, sectionStyle.Render("FILE STATISTICS"))
	fmt.Fprintf(r.out, "  total lines:   %d\n", stats.TotalLines)
	fmt.Fprintf(r.out, "  code lines:    %d\n", stats.CodeLines)
	fmt.Fprintf(r.out, "  empty lines:   %d\n", stats.EmptyLines)
	fmt.Fprintf(r.out, "  comment lines: %d\n", stats.CommentLines)
	fmt.Fprintln(r.out)
}

func (r *ReportRenderer) renderStructure(s validate.StructureSummary) {
	fmt.Fprintln(r.out, sectionStyle.Render("WORKFLOW STRUCTURE"))
	fmt.Fprintf(r.out, "  %s name\n", statusGlyph(s.HasName))
	fmt.Fprintf(r.out, "  %s on triggers\n", statusGlyph(s.HasOn))
	fmt.Fprintf(r.out, "  %s jobs section\n", statusGlyph(s.HasJobs))
	fmt.Fprintf(r.out, "  %s env variables\n", statusGlyph(s.HasEnv))
	fmt.Fprintf(r.out, "  %s permissions\n", statusGlyph(s.HasPermissions))

	if len(s.Triggers) > 0 {
		fmt.Fprintf(r.out, "  triggers: %s\n", strings.Join(s.Triggers, ", "))
	}
	if s.JobCount > 0 {
		fmt.Fprintf(r.out, "  jobs defined: %d\n", s.JobCount)
		jobs := s.Jobs
		if !r.verbose && len(jobs) > maxListedJobs {
			jobs = jobs[:maxListedJobs]
		}
		fmt.Fprintf(r.out, "    %s\n", strings.Join(jobs, ", "))
		if hidden := s.JobCount - len(jobs); hidden > 0 {
			fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("    ... and %d more jobs", hidden)))
		}
	}
	fmt.Fprintln(r.out)
}

func (r *ReportRenderer) renderPhases(res validate.FileResult) {
	syntax, schema := partitionErrors(res.Errors)

	fmt.Fprintln(r.out, sectionStyle.Render("PHASE 1: SYNTAX"))
	r.renderDiagnostics(syntax, "YAML syntax is valid")
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, sectionStyle.Render("PHASE 2: SCHEMA"))
	if res.Structure == nil {
		fmt.Fprintln(r.out, dimStyle.Render("  skipped: file did not parse"))
	} else {
		r.renderDiagnostics(schema, "workflow schema is valid")
	}
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, sectionStyle.Render("PHASE 3: LINT"))
	if len(res.Warnings) == 0 {
		fmt.Fprintf(r.out, "  %s no lint warnings\n", passStyle.Render("✓"))
	} else {
		for i, w := range res.Warnings {
			if i == maxListedItems {
				fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("  ... and %d more warnings", len(res.Warnings)-maxListedItems)))
				break
			}
			fmt.Fprintf(r.out, "  %s %s: %s: %s\n", warnStyle.Render("!"), lineLabel(w.Line), w.Kind, w.Message)
		}
	}
	fmt.Fprintln(r.out)
}

func (r *ReportRenderer) renderDiagnostics(diags []validate.Diagnostic, okMessage string) {
	if len(diags) == 0 {
		fmt.Fprintf(r.out, "  %s %s\n", passStyle.Render("✓"), okMessage)
		return
	}
	for i, d := range diags {
		if i == maxListedItems {
			fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("  ... and %d more errors", len(diags)-maxListedItems)))
			break
		}
		fmt.Fprintf(r.out, "  %s %s: %s: %s\n", failStyle.Render("✗"), lineLabel(d.Line), d.Kind, d.Message)
	}
}

func partitionErrors(errs []validate.Diagnostic) (syntax, schema []validate.Diagnostic) {
	for _, e := range errs {
		if e.Kind == validate.KindYAMLSyntaxError || e.Kind == validate.KindFileReadError {
			syntax = append(syntax, e)
		} else {
			schema = append(schema, e)
		}
	}
	return syntax, schema
}

func statusGlyph(ok bool) string {
	if ok {
		return passStyle.Render("✓")
	}
	return failStyle.Render("✗")
}

func lineLabel(line int) string {
	if line <= 0 {
		return "general"
	}
	return fmt.Sprintf("line %d", line)
}
