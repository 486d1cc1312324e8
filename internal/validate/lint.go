package validate

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LintRules toggles individual heuristics. Disabling a rule suppresses its
// warnings only; lint findings can never change a file's verdict.
type LintRules struct {
	Tabs           bool
	Quotes         bool
	EmptyJobs      bool
	MissingTrigger bool
}

// DefaultLintRules enables every heuristic.
func DefaultLintRules() LintRules {
	return LintRules{Tabs: true, Quotes: true, EmptyJobs: true, MissingTrigger: true}
}

// lintText runs the text-based heuristics. These need no parsed document, so
// they run even for files that failed the syntax phase.
//
// The quote heuristic counts quote characters per line and flags odd counts.
// It is deliberately crude and documented as prone to false positives (a
// quote inside a comment, or a string spanning lines, will trip it); that is
// why it can only ever be a warning.
func lintText(lines []string, rules LintRules) []Diagnostic {
	var warnings []Diagnostic
	for i, line := range lines {
		num := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if rules.Tabs && strings.ContainsRune(line, '\t') {
			warnings = append(warnings, Diagnostic{
				Line:     num,
				Kind:     KindTabWarning,
				Message:  "tab character found; use spaces for indentation",
				Severity: SeverityWarning,
			})
		}

		if rules.Quotes && !strings.HasSuffix(trimmed, `\`) {
			if n := strings.Count(trimmed, `"`); n%2 != 0 {
				warnings = append(warnings, Diagnostic{
					Line:     num,
					Kind:     KindUnclosedStringWarning,
					Message:  fmt.Sprintf("odd number of double quotes (%d); string may be unclosed", n),
					Severity: SeverityWarning,
				})
			}
			if n := strings.Count(trimmed, `'`); n%2 != 0 {
				warnings = append(warnings, Diagnostic{
					Line:     num,
					Kind:     KindUnclosedStringWarning,
					Message:  fmt.Sprintf("odd number of single quotes (%d); string may be unclosed", n),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return warnings
}

// lintTree runs the tree-based heuristics over a successfully parsed
// document. Structural errors from the schema phase do not suppress these.
func lintTree(doc *yaml.Node, summary StructureSummary, rules LintRules) []Diagnostic {
	var warnings []Diagnostic

	if rules.EmptyJobs && isMapping(doc) {
		if _, jobsVal := mappingValue(doc, "jobs"); isMapping(jobsVal) {
			for _, pair := range mappingPairs(jobsVal) {
				jobKey, jobVal := pair[0], pair[1]
				if !isMapping(jobVal) {
					continue
				}
				stepsKey, stepsVal := mappingValue(jobVal, "steps")
				if stepsKey == nil || isNullScalar(stepsVal) || (isSequence(stepsVal) && len(stepsVal.Content) == 0) {
					warnings = append(warnings, Diagnostic{
						Line:     jobKey.Line,
						Kind:     KindEmptyJobWarning,
						Message:  fmt.Sprintf("job %q has no steps", jobKey.Value),
						Severity: SeverityWarning,
					})
				}
			}
		}
	}

	if rules.MissingTrigger && len(summary.Triggers) == 0 {
		warnings = append(warnings, Diagnostic{
			Kind:     KindMissingTriggerWarning,
			Message:  "no workflow trigger recognized; workflow may never run automatically",
			Severity: SeverityWarning,
		})
	}

	return warnings
}
