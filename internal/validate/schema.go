package validate

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// permissionScopes is the allow-list of GitHub Actions permission scopes.
var permissionScopes = map[string]struct{}{
	"actions":             {},
	"attestations":        {},
	"checks":              {},
	"contents":            {},
	"deployments":         {},
	"discussions":         {},
	"id-token":            {},
	"issues":              {},
	"packages":            {},
	"pages":               {},
	"pull-requests":       {},
	"repository-projects": {},
	"security-events":     {},
	"statuses":            {},
}

var permissionLevels = map[string]struct{}{
	"read":  {},
	"write": {},
	"none":  {},
}

// checkStructure runs every structural rule against a parsed document and
// extracts a StructureSummary. Rules are independent: one violation never
// suppresses detection of another, and the summary is populated best-effort
// even for failing documents.
func checkStructure(doc *yaml.Node) (StructureSummary, []Diagnostic) {
	summary := StructureSummary{Jobs: []string{}, Triggers: []string{}}

	if !isMapping(doc) {
		line := 1
		if doc != nil && doc.Line > 0 {
			line = doc.Line
		}
		return summary, []Diagnostic{{
			Line:     line,
			Kind:     KindInvalidRootType,
			Message:  "workflow root must be a mapping",
			Severity: SeverityError,
		}}
	}

	var errs []Diagnostic

	_, nameVal := mappingValue(doc, "name")
	summary.HasName = isScalar(nameVal) && nameVal.Tag == "!!str"

	onKey, onVal := mappingValue(doc, "on")
	summary.HasOn = onKey != nil
	summary.Triggers = triggerSet(onVal)
	if onKey == nil {
		errs = append(errs, Diagnostic{
			Kind:     KindMissingOn,
			Message:  `required "on" trigger missing`,
			Severity: SeverityError,
		})
	} else if isNullScalar(onVal) || (!isScalar(onVal) && !isSequence(onVal) && !isMapping(onVal)) {
		errs = append(errs, Diagnostic{
			Line:     onKey.Line,
			Kind:     KindInvalidOn,
			Message:  `"on" must be a string, sequence, or mapping of triggers`,
			Severity: SeverityError,
		})
	}

	envKey, envVal := mappingValue(doc, "env")
	summary.HasEnv = envKey != nil

	jobsKey, jobsVal := mappingValue(doc, "jobs")
	summary.HasJobs = jobsKey != nil
	errs = append(errs, checkJobs(jobsKey, jobsVal, &summary)...)

	permKey, permVal := mappingValue(doc, "permissions")
	summary.HasPermissions = permKey != nil || summary.HasPermissions
	if permKey != nil {
		errs = append(errs, checkPermissions(permKey, permVal, "workflow")...)
	}

	if envKey != nil && !isMapping(envVal) {
		errs = append(errs, Diagnostic{
			Line:     envKey.Line,
			Kind:     KindInvalidEnv,
			Message:  `"env" must be a mapping`,
			Severity: SeverityError,
		})
	}

	return summary, errs
}

func checkJobs(jobsKey, jobsVal *yaml.Node, summary *StructureSummary) []Diagnostic {
	if jobsKey == nil {
		return []Diagnostic{{
			Kind:     KindMissingJobs,
			Message:  `required "jobs" section missing`,
			Severity: SeverityError,
		}}
	}

	if isNullScalar(jobsVal) || (isMapping(jobsVal) && len(jobsVal.Content) == 0) {
		return []Diagnostic{{
			Line:     jobsKey.Line,
			Kind:     KindEmptyJobs,
			Message:  `"jobs" section contains no jobs`,
			Severity: SeverityError,
		}}
	}

	if !isMapping(jobsVal) {
		return []Diagnostic{{
			Line:     jobsKey.Line,
			Kind:     KindInvalidJobs,
			Message:  `"jobs" must be a mapping of job IDs to jobs`,
			Severity: SeverityError,
		}}
	}

	var errs []Diagnostic
	for _, pair := range mappingPairs(jobsVal) {
		jobKey, jobVal := pair[0], pair[1]
		summary.Jobs = append(summary.Jobs, jobKey.Value)
		summary.JobCount++
		errs = append(errs, checkJob(jobKey, jobVal, summary)...)
	}
	return errs
}

func checkJob(jobKey, jobVal *yaml.Node, summary *StructureSummary) []Diagnostic {
	if !isMapping(jobVal) {
		return []Diagnostic{{
			Line:     jobKey.Line,
			Kind:     KindInvalidJob,
			Message:  fmt.Sprintf("job %q must be a mapping", jobKey.Value),
			Severity: SeverityError,
		}}
	}

	var errs []Diagnostic

	_, runsOn := mappingValue(jobVal, "runs-on")
	_, uses := mappingValue(jobVal, "uses")
	if runsOn == nil && uses == nil {
		errs = append(errs, Diagnostic{
			Line:     jobKey.Line,
			Kind:     KindJobMissingRunner,
			Message:  fmt.Sprintf("job %q missing \"runs-on\" or \"uses\"", jobKey.Value),
			Severity: SeverityError,
		})
	}

	if stepsKey, stepsVal := mappingValue(jobVal, "steps"); stepsKey != nil {
		errs = append(errs, checkSteps(jobKey.Value, stepsKey, stepsVal)...)
	}

	if permKey, permVal := mappingValue(jobVal, "permissions"); permKey != nil {
		summary.HasPermissions = true
		errs = append(errs, checkPermissions(permKey, permVal, fmt.Sprintf("job %q", jobKey.Value))...)
	}

	if stratKey, stratVal := mappingValue(jobVal, "strategy"); stratKey != nil {
		errs = append(errs, checkStrategy(stratKey, stratVal, fmt.Sprintf("job %q", jobKey.Value))...)
	}

	return errs
}

func checkSteps(jobID string, stepsKey, stepsVal *yaml.Node) []Diagnostic {
	if isNullScalar(stepsVal) {
		return nil // empty steps is a lint finding, not a schema error
	}
	if !isSequence(stepsVal) {
		return []Diagnostic{{
			Line:     stepsKey.Line,
			Kind:     KindInvalidSteps,
			Message:  fmt.Sprintf("job %q steps must be a sequence", jobID),
			Severity: SeverityError,
		}}
	}

	var errs []Diagnostic
	for idx, raw := range stepsVal.Content {
		step := resolveAlias(raw)
		_, run := mappingValue(step, "run")
		_, uses := mappingValue(step, "uses")
		if !isMapping(step) || (run == nil && uses == nil) {
			errs = append(errs, Diagnostic{
				Line:     step.Line,
				Kind:     KindStepMissingAction,
				Message:  fmt.Sprintf("invalid step #%d in job %q: needs \"run\" or \"uses\"", idx+1, jobID),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func checkPermissions(permKey, permVal *yaml.Node, context string) []Diagnostic {
	if isScalar(permVal) && !isNullScalar(permVal) {
		if permVal.Value != "read-all" && permVal.Value != "write-all" {
			return []Diagnostic{{
				Line:     permVal.Line,
				Kind:     KindInvalidPermissionScope,
				Message:  fmt.Sprintf("invalid permissions shorthand %q in %s: must be \"read-all\" or \"write-all\"", permVal.Value, context),
				Severity: SeverityError,
			}}
		}
		return nil
	}

	if !isMapping(permVal) {
		return []Diagnostic{{
			Line:     permKey.Line,
			Kind:     KindInvalidPermissionType,
			Message:  fmt.Sprintf("permissions in %s must be a mapping or \"read-all\"/\"write-all\"", context),
			Severity: SeverityError,
		}}
	}

	var errs []Diagnostic
	seen := make(map[string]struct{})
	for _, pair := range mappingPairs(permVal) {
		scope, level := pair[0], pair[1]

		if _, dup := seen[scope.Value]; dup {
			errs = append(errs, Diagnostic{
				Line:     scope.Line,
				Kind:     KindDuplicatePermissionScope,
				Message:  fmt.Sprintf("duplicate scope %q in permissions for %s", scope.Value, context),
				Severity: SeverityError,
			})
		}
		seen[scope.Value] = struct{}{}

		if _, ok := permissionScopes[scope.Value]; !ok {
			errs = append(errs, Diagnostic{
				Line:     scope.Line,
				Kind:     KindInvalidPermissionScope,
				Message:  fmt.Sprintf("invalid scope %q in permissions for %s", scope.Value, context),
				Severity: SeverityError,
			})
		}

		levelOK := isScalar(level) && !isNullScalar(level)
		if levelOK {
			_, levelOK = permissionLevels[level.Value]
		}
		if !levelOK {
			errs = append(errs, Diagnostic{
				Line:     scope.Line,
				Kind:     KindInvalidPermissionLevel,
				Message:  fmt.Sprintf("invalid level for scope %q in %s: must be read/write/none", scope.Value, context),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func checkStrategy(stratKey, stratVal *yaml.Node, context string) []Diagnostic {
	if !isMapping(stratVal) {
		return []Diagnostic{{
			Line:     stratKey.Line,
			Kind:     KindInvalidStrategy,
			Message:  fmt.Sprintf("strategy in %s must be a mapping", context),
			Severity: SeverityError,
		}}
	}

	var errs []Diagnostic

	if key, val := mappingValue(stratVal, "fail-fast"); key != nil && !isBoolScalar(val) {
		errs = append(errs, Diagnostic{
			Line:     key.Line,
			Kind:     KindInvalidFailFast,
			Message:  fmt.Sprintf("\"fail-fast\" in strategy for %s must be a boolean", context),
			Severity: SeverityError,
		})
	}

	if key, val := mappingValue(stratVal, "max-parallel"); key != nil && !isPositiveIntScalar(val) {
		errs = append(errs, Diagnostic{
			Line:     key.Line,
			Kind:     KindInvalidMaxParallel,
			Message:  fmt.Sprintf("\"max-parallel\" in strategy for %s must be a positive integer", context),
			Severity: SeverityError,
		})
	}

	if key, val := mappingValue(stratVal, "continue-on-error"); key != nil && !isBoolScalar(val) {
		errs = append(errs, Diagnostic{
			Line:     key.Line,
			Kind:     KindInvalidContinueOnError,
			Message:  fmt.Sprintf("\"continue-on-error\" in strategy for %s must be a boolean (expressions are not statically checkable)", context),
			Severity: SeverityError,
		})
	}

	if key, val := mappingValue(stratVal, "matrix"); key != nil {
		errs = append(errs, checkMatrix(key, val, context)...)
	}

	return errs
}

func checkMatrix(matrixKey, matrixVal *yaml.Node, context string) []Diagnostic {
	if !isMapping(matrixVal) {
		return []Diagnostic{{
			Line:     matrixKey.Line,
			Kind:     KindInvalidStrategyMatrix,
			Message:  fmt.Sprintf("\"matrix\" in strategy for %s must be a mapping", context),
			Severity: SeverityError,
		}}
	}

	var errs []Diagnostic
	for _, pair := range mappingPairs(matrixVal) {
		varKey, variants := pair[0], pair[1]

		if varKey.Value == "include" || varKey.Value == "exclude" {
			if !isSequenceOfMappings(variants) {
				errs = append(errs, Diagnostic{
					Line:     varKey.Line,
					Kind:     KindInvalidMatrixInclude,
					Message:  fmt.Sprintf("%q in matrix for %s must be a sequence of mappings", varKey.Value, context),
					Severity: SeverityError,
				})
			}
			continue
		}

		if !isSequenceOfScalars(variants) {
			errs = append(errs, Diagnostic{
				Line:     varKey.Line,
				Kind:     KindInvalidMatrixValue,
				Message:  fmt.Sprintf("variants for %q in matrix for %s must be a sequence of scalars", varKey.Value, context),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// triggerSet normalizes "on" into a sorted list of trigger names regardless
// of the scalar / sequence / mapping form it was written in.
func triggerSet(onVal *yaml.Node) []string {
	set := make(map[string]struct{})
	switch {
	case isScalar(onVal) && !isNullScalar(onVal):
		set[onVal.Value] = struct{}{}
	case isSequence(onVal):
		for _, item := range onVal.Content {
			item = resolveAlias(item)
			if isScalar(item) && !isNullScalar(item) {
				set[item.Value] = struct{}{}
			}
		}
	case isMapping(onVal):
		for _, pair := range mappingPairs(onVal) {
			set[pair[0].Value] = struct{}{}
		}
	}

	triggers := make([]string, 0, len(set))
	for name := range set {
		triggers = append(triggers, name)
	}
	sort.Strings(triggers)
	return triggers
}

func isBoolScalar(node *yaml.Node) bool {
	return isScalar(node) && node.Tag == "!!bool"
}

func isPositiveIntScalar(node *yaml.Node) bool {
	if !isScalar(node) || node.Tag != "!!int" {
		return false
	}
	// yaml.v3 has already resolved the tag; a leading '-' is the only way
	// the value can be non-positive besides zero.
	return node.Value != "0" && node.Value[0] != '-'
}

func isSequenceOfMappings(node *yaml.Node) bool {
	if !isSequence(node) {
		return false
	}
	for _, item := range node.Content {
		if !isMapping(resolveAlias(item)) {
			return false
		}
	}
	return true
}

func isSequenceOfScalars(node *yaml.Node) bool {
	if !isSequence(node) {
		return false
	}
	for _, item := range node.Content {
		item = resolveAlias(item)
		if !isScalar(item) || isNullScalar(item) {
			return false
		}
	}
	return true
}
