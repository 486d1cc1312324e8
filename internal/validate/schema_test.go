package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func structureOf(t *testing.T, content string) (StructureSummary, []Diagnostic) {
	t.Helper()
	doc, diag := parseDocument(content)
	require.Nil(t, diag, "fixture must parse: %v", diag)
	return checkStructure(doc)
}

func kindsOf(diags []Diagnostic) []string {
	kinds := make([]string, len(diags))
	for i, d := range diags {
		kinds[i] = d.Kind
	}
	return kinds
}

func TestCheckStructureRules(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name: "clean workflow",
			content: `name: CI
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
`,
			want: nil,
		},
		{
			name:    "root is a sequence",
			content: "- a\n- b\n",
			want:    []string{KindInvalidRootType},
		},
		{
			name:    "root is a scalar",
			content: "just a string\n",
			want:    []string{KindInvalidRootType},
		},
		{
			name: "missing on",
			content: `jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindMissingOn},
		},
		{
			name: "null on",
			content: `on:
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindInvalidOn},
		},
		{
			name:    "missing jobs",
			content: "on: push\n",
			want:    []string{KindMissingJobs},
		},
		{
			name:    "null jobs",
			content: "on: push\njobs:\n",
			want:    []string{KindEmptyJobs},
		},
		{
			name:    "empty jobs mapping",
			content: "on: push\njobs: {}\n",
			want:    []string{KindEmptyJobs},
		},
		{
			name:    "jobs is a sequence",
			content: "on: push\njobs:\n  - build\n",
			want:    []string{KindInvalidJobs},
		},
		{
			name: "job is a scalar",
			content: `on: push
jobs:
  build: just-a-string
`,
			want: []string{KindInvalidJob},
		},
		{
			name: "job without runner or reusable workflow",
			content: `on: push
jobs:
  build:
    steps:
      - run: make
`,
			want: []string{KindJobMissingRunner},
		},
		{
			name: "reusable workflow job needs no runner",
			content: `on: push
jobs:
  deploy:
    uses: ./.github/workflows/deploy.yml
`,
			want: nil,
		},
		{
			name: "steps is a mapping",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      first: run
`,
			want: []string{KindInvalidSteps},
		},
		{
			name: "step without run or uses",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - name: just a name
`,
			want: []string{KindStepMissingAction},
		},
		{
			name: "unknown permission scope",
			content: `on: push
permissions:
  nonsense: read
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindInvalidPermissionScope},
		},
		{
			name: "bad permission level",
			content: `on: push
permissions:
  contents: admin
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindInvalidPermissionLevel},
		},
		{
			name: "permissions shorthand read-all",
			content: `on: push
permissions: read-all
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: nil,
		},
		{
			name: "bad permissions shorthand",
			content: `on: push
permissions: everything
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindInvalidPermissionScope},
		},
		{
			name: "permissions is a sequence",
			content: `on: push
permissions:
  - contents
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindInvalidPermissionType},
		},
		{
			name: "duplicate permission scope",
			content: `on: push
permissions:
  contents: read
  contents: write
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindDuplicatePermissionScope},
		},
		{
			name: "job level permissions checked too",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    permissions:
      bogus: read
`,
			want: []string{KindInvalidPermissionScope},
		},
		{
			name: "strategy is a scalar",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy: please
`,
			want: []string{KindInvalidStrategy},
		},
		{
			name: "matrix is a sequence",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        - go: "1.22"
`,
			want: []string{KindInvalidStrategyMatrix},
		},
		{
			name: "fail-fast is a string",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      fail-fast: sometimes
`,
			want: []string{KindInvalidFailFast},
		},
		{
			name: "max-parallel is zero",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      max-parallel: 0
`,
			want: []string{KindInvalidMaxParallel},
		},
		{
			name: "max-parallel is negative",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      max-parallel: -2
`,
			want: []string{KindInvalidMaxParallel},
		},
		{
			name: "continue-on-error is a string",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      continue-on-error: maybe
`,
			want: []string{KindInvalidContinueOnError},
		},
		{
			name: "matrix include is not a sequence of mappings",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        os: [ubuntu-latest]
        include:
          - just-a-string
`,
			want: []string{KindInvalidMatrixInclude},
		},
		{
			name: "matrix variants are not scalars",
			content: `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        os:
          - name: ubuntu
`,
			want: []string{KindInvalidMatrixValue},
		},
		{
			name: "env is a sequence",
			content: `on: push
env:
  - FOO=bar
jobs:
  build:
    runs-on: ubuntu-latest
`,
			want: []string{KindInvalidEnv},
		},
		{
			name: "multiple independent violations",
			content: `permissions:
  bogus: admin
jobs:
  build: oops
`,
			want: []string{
				KindMissingOn,
				KindInvalidJob,
				KindInvalidPermissionScope,
				KindInvalidPermissionLevel,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := checkStructure(mustParse(t, tt.content))
			assert.ElementsMatch(t, tt.want, kindsOf(errs))
			for _, e := range errs {
				assert.Equal(t, SeverityError, e.Severity)
				assert.NotEmpty(t, e.Message)
			}
		})
	}
}

func mustParse(t *testing.T, content string) *yaml.Node {
	t.Helper()
	doc, diag := parseDocument(content)
	require.Nil(t, diag)
	return doc
}

func TestCheckStructureSummary(t *testing.T) {
	summary, errs := structureOf(t, `name: CI
on:
  push:
    branches: [main]
  pull_request:
env:
  GOFLAGS: -mod=readonly
permissions:
  contents: read
jobs:
  lint:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
  test:
    runs-on: ubuntu-latest
    steps:
      - run: go test ./...
`)

	assert.Empty(t, errs)
	assert.True(t, summary.HasName)
	assert.True(t, summary.HasOn)
	assert.True(t, summary.HasJobs)
	assert.True(t, summary.HasEnv)
	assert.True(t, summary.HasPermissions)
	assert.Equal(t, 2, summary.JobCount)
	assert.Equal(t, []string{"lint", "test"}, summary.Jobs, "jobs keep document order")
	assert.Equal(t, []string{"pull_request", "push"}, summary.Triggers, "triggers are sorted")
}

func TestCheckStructureJobLevelPermissionsSetSummaryFlag(t *testing.T) {
	summary, errs := structureOf(t, `on: push
jobs:
  build:
    runs-on: ubuntu-latest
    permissions:
      contents: read
`)

	assert.Empty(t, errs)
	assert.True(t, summary.HasPermissions)
}

func TestTriggerSetForms(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"scalar", "on: push\njobs:\n  b:\n    runs-on: x\n", []string{"push"}},
		{"sequence", "on: [push, pull_request]\njobs:\n  b:\n    runs-on: x\n", []string{"pull_request", "push"}},
		{"mapping", "on:\n  push:\n  schedule:\n    - cron: '0 0 * * *'\njobs:\n  b:\n    runs-on: x\n", []string{"push", "schedule"}},
		{"duplicates collapse", "on: [push, push]\njobs:\n  b:\n    runs-on: x\n", []string{"push"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, _ := structureOf(t, tt.content)
			assert.Equal(t, tt.want, summary.Triggers)
		})
	}
}

func TestCheckStructurePermissionScopeAllowList(t *testing.T) {
	// Every documented scope must pass with every documented level.
	for scope := range permissionScopes {
		for level := range permissionLevels {
			content := "on: push\npermissions:\n  " + scope + ": " + level + "\njobs:\n  b:\n    runs-on: x\n"
			_, errs := structureOf(t, content)
			assert.Empty(t, errs, "scope %s level %s", scope, level)
		}
	}
}
