package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/actioncheck/internal/contract"
)

const validWorkflow = `name: CI
on: [push]
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: go test ./...
`

const invalidWorkflow = `name: CI
on: [push]
`

// chdir mirrors t.Chdir (Go 1.24+) for the Go 1.21 toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func runCommand(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	chdir(t, dir)
	t.Setenv("GITHUB_ACTIONS", "")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeWorkflow(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommandValidFile(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", validWorkflow)

	stdout, _, err := runCommand(t, dir, "validate", "ci.yml")

	require.NoError(t, err)
	assert.Contains(t, stdout, "RESULT: workflow is valid")
	assert.Contains(t, stdout, "SUMMARY:")
}

func TestValidateCommandInvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", invalidWorkflow)

	stdout, _, err := runCommand(t, dir, "validate", "ci.yml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
	assert.Contains(t, stdout, "MissingJobs")
}

func TestValidateCommandJSONSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", validWorkflow)

	stdout, _, err := runCommand(t, dir, "validate", "--format", "json", "ci.yml")

	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, true, doc["valid"])
	assert.NotContains(t, doc, "files", "single input uses the single-file shape")
	require.NoError(t, contract.Validate([]byte(stdout)))
}

func TestValidateCommandJSONBatchFlag(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", validWorkflow)

	stdout, _, err := runCommand(t, dir, "validate", "--format", "json", "--batch", "ci.yml")

	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Contains(t, doc, "files")
	assert.Equal(t, true, doc["overall_valid"])
	require.NoError(t, contract.Validate([]byte(stdout)))
}

func TestValidateCommandMultipleFilesBatch(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "good.yml", validWorkflow)
	writeWorkflow(t, dir, "bad.yml", invalidWorkflow)

	stdout, _, err := runCommand(t, dir, "validate", "--format", "json", "good.yml", "bad.yml")

	require.Error(t, err)
	var doc struct {
		Files        map[string]struct{ Valid bool } `json:"files"`
		OverallValid bool                            `json:"overall_valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.False(t, doc.OverallValid)
	assert.True(t, doc.Files["good.yml"].Valid)
	assert.False(t, doc.Files["bad.yml"].Valid)
}

func TestValidateCommandDefaultDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, filepath.Join(".github", "workflows", "ci.yml"), validWorkflow)

	stdout, _, err := runCommand(t, dir, "validate")

	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(".github", "workflows", "ci.yml"))
}

func TestValidateCommandNoMatches(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCommand(t, dir, "validate", "--format", "json")

	require.Error(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, false, doc["overall_valid"])
	assert.Equal(t, "no workflow files matched", doc["error"])
}

func TestValidateCommandAnnotationsOn(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", invalidWorkflow)

	_, stderr, err := runCommand(t, dir, "validate", "--annotations", "on", "ci.yml")

	require.Error(t, err)
	assert.Contains(t, stderr, "::error file=ci.yml,line=1::MissingJobs:")
}

func TestValidateCommandAnnotationsAutoOutsideCI(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", invalidWorkflow)

	_, stderr, err := runCommand(t, dir, "validate", "ci.yml")

	require.Error(t, err)
	assert.NotContains(t, stderr, "::error")
}

func TestValidateCommandAnnotationsAutoInCI(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", invalidWorkflow)
	t.Setenv("GITHUB_ACTIONS", "true")
	chdir(t, dir)

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"validate", "ci.yml"})

	require.Error(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "::error")
}

func TestValidateCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", validWorkflow)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".actioncheck.yml"), []byte("format: json\nworkflows:\n  - ci.yml\n"), 0o644))

	stdout, _, err := runCommand(t, dir, "validate")

	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "1.0", doc["version"])
}

func TestValidateCommandBadFormat(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "ci.yml", validWorkflow)

	_, _, err := runCommand(t, dir, "validate", "--format", "xml", "ci.yml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
