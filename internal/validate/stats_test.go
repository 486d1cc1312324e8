package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single line no newline", "a: 1", []string{"a: 1"}},
		{"trailing newline not an extra line", "a: 1\n", []string{"a: 1"}},
		{"crlf stripped", "a: 1\r\nb: 2\r\n", []string{"a: 1", "b: 2"}},
		{"interior blanks kept", "a: 1\n\nb: 2\n", []string{"a: 1", "", "b: 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines(tt.content))
		})
	}
}

func TestComputeStats(t *testing.T) {
	lines := splitLines(`# workflow

name: CI
on: push
   # indented comment

jobs:
`)
	stats := computeStats(lines)

	assert.Equal(t, 7, stats.TotalLines)
	assert.Equal(t, 2, stats.EmptyLines)
	assert.Equal(t, 2, stats.CommentLines)
	assert.Equal(t, 3, stats.CodeLines)
	assert.Equal(t, stats.TotalLines, stats.EmptyLines+stats.CommentLines+stats.CodeLines)
}
