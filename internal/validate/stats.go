package validate

import "strings"

// splitLines splits content the way editors count lines: a trailing newline
// does not start an extra empty line. Handles CRLF input.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// computeStats partitions every line into exactly one of empty, comment, or
// code. It works on raw text, so it is available even when parsing failed.
func computeStats(lines []string) FileStats {
	stats := FileStats{TotalLines: len(lines)}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			stats.EmptyLines++
		case strings.HasPrefix(trimmed, "#"):
			stats.CommentLines++
		default:
			stats.CodeLines++
		}
	}
	return stats
}
