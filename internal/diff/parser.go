package diff

import (
	"strconv"
	"strings"
)

// LineType classifies a line inside a diff hunk.
type LineType int

const (
	// LineContext is an unchanged line (prefix ' ').
	LineContext LineType = iota
	// LineAddition is a line added on the new revision (prefix '+').
	LineAddition
	// LineDeletion is a line removed from the old revision (prefix '-').
	LineDeletion
)

// Line is a single line of a diff hunk.
type Line struct {
	Type     LineType
	Content  string // line content without the prefix character
	NewLine  *int   // new-revision line number, nil for deletions
	Position int    // 1-indexed position counted from the first @@ header
}

// Hunk is one @@ block of a per-file unified diff.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// ParsedFile is the parsed diff of a single file.
type ParsedFile struct {
	Hunks []Hunk
}

// ParseFile parses the unified diff of a single file. File headers
// (diff --git, index, ---, +++) before the first hunk and "\ No newline"
// markers are skipped;
// malformed hunk headers are ignored rather than failing the parse. A
// patch with no hunks (e.g. a pure rename) parses to an empty result.
func ParseFile(patch string) ParsedFile {
	var parsed ParsedFile
	if patch == "" {
		return parsed
	}

	var current *Hunk
	position := 0
	newLine := 0

	for _, raw := range strings.Split(patch, "\n") {
		if raw == "" {
			continue
		}

		if strings.HasPrefix(raw, "\\ ") {
			continue
		}

		// File headers only appear before the first hunk. Inside a hunk
		// a line like "+++ x" is an addition whose content is "++ x".
		if current == nil && isFileHeader(raw) {
			continue
		}

		if strings.HasPrefix(raw, "@@") {
			if current != nil {
				parsed.Hunks = append(parsed.Hunks, *current)
			}
			hunk, ok := parseHunkHeader(raw)
			if !ok {
				current = nil
				continue
			}
			current = &hunk
			// The first line of the hunk body lands on NewStart.
			newLine = hunk.NewStart - 1
			continue
		}

		if current == nil {
			continue
		}

		position++
		line := Line{Position: position}

		switch raw[0] {
		case '+':
			newLine++
			line.Type = LineAddition
			line.Content = raw[1:]
			line.NewLine = intPtr(newLine)
		case '-':
			line.Type = LineDeletion
			line.Content = raw[1:]
		case ' ':
			newLine++
			line.Type = LineContext
			line.Content = raw[1:]
			line.NewLine = intPtr(newLine)
		default:
			// Unknown prefix: count it as context so line tracking
			// stays aligned with the new revision.
			newLine++
			line.Type = LineContext
			line.Content = raw
			line.NewLine = intPtr(newLine)
		}

		current.Lines = append(current.Lines, line)
	}

	if current != nil {
		parsed.Hunks = append(parsed.Hunks, *current)
	}

	return parsed
}

// AddedLines returns the new-revision line numbers of every addition.
func (pf ParsedFile) AddedLines() []int {
	var lines []int
	for _, hunk := range pf.Hunks {
		for _, line := range hunk.Lines {
			if line.Type == LineAddition && line.NewLine != nil {
				lines = append(lines, *line.NewLine)
			}
		}
	}
	return lines
}

// FindPosition returns the 1-indexed diff position of the given
// new-revision line number, or nil when the line does not appear in the
// diff. Only needed for comment stores addressing by legacy position.
func (pf ParsedFile) FindPosition(newLineNumber int) *int {
	if newLineNumber <= 0 {
		return nil
	}
	for _, hunk := range pf.Hunks {
		for _, line := range hunk.Lines {
			if line.NewLine != nil && *line.NewLine == newLineNumber {
				return intPtr(line.Position)
			}
		}
	}
	return nil
}

func isFileHeader(line string) bool {
	return strings.HasPrefix(line, "diff --git") ||
		strings.HasPrefix(line, "index ") ||
		strings.HasPrefix(line, "--- ") ||
		strings.HasPrefix(line, "+++ ")
}

// parseHunkHeader parses "@@ -a,b +c,d @@ optional section heading".
func parseHunkHeader(line string) (Hunk, bool) {
	parts := strings.Split(line, "@@")
	if len(parts) < 2 {
		return Hunk{}, false
	}

	var hunk Hunk
	seen := false
	for _, field := range strings.Fields(strings.TrimSpace(parts[1])) {
		switch {
		case strings.HasPrefix(field, "-"):
			hunk.OldStart, hunk.OldLines = parseRange(field[1:])
			seen = true
		case strings.HasPrefix(field, "+"):
			hunk.NewStart, hunk.NewLines = parseRange(field[1:])
			seen = true
		}
	}
	return hunk, seen
}

// parseRange parses "start,count"; a bare "start" implies count 1.
func parseRange(s string) (start, count int) {
	if idx := strings.Index(s, ","); idx >= 0 {
		start, _ = strconv.Atoi(s[:idx])
		count, _ = strconv.Atoi(s[idx+1:])
		return start, count
	}
	start, _ = strconv.Atoi(s)
	return start, 1
}

func intPtr(n int) *int {
	return &n
}
