// Package analyzer extracts findings from static-analyzer output, in
// either the human-readable line format or the machine JSON format.
package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bkyoung/diff-annotate/internal/domain"
)

// findingPattern matches one finding line of the human-readable output:
//
//	[warning] unused_import (lib/main.dart:10:3)
var findingPattern = regexp.MustCompile(`^\s*\[(info|warning|error)\]\s+(.+?)\s+\(([^()]+):(\d+):(\d+)\)\s*$`)

// Log formats accepted by Parse.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Parser converts raw analyzer output into findings. Paths are
// normalized against workingDir so findings always address files
// relative to the repository root.
type Parser struct {
	workingDir string
	format     string
}

// NewParser creates a parser. workingDir is the absolute path the
// analyzer ran in; it is stripped from reported file paths.
func NewParser(workingDir string) *Parser {
	return &Parser{workingDir: normalizeSeparators(workingDir), format: FormatAuto}
}

// SetFormat pins Parse to one log format instead of sniffing.
func (p *Parser) SetFormat(format string) {
	p.format = format
}

// Parse sniffs the payload format unless one is pinned: a JSON object
// carrying a diagnostics array takes the structured path, anything else
// is scanned line by line. Either way, unrecognized content is skipped,
// never an error.
func (p *Parser) Parse(raw string) []domain.Finding {
	switch p.format {
	case FormatText:
		return p.ParseText(raw)
	case FormatJSON:
		findings, _ := p.parseDiagnostics(raw)
		return findings
	}
	if findings, ok := p.parseDiagnostics(raw); ok {
		return findings
	}
	return p.ParseText(raw)
}

// ParseText scans line-oriented analyzer output. Lines that do not
// match the finding pattern are ignored.
func (p *Parser) ParseText(raw string) []domain.Finding {
	var findings []domain.Finding
	for _, line := range strings.Split(raw, "\n") {
		match := findingPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		lineNo, err := strconv.Atoi(match[4])
		if err != nil || lineNo <= 0 {
			continue
		}
		column, err := strconv.Atoi(match[5])
		if err != nil || column <= 0 {
			continue
		}

		findings = append(findings, domain.Finding{
			Severity: match[1],
			Message:  match[2],
			File:     p.normalizePath(match[3]),
			Line:     lineNo,
			Column:   column,
		})
	}
	return findings
}

// normalizePath makes a reported path relative to the repository root:
// separators become forward slashes, the working-directory prefix and
// any leading slash are stripped.
func (p *Parser) normalizePath(path string) string {
	path = normalizeSeparators(path)
	if p.workingDir != "" {
		path = strings.TrimPrefix(path, p.workingDir)
	}
	return strings.TrimPrefix(path, "/")
}

func normalizeSeparators(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
