package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/bkyoung/diff-annotate/internal/domain"
)

// Wire types for the analyzer's machine-readable JSON output.
type diagnosticsPayload struct {
	Diagnostics []diagnostic `json:"diagnostics"`
}

type diagnostic struct {
	Severity       string             `json:"severity"`
	ProblemMessage string             `json:"problemMessage"`
	Message        string             `json:"message"`
	Location       diagnosticLocation `json:"location"`
}

type diagnosticLocation struct {
	File  string          `json:"file"`
	Range diagnosticRange `json:"range"`
}

type diagnosticRange struct {
	Start diagnosticPosition `json:"start"`
}

type diagnosticPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ParseDiagnostics decodes the JSON diagnostics format. Malformed or
// absent JSON yields an empty finding list rather than an error; entries
// with an unknown severity or an invalid location are dropped at the
// parse boundary.
func (p *Parser) ParseDiagnostics(raw string) []domain.Finding {
	findings, _ := p.parseDiagnostics(raw)
	return findings
}

// parseDiagnostics additionally reports whether the payload was a valid
// diagnostics document, which Parse uses for format sniffing.
func (p *Parser) parseDiagnostics(raw string) ([]domain.Finding, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var payload diagnosticsPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, false
	}
	if payload.Diagnostics == nil {
		return nil, false
	}

	var findings []domain.Finding
	for _, diag := range payload.Diagnostics {
		severity := strings.ToLower(diag.Severity)
		if !domain.ValidSeverity(severity) {
			continue
		}

		message := diag.ProblemMessage
		if message == "" {
			message = diag.Message
		}

		if diag.Location.File == "" || diag.Location.Range.Start.Line <= 0 {
			continue
		}

		findings = append(findings, domain.Finding{
			Severity: severity,
			Message:  message,
			File:     p.normalizePath(diag.Location.File),
			Line:     diag.Location.Range.Start.Line,
			Column:   diag.Location.Range.Start.Column,
		})
	}
	return findings, true
}
