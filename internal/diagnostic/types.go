package diagnostic

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:generate go tool stringer -type=Severity -linecomment -output=severity_string.go

// Diagnostic codes.
const (
	CodeParseError      = "PARSE_ERROR"
	CodeMissingField    = "MISSING_FIELD"
	CodeUnknownRound    = "UNKNOWN_ROUND"
	CodeNotVerified     = "NOT_VERIFIED"
	CodeWriteError      = "WRITE_ERROR"
	CodeMapError        = "MAP_ERROR"
	CodeOverrideApplied = "OVERRIDE_APPLIED"
)

// Diagnostics holds all diagnostic information from a batch run.
type Diagnostics struct {
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
	Infos    []Diagnostic `json:"infos"`
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `json:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Row is the input line the diagnostic relates to (0 if none).
	Row int `json:"row,omitempty"`
	// ProjectID identifies the project the row belongs to (if known).
	ProjectID string `json:"project_id,omitempty"`
	// Detail carries the raw row content for failed rows.
	Detail string `json:"detail,omitempty"`
}

// Location identifies the input row a diagnostic relates to.
type Location struct {
	Row       int
	ProjectID string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo    Severity = iota // info
	SeverityWarning                 // warning
	SeverityError                   // error
)

// MarshalJSON writes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// AddError adds an error diagnostic with the raw row content in detail.
func (d *Diagnostics) AddError(code, message string, loc Location, detail string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:  SeverityError,
		Code:      code,
		Message:   message,
		Row:       loc.Row,
		ProjectID: loc.ProjectID,
		Detail:    detail,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string, loc Location) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:  SeverityWarning,
		Code:      code,
		Message:   message,
		Row:       loc.Row,
		ProjectID: loc.ProjectID,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message string, loc Location) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity:  SeverityInfo,
		Code:      code,
		Message:   message,
		Row:       loc.Row,
		ProjectID: loc.ProjectID,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Count returns the number of diagnostics with the given code.
func (d *Diagnostics) Count(code string) int {
	n := 0

	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			if diag.Code == code {
				n++
			}
		}
	}

	return n
}

// Error returns a combined error from all error diagnostics, or nil if none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// WriteFile writes the diagnostics as indented JSON.
func (d *Diagnostics) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write diagnostics report %s: %w", path, err)
	}

	return nil
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Row > 0 {
		prefix = append(prefix, fmt.Sprintf("row %d", d.Row))
	}

	if d.ProjectID != "" {
		prefix = append(prefix, "["+d.ProjectID+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
