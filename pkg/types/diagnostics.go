package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Diagnostic System
// -----------------------------------------------------------------------------
//
// Recoverable failures during a scan (a node vanished between listing and
// opening, a property file is unreadable) abandon only that subtree. The
// session's error cell keeps the first one; the report keeps all of them.

// Severity classifies how serious a diagnostic issue is.
type Severity int

const (
	SevWarning Severity = iota // property ignored, device still reported
	SevError                   // subtree abandoned, devices may be missing
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Diagnostic represents a single recoverable failure.
type Diagnostic struct {
	Severity Severity
	Op       string // "readdir", "read"
	Path     string // OS path of the node or property
	Err      error
}

// MarshalJSON renders the cause as text.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	var cause string
	if d.Err != nil {
		cause = d.Err.Error()
	}
	return json.Marshal(struct {
		Severity string `json:"severity"`
		Op       string `json:"op"`
		Path     string `json:"path"`
		Error    string `json:"error,omitempty"`
	}{d.Severity.String(), d.Op, d.Path, cause})
}

// DiagnosticReport collects all diagnostics found during a scan.
type DiagnosticReport struct {
	Root        string        `json:"root"`
	ScanTime    time.Duration `json:"scan_time"`
	Devices     int           `json:"devices"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	Summary     DiagSummary   `json:"summary"`
}

// DiagSummary provides quick statistics.
type DiagSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// NewDiagnosticReport creates an empty report for root.
func NewDiagnosticReport(root string) *DiagnosticReport {
	return &DiagnosticReport{Root: root}
}

// Add adds a diagnostic to the report and updates the summary.
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	}
}

// HasErrors returns true if any subtree was abandoned.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasAnyIssues returns true if any issues were found.
func (r *DiagnosticReport) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// FormatJSON returns the report as formatted JSON (2-space indentation).
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report.
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 79) + "\n")
	b.WriteString("Device Tree Diagnostic Report\n")
	b.WriteString(strings.Repeat("=", 79) + "\n\n")

	fmt.Fprintf(&b, "Root:      %s\n", r.Root)
	fmt.Fprintf(&b, "Devices:   %d\n", r.Devices)
	fmt.Fprintf(&b, "Scan time: %v\n\n", r.ScanTime)

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	fmt.Fprintf(&b, "  Errors:   %d\n", r.Summary.Errors)
	fmt.Fprintf(&b, "  Warnings: %d\n\n", r.Summary.Warnings)

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("DIAGNOSTICS\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	for i, d := range r.Diagnostics {
		fmt.Fprintf(&b, "%d. [%s] %s %s", i+1, d.Severity, d.Op, d.Path)
		if d.Err != nil {
			fmt.Fprintf(&b, ": %v", d.Err)
		}
		b.WriteString("\n")
	}
	return b.String()
}
