// internal/reporting/report.go
package reporting

import (
	"time"

	"github.com/xkilldash9x/nullpath-cli/internal/findings"
	"github.com/xkilldash9x/nullpath-cli/internal/scanner"
)

// Constants for tool identification in generated reports.
const (
	ToolName        = "nullpath-cli"
	ToolDescription = "LLM-assisted null pointer dereference detector for Python"
	ToolInfoURI     = "https://github.com/xkilldash9x/nullpath-cli"
)

// Report is a pure projection of one run's finding list: tool identity, scan
// timestamp, the severity-ranked findings and the derived summary. It
// carries no decision logic of its own.
type Report struct {
	Tool        string                `json:"tool"`
	Description string                `json:"description"`
	Version     string                `json:"version"`
	ScanTime    time.Time             `json:"scan_time"`
	TotalBugs   int                   `json:"total_bugs"`
	Bugs        []findings.Finding    `json:"bugs"`
	Summary     findings.Summary      `json:"summary"`
	Skipped     []scanner.SkippedFile `json:"skipped_files,omitempty"`
}

// NewReport assembles a report from a finished run. Findings are presented
// most severe first; ties keep their discovery order.
func NewReport(run *scanner.Run, version string) *Report {
	return &Report{
		Tool:        ToolName,
		Description: ToolDescription,
		Version:     version,
		ScanTime:    time.Now(),
		TotalBugs:   run.Findings.Len(),
		Bugs:        run.Findings.RankBySeverity(),
		Summary:     run.Findings.Summary(),
		Skipped:     run.Skipped,
	}
}
