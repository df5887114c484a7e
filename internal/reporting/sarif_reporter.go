// internal/reporting/sarif_reporter.go
package reporting

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/xkilldash9x/nullpath-cli/internal/findings"
)

// sarifRuleID identifies the single analysis rule this tool implements.
const sarifRuleID = "NPD001"

// SARIFReporter writes the report in SARIF 2.1.0 format so findings can be
// ingested by code-scanning platforms.
type SARIFReporter struct {
	writer io.WriteCloser
}

// NewSARIFReporter creates a reporter that takes ownership of the writer.
func NewSARIFReporter(writer io.WriteCloser) *SARIFReporter {
	return &SARIFReporter{writer: writer}
}

// Write converts the findings into one SARIF run.
func (r *SARIFReporter) Write(report *Report) error {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF log: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolInfoURI)
	rule := run.AddRule(sarifRuleID).
		WithDescription("Possible null (None) dereference: a variable assigned None may still hold it when an attribute is accessed.")

	for _, bug := range report.Bugs {
		message := fmt.Sprintf(
			"Variable '%s' in function '%s' is assigned None on line %d and may still be None when dereferenced on line %d.",
			bug.Variable, bug.Function, bug.SourceLine, bug.SinkLine,
		)
		if bug.TriggerCondition != "" {
			message += fmt.Sprintf(" Trigger condition: %s.", bug.TriggerCondition)
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(bug.FilePath)).
				WithRegion(sarif.NewRegion().WithStartLine(bug.SinkLine)),
		)

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(toSARIFLevel(bug.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}

	log.AddRun(run)
	if err := log.PrettyWrite(r.writer); err != nil {
		return fmt.Errorf("failed to write SARIF report: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (r *SARIFReporter) Close() error {
	return r.writer.Close()
}

// toSARIFLevel maps finding severities onto the SARIF result levels.
func toSARIFLevel(severity findings.Severity) string {
	switch severity {
	case findings.SeverityCritical, findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	case findings.SeverityLow:
		return "note"
	default:
		return "note"
	}
}
