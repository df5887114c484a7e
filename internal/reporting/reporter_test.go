// internal/reporting/reporter_test.go
package reporting_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/nullpath-cli/internal/findings"
	"github.com/xkilldash9x/nullpath-cli/internal/reporting"
	"github.com/xkilldash9x/nullpath-cli/internal/scanner"
)

func sampleRun() *scanner.Run {
	run := &scanner.Run{Findings: findings.NewAggregator()}
	run.Findings.Add(
		findings.Finding{
			FilePath:         "app/service.py",
			Function:         "load_user",
			Variable:         "user",
			SourceLine:       10,
			SinkLine:         14,
			Severity:         findings.SeverityLow,
			TriggerCondition: "cache miss",
		},
		findings.Finding{
			FilePath:   "app/auth.py",
			Function:   "authenticate",
			Variable:   "session",
			SourceLine: 3,
			SinkLine:   9,
			Severity:   findings.SeverityCritical,
			Rationale:  "no guard between assignment and access",
		},
	)
	run.FilesScanned = 2
	run.Skipped = []scanner.SkippedFile{{Path: "app/vendor.py", Reason: "failed to parse python source"}}
	return run
}

func TestNewReport_RanksAndSummarizes(t *testing.T) {
	report := reporting.NewReport(sampleRun(), "0.1.0")

	assert.Equal(t, reporting.ToolName, report.Tool)
	assert.Equal(t, "0.1.0", report.Version)
	assert.Equal(t, 2, report.TotalBugs)
	assert.False(t, report.ScanTime.IsZero())

	// Most severe first.
	require.Len(t, report.Bugs, 2)
	assert.Equal(t, findings.SeverityCritical, report.Bugs[0].Severity)
	assert.Equal(t, findings.SeverityLow, report.Bugs[1].Severity)

	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.BySeverity[findings.SeverityCritical])
	require.Len(t, report.Skipped, 1)
}

func TestNew_UnsupportedFormat(t *testing.T) {
	r, err := reporting.New("yaml", "stdout")
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "unsupported output format: yaml")
}

func TestNew_WritesToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.json")

	r, err := reporting.New("json", outPath)
	require.NoError(t, err)

	report := reporting.NewReport(sampleRun(), "0.1.0")
	require.NoError(t, r.Write(report))
	require.NoError(t, r.Close())

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "authenticate")
}

type bufCloser struct {
	bytes.Buffer
}

func (b *bufCloser) Close() error { return nil }

func TestJSONReporter_RoundTrip(t *testing.T) {
	var buf bufCloser
	r := reporting.NewJSONReporter(&buf)

	require.NoError(t, r.Write(reporting.NewReport(sampleRun(), "0.1.0")))
	require.NoError(t, r.Close())

	var decoded reporting.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, reporting.ToolName, decoded.Tool)
	assert.Equal(t, 2, decoded.TotalBugs)
	require.Len(t, decoded.Bugs, 2)
	assert.Equal(t, "session", decoded.Bugs[0].Variable)
	assert.Equal(t, 3, decoded.Bugs[0].SourceLine)
	require.Len(t, decoded.Skipped, 1)
	assert.Equal(t, "app/vendor.py", decoded.Skipped[0].Path)
}

func TestHTMLReporter_RendersFindings(t *testing.T) {
	var buf bufCloser
	r := reporting.NewHTMLReporter(&buf)

	require.NoError(t, r.Write(reporting.NewReport(sampleRun(), "0.1.0")))
	require.NoError(t, r.Close())

	html := buf.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "authenticate")
	assert.Contains(t, html, "severity-critical")
	assert.Contains(t, html, "app/vendor.py")
}

func TestHTMLReporter_EmptyRun(t *testing.T) {
	var buf bufCloser
	r := reporting.NewHTMLReporter(&buf)

	run := &scanner.Run{Findings: findings.NewAggregator()}
	require.NoError(t, r.Write(reporting.NewReport(run, "0.1.0")))

	assert.Contains(t, buf.String(), "No null dereference bugs were found")
}

func TestSARIFReporter_ProducesValidLog(t *testing.T) {
	var buf bufCloser
	r := reporting.NewSARIFReporter(&buf)

	require.NoError(t, r.Write(reporting.NewReport(sampleRun(), "0.1.0")))
	require.NoError(t, r.Close())

	var log map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log["version"])

	raw := buf.String()
	assert.Contains(t, raw, "NPD001")
	assert.Contains(t, raw, "app/auth.py")
	// Critical findings map to SARIF "error" level.
	assert.Contains(t, raw, `"error"`)
}
