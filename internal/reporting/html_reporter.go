// internal/reporting/html_reporter.go
package reporting

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// HTMLReporter renders the report as a standalone human-readable HTML page.
type HTMLReporter struct {
	writer io.WriteCloser
	tmpl   *template.Template
}

// NewHTMLReporter creates a reporter that takes ownership of the writer.
func NewHTMLReporter(writer io.WriteCloser) *HTMLReporter {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"lower": strings.ToLower,
	}).Parse(htmlReportTemplate))
	return &HTMLReporter{writer: writer, tmpl: tmpl}
}

// Write renders the report through the page template.
func (r *HTMLReporter) Write(report *Report) error {
	if err := r.tmpl.Execute(r.writer, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (r *HTMLReporter) Close() error {
	return r.writer.Close()
}

const htmlReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>NPD Scan Report - {{.Tool}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            padding: 20px;
            line-height: 1.6;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        .header {
            background: white; padding: 40px; border-radius: 15px;
            margin-bottom: 30px; box-shadow: 0 10px 40px rgba(0,0,0,0.1);
            text-align: center;
        }
        .header h1 { color: #2d3748; font-size: 36px; margin-bottom: 10px; }
        .header .subtitle { color: #718096; font-size: 16px; }
        .summary { display: flex; gap: 20px; margin-bottom: 30px; flex-wrap: wrap; }
        .stat {
            background: white; flex: 1; min-width: 160px; padding: 25px;
            border-radius: 12px; text-align: center;
            box-shadow: 0 6px 20px rgba(0,0,0,0.08);
        }
        .stat .value { font-size: 32px; font-weight: 700; color: #2d3748; }
        .stat .label { color: #718096; font-size: 14px; text-transform: uppercase; }
        .bug {
            background: white; padding: 25px; border-radius: 12px;
            margin-bottom: 20px; box-shadow: 0 6px 20px rgba(0,0,0,0.08);
            border-left: 6px solid #a0aec0;
        }
        .bug.severity-critical { border-left-color: #e53e3e; }
        .bug.severity-high { border-left-color: #dd6b20; }
        .bug.severity-medium { border-left-color: #d69e2e; }
        .bug.severity-low { border-left-color: #38a169; }
        .bug h3 { color: #2d3748; margin-bottom: 8px; }
        .badge {
            display: inline-block; padding: 3px 12px; border-radius: 999px;
            font-size: 12px; font-weight: 700; color: white; background: #a0aec0;
        }
        .badge.severity-critical { background: #e53e3e; }
        .badge.severity-high { background: #dd6b20; }
        .badge.severity-medium { background: #d69e2e; }
        .badge.severity-low { background: #38a169; }
        .meta { color: #4a5568; font-size: 14px; margin: 10px 0; }
        .meta strong { color: #2d3748; }
        pre {
            background: #1a202c; color: #e2e8f0; padding: 16px;
            border-radius: 8px; overflow-x: auto; font-size: 13px;
            margin-top: 12px;
        }
        .empty {
            background: white; padding: 60px; border-radius: 15px;
            text-align: center; color: #38a169; font-size: 20px;
        }
        .skipped { color: #718096; font-size: 13px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Null Dereference Scan Report</h1>
            <div class="subtitle">{{.Tool}} {{.Version}} &mdash; {{.Description}}</div>
            <div class="subtitle">Scanned at {{.ScanTime.Format "2006-01-02 15:04:05 MST"}}</div>
        </div>

        <div class="summary">
            <div class="stat">
                <div class="value">{{.TotalBugs}}</div>
                <div class="label">Total Findings</div>
            </div>
            <div class="stat">
                <div class="value">{{.Summary.FilesScanned}}</div>
                <div class="label">Files With Findings</div>
            </div>
            {{range $severity, $count := .Summary.BySeverity}}
            <div class="stat">
                <div class="value">{{$count}}</div>
                <div class="label">{{$severity}}</div>
            </div>
            {{end}}
        </div>

        {{if .Bugs}}
        {{range $i, $bug := .Bugs}}
        <div class="bug severity-{{lower (printf "%s" $bug.Severity)}}">
            <h3>#{{$i}} {{$bug.Function}} &mdash; variable <code>{{$bug.Variable}}</code>
                <span class="badge severity-{{lower (printf "%s" $bug.Severity)}}">{{$bug.Severity}}</span>
            </h3>
            <div class="meta"><strong>File:</strong> {{$bug.FilePath}}</div>
            <div class="meta"><strong>Flow:</strong> None assigned on line {{$bug.SourceLine}}, dereferenced on line {{$bug.SinkLine}}</div>
            {{if $bug.TriggerCondition}}<div class="meta"><strong>Trigger condition:</strong> {{$bug.TriggerCondition}}</div>{{end}}
            {{if $bug.PathDescription}}<div class="meta"><strong>Path:</strong> {{$bug.PathDescription}}</div>{{end}}
            {{if $bug.Rationale}}<div class="meta"><strong>Rationale:</strong> {{$bug.Rationale}}</div>{{end}}
            {{if $bug.Snippet}}<pre>{{$bug.Snippet}}</pre>{{end}}
        </div>
        {{end}}
        {{else}}
        <div class="empty">No null dereference bugs were found.</div>
        {{end}}

        {{if .Skipped}}
        <div class="skipped">
            Skipped files:
            {{range .Skipped}}<div>{{.Path}} &mdash; {{.Reason}}</div>{{end}}
        </div>
        {{end}}
    </div>
</body>
</html>
`
