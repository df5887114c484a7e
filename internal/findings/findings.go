// File: internal/findings/findings.go
package findings

import (
	"sort"
	"strings"
)

// Severity represents the severity level of a confirmed finding. The values
// are capitalized to match what the oracle emits.
type Severity string

// Standard severity levels, most severe first.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// severityRank orders severities for presentation. Anything unknown sorts
// after Low.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Rank returns the presentation rank of the severity; lower is more severe.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// ParseSeverity normalizes a severity string from an untrusted reply into a
// canonical value. Unrecognized strings pass through unchanged and rank as
// unknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	}
	return Severity(strings.TrimSpace(s))
}

// Finding is one oracle-confirmed null-dereference bug. Immutable once
// created; the list lives only for the duration of one run.
type Finding struct {
	FilePath         string   `json:"file"`
	Function         string   `json:"function"`
	Variable         string   `json:"variable"`
	SourceLine       int      `json:"null_line"`
	SinkLine         int      `json:"use_line"`
	Severity         Severity `json:"severity"`
	TriggerCondition string   `json:"trigger_condition"`
	PathDescription  string   `json:"path_description"`
	Rationale        string   `json:"rationale"`
	Snippet          string   `json:"code_snippet"`
}

// Summary is a derived, run-level view over the finding list.
type Summary struct {
	Total        int              `json:"total"`
	FilesScanned int              `json:"files_scanned"`
	BySeverity   map[Severity]int `json:"by_severity"`
}

// Aggregator accumulates findings in discovery order for one analysis run.
// Ranked and summary views are derived without mutating the list.
type Aggregator struct {
	findings []Finding
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends findings, preserving discovery order.
func (a *Aggregator) Add(fs ...Finding) {
	a.findings = append(a.findings, fs...)
}

// Findings returns the findings in discovery order. The returned slice is a
// copy; callers cannot disturb the aggregate.
func (a *Aggregator) Findings() []Finding {
	out := make([]Finding, len(a.findings))
	copy(out, a.findings)
	return out
}

// Len returns the number of findings collected so far.
func (a *Aggregator) Len() int {
	return len(a.findings)
}

// RankBySeverity returns the findings ordered most severe first. The sort is
// stable, so ties keep their discovery order.
func (a *Aggregator) RankBySeverity() []Finding {
	ranked := a.Findings()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Severity.Rank() < ranked[j].Severity.Rank()
	})
	return ranked
}

// Summary computes run-level counts as a pure derived view.
func (a *Aggregator) Summary() Summary {
	s := Summary{
		Total:      len(a.findings),
		BySeverity: make(map[Severity]int),
	}
	files := make(map[string]struct{})
	for _, f := range a.findings {
		s.BySeverity[f.Severity]++
		files[f.FilePath] = struct{}{}
	}
	s.FilesScanned = len(files)
	return s
}
