// File: internal/scanner/scanner.go
// Per-file analysis pipeline: parse, enumerate functions, extract source and
// sink events, match candidates, verify each against the oracle, aggregate
// confirmed findings. Parse failures are isolated to their file; only
// configuration problems and cancellation abort a run.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/nullpath-cli/internal/analysis/npd"
	"github.com/xkilldash9x/nullpath-cli/internal/analysis/pytree"
	"github.com/xkilldash9x/nullpath-cli/internal/findings"
	"github.com/xkilldash9x/nullpath-cli/internal/oracle"
)

// pythonExt is the extension directory scans look for.
const pythonExt = ".py"

// SkippedFile records a file the run could not analyze and why, so the final
// summary never silently omits one.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Run holds everything one scan produced.
type Run struct {
	Findings     *findings.Aggregator
	Skipped      []SkippedFile
	FilesScanned int
	Candidates   int
}

// Scanner wires the analysis pipeline together. The oracle is injected as a
// capability so tests can substitute a deterministic stub.
type Scanner struct {
	oracle  oracle.Client
	workers int
	logger  *zap.Logger
}

// New constructs a Scanner. workers bounds concurrent oracle verifications.
func New(client oracle.Client, workers int, logger *zap.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		oracle:  client,
		workers: workers,
		logger:  logger.Named("scanner"),
	}
}

// Run scans each target, a file or a directory walked recursively for .py
// files. A missing target fails the whole run; per-file parse failures are
// recorded as skipped and the run continues. On cancellation the current
// file is finished, the remaining queue is discarded and ctx.Err is
// returned alongside the partial results.
func (s *Scanner) Run(ctx context.Context, targets []string) (*Run, error) {
	run := &Run{Findings: findings.NewAggregator()}

	var files []string
	for _, target := range targets {
		expanded, err := collectFiles(target)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}

	s.logger.Info("Scan queue assembled", zap.Int("files", len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Scan cancelled; discarding remaining queue",
				zap.Int("remaining", len(files)-run.FilesScanned-len(run.Skipped)))
			return run, err
		}
		s.scanFile(ctx, path, run)
	}

	return run, nil
}

// collectFiles expands a target into the list of files to analyze.
func collectFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("target does not exist: %s: %w", target, err)
	}

	if !info.IsDir() {
		return []string{target}, nil
	}

	var files []string
	walkErr := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), pythonExt) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", target, walkErr)
	}
	return files, nil
}

// scanFile runs the full pipeline over one file, appending its confirmed
// findings to the run. Unreadable or unparseable files are recorded as
// skipped; they never escalate to a run failure.
func (s *Scanner) scanFile(ctx context.Context, path string, run *Run) {
	logger := s.logger.With(zap.String("file", path))

	source, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping unreadable file", zap.Error(err))
		run.Skipped = append(run.Skipped, SkippedFile{Path: path, Reason: err.Error()})
		return
	}

	tree, err := pytree.Parse(source)
	if err != nil {
		if errors.Is(err, pytree.ErrParse) {
			logger.Warn("Skipping unparseable file", zap.Error(err))
			run.Skipped = append(run.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			return
		}
		logger.Warn("Skipping file after unexpected parser failure", zap.Error(err))
		run.Skipped = append(run.Skipped, SkippedFile{Path: path, Reason: err.Error()})
		return
	}
	defer tree.Close()

	if tree.HasSyntaxErrors() {
		logger.Warn("Source has syntax errors; analysis may be incomplete")
	}

	functions := tree.Functions()
	logger.Debug("Enumerated functions", zap.Int("count", len(functions)))

	for _, fn := range functions {
		s.analyzeFunction(ctx, path, fn, run)
	}
	run.FilesScanned++
}

// analyzeFunction extracts events, matches candidates and verifies them.
// Verification is fanned out over a bounded worker pool; verdicts land in a
// slice indexed by candidate so concurrency never changes output order.
func (s *Scanner) analyzeFunction(ctx context.Context, path string, fn pytree.FunctionUnit, run *Run) {
	logger := s.logger.With(zap.String("file", path), zap.String("function", fn.Name))

	sources := npd.SentinelAssignments(fn)
	if len(sources) == 0 {
		return
	}

	sinks := npd.HazardousAccesses(fn)
	candidates := npd.Match(sources, sinks, fn)
	if len(candidates) == 0 {
		return
	}

	logger.Info("Verifying candidate flows",
		zap.Int("sources", len(sources)),
		zap.Int("sinks", len(sinks)),
		zap.Int("candidates", len(candidates)),
	)
	run.Candidates += len(candidates)

	verdicts := make([]oracle.Verdict, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			verdicts[i] = s.oracle.Verify(gctx, cand)
			return nil
		})
	}
	// Verify never returns an error; Wait only observes context cancellation.
	_ = g.Wait()

	for i, verdict := range verdicts {
		cand := candidates[i]
		if !verdict.IsConfirmedBug {
			if verdict.Err != "" {
				logger.Warn("Candidate dropped after oracle failure",
					zap.String("variable", cand.Variable),
					zap.String("detail", verdict.Err),
				)
			}
			continue
		}

		run.Findings.Add(findings.Finding{
			FilePath:         path,
			Function:         fn.Name,
			Variable:         cand.Variable,
			SourceLine:       cand.SourceLine,
			SinkLine:         cand.SinkLine,
			Severity:         verdict.Severity,
			TriggerCondition: verdict.TriggerCondition,
			PathDescription:  verdict.PathDescription,
			Rationale:        verdict.Rationale,
			Snippet:          fn.Body,
		})
		logger.Info("Confirmed null-dereference finding",
			zap.String("variable", cand.Variable),
			zap.Int("null_line", cand.SourceLine),
			zap.Int("use_line", cand.SinkLine),
			zap.String("severity", string(verdict.Severity)),
		)
	}
}
