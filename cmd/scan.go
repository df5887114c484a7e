// File: cmd/scan.go
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/nullpath-cli/internal/config"
	"github.com/xkilldash9x/nullpath-cli/internal/observability"
	"github.com/xkilldash9x/nullpath-cli/internal/oracle"
	"github.com/xkilldash9x/nullpath-cli/internal/reporting"
	"github.com/xkilldash9x/nullpath-cli/internal/scanner"
)

// newScanCmd creates and configures the `scan` command.
func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [targets...]",
		Short: "Scans Python files or directories for potential null dereference bugs",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their corresponding Viper keys so command-line
			// flags correctly override config file and environment values.
			if err := viper.BindPFlag("engine.worker_concurrency", cmd.Flags().Lookup("concurrency")); err != nil {
				return err
			}
			if err := viper.BindPFlag("oracle.model", cmd.Flags().Lookup("oracle-model")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// 1. Configuration finalization. Flag overrides are already
			// bound, so this resolves the final precedence order.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			cfg.Scan = config.ScanConfig{
				Targets: args,
				Output:  viper.GetString("output"),
				Format:  viper.GetString("format"),
			}

			runID := uuid.New().String()
			logger.Info("Starting new scan",
				zap.String("runID", runID),
				zap.Strings("targets", cfg.Scan.Targets),
				zap.Int("concurrency", cfg.Engine.WorkerConcurrency),
				zap.String("oracle_model", cfg.Oracle.Model),
			)

			// 2. Oracle gateway construction. A missing credential is a
			// configuration error and aborts before any file is touched.
			gateway, err := oracle.NewGateway(cfg.Oracle, logger)
			if err != nil {
				return fmt.Errorf("oracle configuration invalid: %w", err)
			}

			// 3. Execute the scan.
			s := scanner.New(gateway, cfg.Engine.WorkerConcurrency, logger)
			run, err := s.Run(ctx, cfg.Scan.Targets)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Warn("Scan aborted by user signal", zap.String("runID", runID))
					return fmt.Errorf("scan aborted by user signal: %w", err)
				}
				logger.Error("Scan failed", zap.Error(err), zap.String("runID", runID))
				return err
			}

			logger.Info("Scan execution completed",
				zap.String("runID", runID),
				zap.Int("files_scanned", run.FilesScanned),
				zap.Int("candidates", run.Candidates),
				zap.Int("findings", run.Findings.Len()),
			)

			// 4. Reporting.
			report := reporting.NewReport(run, Version)
			if cfg.Scan.Output != "" {
				reporter, err := reporting.New(cfg.Scan.Format, cfg.Scan.Output)
				if err != nil {
					return err
				}
				if err := reporter.Write(report); err != nil {
					reporter.Close()
					return fmt.Errorf("failed to write report: %w", err)
				}
				if err := reporter.Close(); err != nil {
					return fmt.Errorf("failed to finalize report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%s)\n", cfg.Scan.Output, cfg.Scan.Format)
			}

			// 5. Final console summary.
			printSummary(cmd, report)
			return nil
		},
	}

	// Reporting flags.
	scanCmd.Flags().StringP("output", "o", "", "Output file path for the report. If unset, no report file is generated.")
	scanCmd.Flags().StringP("format", "f", "json", "Format for the output report ('json', 'html' or 'sarif').")

	// Scan configuration override flags.
	scanCmd.Flags().Int("concurrency", 0, "Maximum concurrent oracle verifications. (Overrides config/env)")
	scanCmd.Flags().String("oracle-model", "", "Oracle model identifier. (Overrides config/env)")

	return scanCmd
}

// printSummary renders the severity-ordered run summary to the terminal.
func printSummary(cmd *cobra.Command, report *reporting.Report) {
	out := cmd.OutOrStdout()

	if report.TotalBugs == 0 {
		fmt.Fprintln(out, "\nScan complete. No null dereference bugs were found.")
	} else {
		fmt.Fprintf(out, "\nScan complete. %d potential null dereference bug(s) found:\n\n", report.TotalBugs)
		for i, bug := range report.Bugs {
			fmt.Fprintf(out, "  #%d [%-8s] %s: %s | variable %-12s | line %d -> line %d\n",
				i+1, bug.Severity, bug.FilePath, bug.Function, bug.Variable, bug.SourceLine, bug.SinkLine)
		}
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "\n%d file(s) could not be analyzed:\n", len(report.Skipped))
		for _, skipped := range report.Skipped {
			fmt.Fprintf(out, "  %s: %s\n", skipped.Path, skipped.Reason)
		}
	}
}
