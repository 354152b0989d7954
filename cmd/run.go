package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"threadwatch/core/config"
	"threadwatch/core/logger"
	"threadwatch/feature/thread/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Process exit codes, stable for scripting retries and alerting.
const (
	ExitSuccess = 0
	ExitFailure = 1
	// ExitConflict means another run held the lock; nothing was touched.
	ExitConflict = 2
	// ExitPartial means state was persisted but some pages failed to fetch.
	ExitPartial = 3
)

var (
	// Flags for the run command
	runOutput   string
	runDiffOnly bool
)

// runCmd executes a single reconciliation run.
var runCmd = &cobra.Command{
	Use:   "run [url]",
	Short: "Execute one fetch-validate-diff-persist cycle",
	Long: `Run one reconciliation against the configured thread (or the URL given
as an argument), persist the updated state, and print the result as JSON.

Exit codes:
  0  full success
  1  hard failure (first page unreachable, nothing valid, persist failed)
  2  another run already holds the lock
  3  success with partial data (some pages failed to fetch)

Examples:
  # Run against the configured thread, result to stdout
  threadwatch run

  # Run against an explicit thread, diff only, into a file
  threadwatch run https://example.com/topic--123 --diff-only --output diff.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOnce,
}

func init() {
	runCmd.Flags().StringVar(&runOutput, "output", "", "Write the result JSON to a file (default: stdout)")
	runCmd.Flags().BoolVar(&runDiffOnly, "diff-only", false, "Output only the diff and run metadata")

	RootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) == 1 {
		cfg.Thread.BaseURL = args[0]
	}
	if cfg.Thread.BaseURL == "" {
		return fmt.Errorf("no thread URL: set THREAD_BASE_URL or pass one as an argument")
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	service := buildService(cfg, l)
	result, runErr := service.Run(context.Background())

	if err := writeResult(result); err != nil {
		l.Error("failed to write result", zap.Error(err))
		os.Exit(ExitFailure)
	}

	switch result.Outcome {
	case models.OutcomeSuccess:
		return nil
	case models.OutcomePartial:
		os.Exit(ExitPartial)
	case models.OutcomeConflict:
		l.Error("run rejected", zap.Error(runErr))
		os.Exit(ExitConflict)
	default:
		l.Error("run failed", zap.Error(runErr))
		os.Exit(ExitFailure)
	}
	return nil
}

// writeResult renders the run result and writes it to the requested output.
// File output is atomic (temp file + rename) so readers never see a torn
// result document.
func writeResult(result *models.RunResult) error {
	var payload any = result
	if runDiffOnly {
		payload = map[string]any{
			"outcome":  result.Outcome,
			"diff":     result.Diff,
			"metadata": result.Metadata,
		}
	}

	data, err := marshalResult(payload)
	if err != nil {
		return err
	}

	if runOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return writeFileAtomic(runOutput, data)
}

func marshalResult(payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
