package cmd

import (
	"fmt"
	"os"

	"threadwatch/feature/thread/diff"
	"threadwatch/feature/thread/models"
	"threadwatch/feature/thread/state"

	"github.com/spf13/cobra"
)

var diffMode string

// diffCmd diffs two state files offline, without fetching anything.
var diffCmd = &cobra.Command{
	Use:   "diff <previous-state> <current-state>",
	Short: "Diff two state files offline",
	Long: `Compute the new/edited/deleted differences between two state files
without touching the network or the live state. Useful for inspecting what a
run changed after the fact, against a rotated backup for example.

Examples:
  threadwatch diff thread_state.jsonl.backup.1 thread_state.jsonl
  threadwatch diff old.jsonl new.jsonl --mode append`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffMode, "mode", string(diff.ModePlain), "Diff semantics: plain or append")

	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	mode := diff.Mode(diffMode)
	if !mode.Valid() {
		return fmt.Errorf("unknown diff mode %q (want plain or append)", diffMode)
	}

	previous, err := state.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read previous state: %w", err)
	}
	currentState, err := state.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read current state: %w", err)
	}

	current := make([]models.Record, 0, len(currentState))
	for _, rec := range currentState {
		current = append(current, rec)
	}

	var result *models.DiffResult
	if mode == diff.ModeAppend {
		result = diff.ComputeContentAware(current, previous)
	} else {
		result = diff.Compute(current, previous)
	}

	data, err := marshalResult(result)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
