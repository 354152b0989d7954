package cmd

import (
	"fmt"
	"os"

	"threadwatch/core/config"
	"threadwatch/core/logger"
	"threadwatch/feature/thread/state"

	"github.com/spf13/cobra"
)

// stateCmd inspects the state file and its backups.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the state file and its backups",
	Long: `Print a summary of the persisted state: where it loaded from, how many
records it holds, whether recovery from a backup was needed, and the backup
slot inventory.`,
	RunE: runState,
}

func init() {
	RootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	store := state.NewStore(cfg.State, l)
	st, report, err := store.Load()
	if err != nil {
		return err
	}

	type backupInfo struct {
		Slot   int    `json:"slot"`
		Path   string `json:"path"`
		Exists bool   `json:"exists"`
		Bytes  int64  `json:"bytes,omitempty"`
	}
	backups := make([]backupInfo, 0, cfg.State.Backups)
	for i := 1; i <= cfg.State.Backups; i++ {
		info := backupInfo{Slot: i, Path: store.BackupPath(i)}
		if fi, err := os.Stat(info.Path); err == nil {
			info.Exists = true
			info.Bytes = fi.Size()
		}
		backups = append(backups, info)
	}

	data, err := marshalResult(map[string]any{
		"path":      store.Path(),
		"records":   len(st),
		"source":    report.Source,
		"first_run": report.FirstRun,
		"degraded":  report.Degraded,
		"backups":   backups,
	})
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
