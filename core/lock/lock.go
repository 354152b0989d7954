package lock

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// ErrAlreadyRunning means another process holds the run lock. Concurrent
// runs against the same state are rejected, never queued.
var ErrAlreadyRunning = errors.New("another run is already in progress")

// Guard holds an acquired run lock until released.
type Guard struct {
	path   string
	file   *os.File
	logger *zap.Logger
}

// Acquire takes a non-blocking exclusive flock on the lock file and writes
// the owning PID into it for diagnosability. If the lock is held elsewhere
// it fails immediately with ErrAlreadyRunning.
//
// flock locks are released by the kernel when the owning process dies, so a
// crashed run never wedges subsequent ones.
func Acquire(path string, l *zap.Logger) (*Guard, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w (lock file: %s)", ErrAlreadyRunning, path)
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
		_ = f.Sync()
	}

	return &Guard{path: path, file: f, logger: l}, nil
}

// Release unlocks and removes the lock file. It runs on every exit path;
// failures are logged but never escalated so they cannot mask the run's
// actual outcome.
func (g *Guard) Release() {
	if g == nil || g.file == nil {
		return
	}
	if err := unix.Flock(int(g.file.Fd()), unix.LOCK_UN); err != nil {
		g.logger.Warn("failed to unlock run lock", zap.String("path", g.path), zap.Error(err))
	}
	if err := g.file.Close(); err != nil {
		g.logger.Warn("failed to close run lock", zap.String("path", g.path), zap.Error(err))
	}
	g.file = nil
	if err := os.Remove(g.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		g.logger.Warn("failed to remove run lock file", zap.String("path", g.path), zap.Error(err))
	}
}
