// Package launcher spawns a detached background instance of the watchdog.
// The relationship ends when the spawn returns: no ownership, no pipe, no
// supervision of the child.
package launcher

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/camwatch/camwatch/internal/lockfile"
)

// executable is swapped out in tests to avoid re-running the test binary.
var executable = os.Executable

// LaunchBackground starts a new watchdog instance with the given arguments
// unless the lock file says one is already running. The child gets its own
// process group and discarded standard streams, so it survives the
// launcher's terminal going away.
func LaunchBackground(lock *lockfile.Manager, logger *slog.Logger, args ...string) error {
	if lock.IsAlreadyRunning() {
		logger.Info("camera service is already running")
		return nil
	}

	exe, err := executable()
	if err != nil {
		return fmt.Errorf("resolving own executable: %w", err)
	}

	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	logger.Info("launching background process", "exe", exe, "args", args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting background process: %w", err)
	}
	logger.Info("background process started", "pid", cmd.Process.Pid)

	// Drop the handle; the child is on its own from here.
	return cmd.Process.Release()
}
