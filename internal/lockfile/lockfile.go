// Package lockfile implements the single-instance lock: a plain-text file
// holding the owning pid. Validity is derived from process liveness every
// time the file is read, never from exclusive-open semantics — the previous
// owner may have crashed without cleanup, leaving a stale file behind.
//
// IsAlreadyRunning followed by Acquire is not atomic against a concurrent
// racer running the same sequence. The lock is advisory; on a single
// operator machine the window is accepted.
package lockfile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Manager owns the lock file at a fixed path.
type Manager struct {
	path   string
	logger *slog.Logger

	// pidExists is swapped out in tests.
	pidExists func(int32) (bool, error)
}

// New creates a lock manager for the given path.
func New(path string, logger *slog.Logger) *Manager {
	return &Manager{
		path:      path,
		logger:    logger,
		pidExists: process.PidExists,
	}
}

// Path returns the lock file path.
func (m *Manager) Path() string {
	return m.path
}

// IsAlreadyRunning reports whether the lock file names a currently-live
// process. A missing file, unreadable file, malformed pid, or dead pid all
// count as "not running": the lock fails open toward allowing a new
// instance, and anything suspicious is logged at warning level.
func (m *Manager) IsAlreadyRunning() bool {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("could not read lock file", "path", m.path, "error", err)
		}
		return false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		m.logger.Warn("lock file holds no valid pid", "path", m.path, "error", err)
		return false
	}

	alive, err := m.pidExists(int32(pid))
	if err != nil {
		m.logger.Warn("could not verify lock owner liveness", "pid", pid, "error", err)
		return false
	}
	if !alive {
		m.logger.Warn("lock file is stale", "path", m.path, "pid", pid)
	}
	return alive
}

// Acquire writes the current process pid into the lock file, overwriting
// any prior content. Failure here is fatal to startup and is propagated.
func (m *Manager) Acquire() error {
	pid := os.Getpid()
	if err := os.WriteFile(m.path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing lock file %s: %w", m.path, err)
	}
	return nil
}

// Release removes the lock file. A missing file is not an error; Release is
// called on every shutdown path and must be idempotent.
func (m *Manager) Release() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file %s: %w", m.path, err)
	}
	return nil
}

// Inspect returns the raw lock file state without any liveness check:
// whether the file exists and its content verbatim. The /lock endpoint is
// deliberately a passthrough, distinct from IsAlreadyRunning.
func (m *Manager) Inspect() (exists bool, pid string) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return false, ""
	}
	return true, string(data)
}
