// Package procmon answers one question: is a process with a given name
// currently running?
package procmon

import (
	"log/slog"

	"github.com/shirou/gopsutil/v4/process"
)

// Monitor reports whether a named process is currently running.
type Monitor interface {
	IsRunning(name string) bool
}

// SystemMonitor enumerates live processes through gopsutil.
type SystemMonitor struct {
	logger *slog.Logger

	// listProcesses is swapped out in tests.
	listProcesses func() ([]*process.Process, error)
}

// NewSystem creates a monitor backed by the OS process table.
func NewSystem(logger *slog.Logger) *SystemMonitor {
	return &SystemMonitor{
		logger:        logger,
		listProcesses: process.Processes,
	}
}

// IsRunning returns true on the first exact name match. Enumeration failure
// is logged and treated as "not found" — a transient failure counts as one
// more missing tick, it never takes the watchdog down.
func (m *SystemMonitor) IsRunning(name string) bool {
	procs, err := m.listProcesses()
	if err != nil {
		m.logger.Warn("process enumeration failed", "error", err)
		return false
	}

	for _, p := range procs {
		// Individual entries can vanish between the listing and the
		// name lookup; skip those.
		procName, err := p.Name()
		if err != nil {
			continue
		}
		if procName == name {
			return true
		}
	}
	return false
}
