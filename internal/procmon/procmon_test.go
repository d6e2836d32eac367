package procmon

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/shirou/gopsutil/v4/process"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsRunningFindsOwnProcess(t *testing.T) {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		t.Fatalf("looking up own process: %v", err)
	}
	name, err := self.Name()
	if err != nil {
		t.Fatalf("reading own process name: %v", err)
	}

	m := NewSystem(testLogger())
	if !m.IsRunning(name) {
		t.Errorf("expected IsRunning(%q) to find the test process itself", name)
	}
}

func TestIsRunningNoMatch(t *testing.T) {
	m := NewSystem(testLogger())
	if m.IsRunning("camwatch-no-such-process-3f1a") {
		t.Error("expected false for a name that matches nothing")
	}
}

func TestIsRunningEnumerationFailure(t *testing.T) {
	m := NewSystem(testLogger())
	m.listProcesses = func() ([]*process.Process, error) {
		return nil, errors.New("proc table unavailable")
	}
	if m.IsRunning("anything") {
		t.Error("expected false when enumeration fails")
	}
}
