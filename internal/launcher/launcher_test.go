package launcher

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/camwatch/camwatch/internal/lockfile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLaunchSkippedWhenAlreadyRunning(t *testing.T) {
	lock := lockfile.New(filepath.Join(t.TempDir(), "camwatch.lock"), testLogger())
	if err := os.WriteFile(lock.Path(), []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		t.Fatalf("seeding lock file: %v", err)
	}

	old := executable
	executable = func() (string, error) {
		t.Error("executable should not be resolved when an instance is already running")
		return "", nil
	}
	defer func() { executable = old }()

	if err := LaunchBackground(lock, testLogger(), "run"); err != nil {
		t.Errorf("expected silent no-op, got error: %v", err)
	}
}

func TestLaunchSpawnsDetachedProcess(t *testing.T) {
	lock := lockfile.New(filepath.Join(t.TempDir(), "camwatch.lock"), testLogger())

	old := executable
	executable = func() (string, error) { return "/bin/true", nil }
	defer func() { executable = old }()

	if err := LaunchBackground(lock, testLogger()); err != nil {
		t.Errorf("LaunchBackground failed: %v", err)
	}
}

func TestLaunchExecutableResolutionFailure(t *testing.T) {
	lock := lockfile.New(filepath.Join(t.TempDir(), "camwatch.lock"), testLogger())

	old := executable
	executable = func() (string, error) { return "", errors.New("no exe") }
	defer func() { executable = old }()

	if err := LaunchBackground(lock, testLogger()); err == nil {
		t.Error("expected error when the executable cannot be resolved")
	}
}
