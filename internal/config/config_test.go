package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// testOptions mirrors the option structs the commands use.
type testOptions struct {
	Config string

	TargetProcess string `toml:"watchdog.target_process" env:"TARGET_PROCESS"`
	CheckInterval int    `toml:"watchdog.check_interval" env:"CHECK_INTERVAL"`
	Verbose       bool   `toml:"watchdog.verbose" env:"VERBOSE"`
	Cameras       []int  `toml:"frames.cameras" env:"CAMERAS"`
	Tags          []string
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeConfigFile(t, `
[watchdog]
target_process = "redis-server"
check_interval = 5
verbose = true

[frames]
cameras = [0, 2, 3]
`)

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.TargetProcess != "redis-server" {
		t.Errorf("TargetProcess = %q, want redis-server", opts.TargetProcess)
	}
	if opts.CheckInterval != 5 {
		t.Errorf("CheckInterval = %d, want 5", opts.CheckInterval)
	}
	if !opts.Verbose {
		t.Error("Verbose = false, want true")
	}
	if want := []int{0, 2, 3}; !reflect.DeepEqual(opts.Cameras, want) {
		t.Errorf("Cameras = %v, want %v", opts.Cameras, want)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CAMWATCH_TARGET_PROCESS", "postgres")
	t.Setenv("CAMWATCH_CHECK_INTERVAL", "7")
	t.Setenv("CAMWATCH_CAMERAS", "1, 4")

	opts := &testOptions{}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.TargetProcess != "postgres" {
		t.Errorf("TargetProcess = %q, want postgres", opts.TargetProcess)
	}
	if opts.CheckInterval != 7 {
		t.Errorf("CheckInterval = %d, want 7", opts.CheckInterval)
	}
	if want := []int{1, 4}; !reflect.DeepEqual(opts.Cameras, want) {
		t.Errorf("Cameras = %v, want %v", opts.Cameras, want)
	}
}

func TestEnvOverridesTOML(t *testing.T) {
	path := writeConfigFile(t, `
[watchdog]
target_process = "from-file"
`)
	t.Setenv("CAMWATCH_TARGET_PROCESS", "from-env")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.TargetProcess != "from-env" {
		t.Errorf("TargetProcess = %q, want from-env", opts.TargetProcess)
	}
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	opts := &testOptions{Config: "/nonexistent/config.toml", CheckInterval: 2}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if opts.CheckInterval != 2 {
		t.Errorf("CheckInterval = %d, want untouched default 2", opts.CheckInterval)
	}
}

func TestMalformedTOMLReturnsError(t *testing.T) {
	path := writeConfigFile(t, `[watchdog`)

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err == nil {
		t.Error("expected error for malformed TOML, got nil")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	cases := map[string]string{
		"Port":          "port",
		"CheckInterval": "check-interval",
		"TargetProcess": "target-process",
	}
	for in, want := range cases {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}
