package cmd

import (
	"github.com/spf13/cobra"

	"github.com/camwatch/camwatch/internal/camera"
	"github.com/camwatch/camwatch/internal/logging"
	"github.com/camwatch/camwatch/internal/shmem"
)

// Options holds every knob shared by the three verbs. Field names map to
// flag names (CheckInterval -> --check-interval); toml and env tags feed
// config.LoadConfig.
type Options struct {
	Config string

	TargetProcess string `toml:"watchdog.target_process" env:"TARGET_PROCESS"`
	CheckInterval int    `toml:"watchdog.check_interval" env:"CHECK_INTERVAL"`
	GracePeriod   int    `toml:"watchdog.grace_period" env:"GRACE_PERIOD"`
	LockFile      string `toml:"watchdog.lock_file" env:"LOCK_FILE"`

	ShmDir        string `toml:"frames.dir" env:"SHM_DIR"`
	Cameras       []int  `toml:"frames.cameras" env:"CAMERAS"`
	FrameHeight   int    `toml:"frames.height" env:"FRAME_HEIGHT"`
	FrameWidth    int    `toml:"frames.width" env:"FRAME_WIDTH"`
	FrameChannels int    `toml:"frames.channels" env:"FRAME_CHANNELS"`

	Port string `toml:"server.port" env:"SERVER_PORT"`

	LoggingLevel  string `toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingFile   string `toml:"logging.file" env:"LOGGING_FILE"`
}

func defaultOptions() *Options {
	return &Options{
		Config:        "config.toml",
		TargetProcess: "redis-server.exe",
		CheckInterval: 2,
		GracePeriod:   10,
		LockFile:      "camera_service.lock",
		ShmDir:        shmem.DefaultDir,
		Cameras:       []int{0, 1},
		FrameHeight:   480,
		FrameWidth:    640,
		FrameChannels: 3,
		Port:          ":5566",
		LoggingLevel:  "info",
		LoggingFormat: "text",
		LoggingFile:   "camera_service.log",
	}
}

// registerFlags binds the shared flags onto a verb.
func registerFlags(cmd *cobra.Command, opts *Options) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.Config, "config", "c", opts.Config, "Path to configuration file")
	flags.StringVar(&opts.TargetProcess, "target-process", opts.TargetProcess, "Process name whose liveness is watched")
	flags.IntVar(&opts.CheckInterval, "check-interval", opts.CheckInterval, "Poll period in seconds")
	flags.IntVar(&opts.GracePeriod, "grace-period", opts.GracePeriod, "Maximum tolerated continuous absence in seconds")
	flags.StringVar(&opts.LockFile, "lock-file", opts.LockFile, "Path of the single-instance lock file")
	flags.StringVar(&opts.ShmDir, "shm-dir", opts.ShmDir, "Directory for shared frame regions")
	flags.IntSliceVar(&opts.Cameras, "cameras", opts.Cameras, "Camera device ids to capture from")
	flags.IntVar(&opts.FrameHeight, "frame-height", opts.FrameHeight, "Expected frame height in pixels")
	flags.IntVar(&opts.FrameWidth, "frame-width", opts.FrameWidth, "Expected frame width in pixels")
	flags.IntVar(&opts.FrameChannels, "frame-channels", opts.FrameChannels, "Expected channels per pixel")
	flags.StringVarP(&opts.Port, "port", "p", opts.Port, "Status API listen address")
	flags.StringVar(&opts.LoggingLevel, "logging-level", opts.LoggingLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.LoggingFormat, "logging-format", opts.LoggingFormat, "Log format (text, json)")
	flags.StringVar(&opts.LoggingFile, "logging-file", opts.LoggingFile, "Log file path, empty to disable")
}

// initLogging configures the process-wide logging system from the options.
func (o *Options) initLogging() {
	logging.Initialize(logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		File:   o.LoggingFile,
	})
}

// shape returns the configured frame layout.
func (o *Options) shape() camera.Shape {
	return camera.Shape{
		Height:   o.FrameHeight,
		Width:    o.FrameWidth,
		Channels: o.FrameChannels,
	}
}
