package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/camwatch/camwatch/internal/camera"
	"github.com/camwatch/camwatch/internal/config"
	"github.com/camwatch/camwatch/internal/lockfile"
	"github.com/camwatch/camwatch/internal/logging"
	"github.com/camwatch/camwatch/internal/procmon"
	"github.com/camwatch/camwatch/internal/shmem"
	"github.com/camwatch/camwatch/internal/watchdog"
)

// CreateRunCmd creates the run command: the foreground watchdog loop.
func CreateRunCmd() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the watchdog loop in the foreground",
		Long: `Acquires the single-instance lock, then polls the target process and
copies one frame per configured camera into its shared memory region on
every tick. Exits when the process stays absent past the grace period.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := config.LoadConfig(opts, cmd); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
				os.Exit(1)
			}
			opts.initLogging()
			defer logging.Close()
			logger := logging.GetLogger("watchdog")

			lock := lockfile.New(opts.LockFile, logging.GetLogger("lockfile"))
			if lock.IsAlreadyRunning() {
				logger.Info("camera service is already running", "lock", opts.LockFile)
				return
			}

			w := watchdog.New(watchdog.Config{
				TargetProcess: opts.TargetProcess,
				CheckInterval: time.Duration(opts.CheckInterval) * time.Second,
				GracePeriod:   time.Duration(opts.GracePeriod) * time.Second,
				Shape:         opts.shape(),
			},
				procmon.NewSystem(logging.GetLogger("procmon")),
				lock,
				logger,
			)

			attachCameras(w, opts)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Run(ctx); err != nil {
				os.Exit(1)
			}
		},
	}

	registerFlags(cmd, opts)
	return cmd
}

// attachCameras opens every configured device and allocates its frame
// region. A camera whose device or region setup fails is still attached so
// the slot count matches the configuration; it just never produces writes.
func attachCameras(w *watchdog.Watchdog, opts *Options) {
	logger := logging.GetLogger("camera")
	shape := opts.shape()

	for _, id := range opts.Cameras {
		var source camera.Source
		if s, err := camera.OpenDevice(id, logger); err != nil {
			logger.Warn("camera could not be opened", "camera", id, "error", err)
		} else {
			source = s
		}

		region, err := shmem.Create(opts.ShmDir, regionName(id), shape.Size())
		if err != nil {
			logger.Warn("could not allocate frame region", "camera", id, "error", err)
			region = nil
		}

		w.AttachCamera(id, source, region)
	}
}

// regionName derives the shared region name from the camera index.
func regionName(id int) string {
	return fmt.Sprintf("camera_frame_%d", id)
}
