// Package watchdog drives the poll-capture-sleep loop: it tracks how long
// the target process has been absent, copies camera frames into their
// shared regions, and tears everything down on every exit path.
package watchdog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/camwatch/camwatch/internal/camera"
	"github.com/camwatch/camwatch/internal/lockfile"
	"github.com/camwatch/camwatch/internal/procmon"
	"github.com/camwatch/camwatch/internal/shmem"
)

// Config carries the loop parameters.
type Config struct {
	// TargetProcess is the exact process name whose absence is tracked.
	TargetProcess string
	// CheckInterval is the tick period.
	CheckInterval time.Duration
	// GracePeriod is the maximum tolerated continuous absence before the
	// loop gives up.
	GracePeriod time.Duration
	// Shape is the fixed layout every frame slot is written with.
	Shape camera.Shape
}

// Resizer converts a frame to the wanted shape. Injectable so the loop can
// be tested without an OpenCV runtime.
type Resizer func(camera.Frame, camera.Shape) (camera.Frame, error)

// slot pairs one camera with its shared region. Either side may be nil
// when its setup failed at startup; the slot is then skipped every tick.
type slot struct {
	id     int
	source camera.Source
	region *shmem.Region
}

// Watchdog is the loop. One logical thread of control: ticks are strictly
// sequential and never overlap.
type Watchdog struct {
	cfg     Config
	monitor procmon.Monitor
	lock    *lockfile.Manager
	logger  *slog.Logger
	resize  Resizer
	slots   []slot

	// missing accumulates continuous target absence. Reset to zero on any
	// tick that observes the process; grows by CheckInterval otherwise.
	missing time.Duration
}

// Option configures a Watchdog.
type Option func(*Watchdog)

// WithResizer overrides the frame resize function.
func WithResizer(r Resizer) Option {
	return func(w *Watchdog) { w.resize = r }
}

// New creates a watchdog. The lock is not acquired until Run.
func New(cfg Config, monitor procmon.Monitor, lock *lockfile.Manager, logger *slog.Logger, opts ...Option) *Watchdog {
	w := &Watchdog{
		cfg:     cfg,
		monitor: monitor,
		lock:    lock,
		logger:  logger,
		resize:  camera.Resize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AttachCamera registers one camera slot. source may be nil when the device
// failed to open, and region may be nil when allocation failed; the slot is
// carried but never written.
func (w *Watchdog) AttachCamera(id int, source camera.Source, region *shmem.Region) {
	w.slots = append(w.slots, slot{id: id, source: source, region: region})
}

// Run acquires the instance lock and drives the loop until the grace period
// is exceeded, ctx is canceled, or a tick faults. All three paths run the
// same teardown: regions released, sources closed, lock removed. Only the
// fault path returns a non-nil error.
func (w *Watchdog) Run(ctx context.Context) error {
	if err := w.lock.Acquire(); err != nil {
		return fmt.Errorf("acquiring instance lock: %w", err)
	}
	defer w.teardown()

	w.logger.Info("service started",
		"target", w.cfg.TargetProcess,
		"interval", w.cfg.CheckInterval,
		"grace", w.cfg.GracePeriod,
		"cameras", len(w.slots))

	for {
		stop, err := w.tick()
		if err != nil {
			w.logger.Error("unexpected error during service loop", "error", err)
			return err
		}
		if stop {
			return nil
		}

		select {
		case <-ctx.Done():
			w.logger.Info("interrupted, shutting down")
			return nil
		case <-time.After(w.cfg.CheckInterval):
		}
	}
}

// tick runs one iteration: liveness accounting, grace evaluation, then
// frame capture. A grace-triggered stop skips the capture of its own tick.
// Panics escaping any step are converted into the fault return.
func (w *Watchdog) tick() (stop bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick fault: %v\n%s", r, debug.Stack())
		}
	}()

	if w.monitor.IsRunning(w.cfg.TargetProcess) {
		w.missing = 0
		w.logger.Debug("target process is running", "target", w.cfg.TargetProcess)
	} else {
		w.missing += w.cfg.CheckInterval
		w.logger.Warn("target process not found",
			"target", w.cfg.TargetProcess,
			"missing", w.missing,
			"grace", w.cfg.GracePeriod)

		if w.missing >= w.cfg.GracePeriod {
			w.logger.Error("target process missing too long, exiting",
				"target", w.cfg.TargetProcess,
				"missing", w.missing)
			return true, nil
		}
	}

	w.captureFrames()
	return false, nil
}

// captureFrames copies one frame per attached camera into its region.
// Every failure is tick-local: logged, the camera skipped, the loop
// untouched.
func (w *Watchdog) captureFrames() {
	for i := range w.slots {
		s := &w.slots[i]
		if s.source == nil || s.region == nil {
			continue
		}

		frame, err := s.source.Read()
		if err != nil {
			w.logger.Warn("failed to read frame", "camera", s.id, "error", err)
			continue
		}

		if frame.Shape != w.cfg.Shape {
			frame, err = w.resize(frame, w.cfg.Shape)
			if err != nil {
				w.logger.Warn("could not normalize frame shape", "camera", s.id, "error", err)
				continue
			}
		}

		if err := s.region.Write(frame.Data); err != nil {
			w.logger.Warn("failed to write frame slot", "camera", s.id, "error", err)
		}
	}
}

// teardown releases every camera, every region, and the lock. It collects
// all sub-failures and logs them; nothing here masks or replaces the cause
// that ended the loop.
func (w *Watchdog) teardown() {
	w.logger.Info("releasing camera and shared memory resources")

	var errs []error
	for i := range w.slots {
		s := &w.slots[i]
		if s.source != nil {
			if err := s.source.Close(); err != nil {
				errs = append(errs, fmt.Errorf("camera %d: %w", s.id, err))
			}
		}
		if s.region != nil {
			if err := s.region.Release(); err != nil {
				errs = append(errs, fmt.Errorf("camera %d region: %w", s.id, err))
			}
		}
	}
	if err := w.lock.Release(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		w.logger.Warn("cleanup finished with failures", "error", errors.Join(errs...))
		return
	}
	w.logger.Info("cleanup complete")
}
