package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/camwatch/camwatch/internal/api"
	"github.com/camwatch/camwatch/internal/config"
	"github.com/camwatch/camwatch/internal/lockfile"
	"github.com/camwatch/camwatch/internal/logging"
	"github.com/camwatch/camwatch/internal/procmon"
)

// CreateAPICmd creates the api command: the read-only status HTTP server.
// It runs independently of the watchdog process and only reads the same
// on-disk lock state.
func CreateAPICmd() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the read-only status HTTP API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := config.LoadConfig(opts, cmd); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
				os.Exit(1)
			}
			opts.initLogging()
			defer logging.Close()
			logger := logging.GetLogger("api")

			server := api.NewServer(&api.Options{
				Lock:          lockfile.New(opts.LockFile, logging.GetLogger("lockfile")),
				Monitor:       procmon.NewSystem(logging.GetLogger("procmon")),
				TargetProcess: opts.TargetProcess,
				Logger:        logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start(opts.Port) }()

			select {
			case <-ctx.Done():
				if err := server.Stop(); err != nil {
					logger.Error("error stopping status API server", "error", err)
				}
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("status API server failed", "error", err)
					os.Exit(1)
				}
			}
		},
	}

	registerFlags(cmd, opts)
	return cmd
}
