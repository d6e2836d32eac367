package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camwatch/camwatch/internal/config"
	"github.com/camwatch/camwatch/internal/launcher"
	"github.com/camwatch/camwatch/internal/lockfile"
	"github.com/camwatch/camwatch/internal/logging"
)

// CreateLaunchCmd creates the launch command: spawn a detached background
// watchdog and return immediately.
func CreateLaunchCmd() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Start the watchdog as a detached background process",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := config.LoadConfig(opts, cmd); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
				os.Exit(1)
			}
			opts.initLogging()
			defer logging.Close()
			logger := logging.GetLogger("launcher")

			lock := lockfile.New(opts.LockFile, logging.GetLogger("lockfile"))

			// The child re-reads config and env itself; only the config
			// path needs forwarding.
			args := []string{"run"}
			if opts.Config != "" {
				args = append(args, "--config", opts.Config)
			}

			if err := launcher.LaunchBackground(lock, logger, args...); err != nil {
				logger.Error("failed to launch background process", "error", err)
				os.Exit(1)
			}
		},
	}

	registerFlags(cmd, opts)
	return cmd
}
