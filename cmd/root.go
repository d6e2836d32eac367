// Package cmd wires the camwatch command-line verbs.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/camwatch/camwatch/internal/version"
)

// NewRootCmd builds the camwatch root command with its three verbs.
// A bare invocation prints usage.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "camwatch",
		Short: "Process watchdog with shared-memory camera capture",
		Long: `camwatch watches a named process, captures camera frames into
cross-process shared memory, and exposes its own state over a small
read-only HTTP API.`,
		Version: version.String(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(CreateRunCmd())
	root.AddCommand(CreateLaunchCmd())
	root.AddCommand(CreateAPICmd())
	return root
}
