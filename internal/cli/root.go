// Package cli holds the learnleap command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ConfigEnv names the config file when --config is not given.
const ConfigEnv = "LEARNLEAP_CONFIG"

type rootOptions struct {
	configPath string
}

// NewRootCmd builds the learnleap command with its serve and chat
// subcommands.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "learnleap",
		Short: "LearnLeap scholarship assistant",
		Long: `LearnLeap hosts the conversation engine of the scholarship chat widget.

Available commands:
  serve - run the HTTP API the widget talks to
  chat  - talk to the assistant from a terminal`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv(ConfigEnv), "config file (.json, .yaml or .yml)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newChatCmd(opts))
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
