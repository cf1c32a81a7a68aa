// Package main implements the forgelite interactive code-generation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	version = "0.5.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "forgelite",
		Short: "forgelite - AI-powered code generation from task descriptions",
		Long: `forgelite transforms plain task descriptions into tested,
production-ready code through an external agent.

Run it without arguments for the interactive session, or use the
subcommands for scripted access to the same operations.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				pterm.DisableColor()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags)
			if err != nil {
				return err
			}
			return runSession(cmd.Context(), app, flags)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "Enable debug mode")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to the configuration file")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Echo generation tasks instead of running the agent")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "Interaction mode: menu or command")

	cmd.AddCommand(newGenerateCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newTemplatesCmd(flags))
	cmd.AddCommand(newAuditCmd(flags))

	return cmd
}

type rootFlags struct {
	debug      bool
	configPath string
	dryRun     bool
	noColor    bool
	mode       string
}
