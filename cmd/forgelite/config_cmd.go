package main

import (
	"fmt"
	"strings"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/spf13/cobra"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration",
	}
	cmd.AddCommand(newConfigShowCmd(flags))
	cmd.AddCommand(newConfigSetCmd(flags))
	cmd.AddCommand(newConfigResetCmd(flags))
	return cmd
}

// execDirect runs one registry command outside an interactive session.
func execDirect(flags *rootFlags, out func(string), handlerID, level, input string) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	defer a.close()

	params := map[string]string{}
	if input != "" {
		params["input"] = input
	}
	res, err := a.registry.Execute(handlerID, &command.Context{
		SessionID:  "cli",
		Level:      level,
		DebugMode:  flags.debug,
		Parameters: params,
	})
	if err != nil {
		return err
	}
	out(res.Message)
	if !res.Success {
		return fmt.Errorf("command failed")
	}
	return nil
}

func newConfigShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "config:show", "config", "")
		},
	}
}

func newConfigSetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "config:edit", "config", strings.Join(args, " "))
		},
	}
}

func newConfigResetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "templates:reset", "config", "")
		},
	}
}

func printer(cmd *cobra.Command) func(string) {
	return func(msg string) {
		if msg != "" {
			fmt.Fprintln(cmd.OutOrStdout(), msg)
		}
	}
}
