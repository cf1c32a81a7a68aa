package main

import (
	"github.com/spf13/cobra"
)

func newTemplatesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage configuration templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "templates:list", "templates", "")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Apply a template to the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "templates:use", "templates", args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "preview <name>",
		Short: "Show a template without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "templates:preview", "templates", args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Save the current configuration as a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "templates:create", "templates", args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a user template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDirect(flags, printer(cmd), "templates:delete", "templates", args[0])
		},
	})

	return cmd
}
