package main

import (
	"fmt"
	"strings"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/spf13/cobra"
)

func newGenerateCmd(flags *rootFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "generate <task description>",
		Short: "Generate code from a task description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.registry.Execute("generate:task", &command.Context{
				SessionID: "cli",
				Level:     "generate",
				DebugMode: flags.debug,
				Parameters: map[string]string{
					"input": strings.Join(args, " "),
					"kind":  kind,
				},
				Args: args,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if !res.Success {
				return fmt.Errorf("generation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Refine the task: component, api, or test")
	return cmd
}
