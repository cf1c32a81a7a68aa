package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ForgeLite/forgelite/pkg/audit"
	"github.com/spf13/cobra"
)

func newAuditCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the durable audit log",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the audit log location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Verify the audit log's integrity chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath()
			if err != nil {
				return err
			}
			key, err := loadOrCreateAuditKey(auditKeyPath())
			if err != nil {
				return err
			}
			n, err := audit.Verify(path, key)
			if err != nil {
				return fmt.Errorf("audit log verification failed after %d valid entries: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d entries verified\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded command executions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath()
			if err != nil {
				return err
			}
			summary, err := audit.Summarize(path)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "No audit log yet.")
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total executions:  %d\n", summary.Total)
			fmt.Fprintf(out, "Succeeded:         %d\n", summary.Succeeded)
			fmt.Fprintf(out, "Failed:            %d\n", summary.Failed)
			fmt.Fprintf(out, "Average duration:  %.1fms\n", summary.AverageDurationMS)
			if len(summary.CommandFrequency) > 0 {
				fmt.Fprintln(out, "By command:")
				ids := make([]string, 0, len(summary.CommandFrequency))
				for id := range summary.CommandFrequency {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(out, "  %-24s %d\n", id, summary.CommandFrequency[id])
				}
			}
			return nil
		},
	})

	return cmd
}
