package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"placement-analytics/internal/common/validation"
	"placement-analytics/pkg/registry"
)

func newRegistryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check activity naming, timeouts and schemas",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(root.registry)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if _, err := validation.NewSchemaSet(reg); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%s: %d activities OK\n", root.registry, len(reg.Activities))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List task types with their report kinds and timeouts",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(root.registry)
			if err != nil {
				return err
			}
			for _, a := range reg.Activities {
				kind := a.ReportKind
				if kind == "" {
					kind = "-"
				}
				fmt.Fprintf(c.OutOrStdout(), "%-32s %-24s %s\n", a.TaskType, kind, a.Timeout)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <taskType> <field> <value>",
		Short: "Update status, version, displayName, description, timeout or retries of an activity",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(root.registry)
			if err != nil {
				return err
			}
			if err := reg.Set(args[0], args[1], args[2], time.Now()); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := reg.Save(root.registry); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "updated %s %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	})
	return cmd
}
