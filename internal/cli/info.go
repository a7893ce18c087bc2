package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-inline-translator/internal/engine"
	"github.com/spf13/cobra"
)

func newCommandsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the translation commands and their stable ids",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Name"})
			for _, c := range engine.Commands() {
				t.AppendRow(table.Row{c.ID, c.Name})
			}
			t.Render()
		},
	}
}

func newProvidersCommand(a *app) *cobra.Command {
	var check bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List translation backends, or health-check the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if check {
				return a.checkProvider(cmd, timeout)
			}

			t := newTable(cmd.OutOrStdout(), table.Row{"", "Name", "Description", "API key"})
			for _, d := range a.factory.Registry().List() {
				active := ""
				if d.Name == a.cfg.Provider {
					active = "*"
				}
				key := "optional"
				if d.RequiresAPIKey {
					key = "required"
				}
				t.AppendRow(table.Row{active, d.Name, d.Description, key})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "health-check the configured backend")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "health check timeout")
	return cmd
}

func (a *app) checkProvider(cmd *cobra.Command, timeout time.Duration) error {
	provider, err := a.factory.CreateProvider(a.cfg.Provider, a.cfg.Active())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	w := cmd.OutOrStdout()
	if err := provider.HealthCheck(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(w, "✘ %s: %v\n", provider.GetName(), err)
		return fmt.Errorf("health check failed for %s", provider.GetName())
	}
	color.New(color.FgGreen, color.Bold).Fprintf(w, "✔ %s is reachable\n", provider.GetName())
	return nil
}
