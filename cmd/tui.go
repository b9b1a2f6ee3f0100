package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ramanasai/streak/internal/ui"
)

// tuiCmd launches the Bubble Tea dashboard.
func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}

func (a *app) runTUI(ctx context.Context) error {
	a.startReminder(ctx)
	return ui.Run(ctx, a.store, ui.Options{
		Location:      a.loc,
		SummaryDays:   a.cfg.SummaryDays,
		HeatmapMonths: a.cfg.HeatmapMonths,
		Theme:         a.cfg.Theme,
		Bus:           a.bus,
		Now:           a.now,
		Logger:        a.log,
	})
}
