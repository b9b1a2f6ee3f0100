package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/streak/internal/notify"
)

// remindCmd is the one-shot form of the reminder, for cron or launchd.
func newRemindCmd(a *app) *cobra.Command {
	var dryRun bool
	c := &cobra.Command{
		Use:   "remind",
		Short: "Notify about kinds with nothing logged today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			if !dryRun {
				return notify.Remind(cmd.Context(), a.store, now, a.loc, a.log)
			}
			pending, err := notify.PendingKinds(cmd.Context(), a.store, now, a.loc, a.log)
			if err != nil {
				return err
			}
			title, msg := notify.FormatDailyPrompt(pending)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", title, msg)
			return nil
		},
	}
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print the reminder instead of sending a notification")
	return c
}
