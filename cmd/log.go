package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/utils"
)

func newLogCmd(a *app) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Log a sleep, exercise or study record",
	}
	logCmd.AddCommand(newLogSleepCmd(a), newLogSessionCmd(a, records.KindExercise), newLogSessionCmd(a, records.KindStudy))
	return logCmd
}

func newLogSleepCmd(a *app) *cobra.Command {
	var from, to, notes string
	c := &cobra.Command{
		Use:   "sleep",
		Short: "Log a night of sleep",
		Long: `Examples:
	streak log sleep --from 23:15 --to 07:00
	streak log sleep --from "yesterday 22:30" --to 06:45 --notes "woke up once"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sleep, wake, err := utils.ParseSleepWindow(from, to, a.now(), a.loc)
			if err != nil {
				return err
			}
			r, err := records.NewSleep(sleep, wake, notes)
			if err != nil {
				return err
			}
			return a.save(cmd, r)
		},
	}
	c.Flags().StringVar(&from, "from", "", "when you fell asleep (e.g. 23:15, \"yesterday 22:30\")")
	c.Flags().StringVar(&to, "to", "now", "when you woke up")
	c.Flags().StringVarP(&notes, "notes", "n", "", "optional notes")
	_ = c.MarkFlagRequired("from")
	return c
}

// newLogSessionCmd builds "log exercise" and "log study", which differ only
// in what the label argument means.
func newLogSessionCmd(a *app, kind records.Kind) *cobra.Command {
	var at, duration, notes string
	what := "activity"
	if kind == records.KindStudy {
		what = "topic"
	}
	c := &cobra.Command{
		Use:   fmt.Sprintf("%s <%s>", kind, what),
		Short: fmt.Sprintf("Log a %s session", kind),
		Long: fmt.Sprintf(`Examples:
	streak log %[1]s "%[2]s" --minutes 45
	streak log %[1]s "%[2]s" -m 1h30m --at "2h ago"`, kind, map[records.Kind]string{
			records.KindExercise: "Running",
			records.KindStudy:    "Linear algebra",
		}[kind]),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := utils.ParseFlexibleDateAt(at, a.now(), a.loc)
			if err != nil {
				return fmt.Errorf("invalid --at %q: %w", at, err)
			}
			mins, err := utils.ParseMinutes(duration)
			if err != nil {
				return err
			}
			label := strings.Join(args, " ")

			var r records.Record
			if kind == records.KindExercise {
				r, err = records.NewExercise(when, label, mins, notes)
			} else {
				r, err = records.NewStudy(when, label, mins, notes)
			}
			if err != nil {
				return err
			}
			return a.save(cmd, r)
		},
	}
	c.Flags().StringVar(&at, "at", "now", "when the session happened")
	c.Flags().StringVarP(&duration, "minutes", "m", "", "duration in minutes or as 1h30m")
	c.Flags().StringVarP(&notes, "notes", "n", "", "optional notes")
	_ = c.MarkFlagRequired("minutes")
	return c
}

func (a *app) save(cmd *cobra.Command, r records.Record) error {
	id, err := a.store.Add(cmd.Context(), r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s record %s (%s).\n", r.Kind(), id, utils.FormatMinutes(r.Minutes()))
	return nil
}
