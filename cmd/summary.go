package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/render"
	"github.com/ramanasai/streak/internal/utils"
)

type kindSummary struct {
	Kind   records.Kind           `json:"kind"`
	Unit   string                 `json:"unit"`
	Days   []analytics.DailyTotal `json:"days"`
	Stats  analytics.Stats        `json:"stats"`
}

// summaryCmd prints the trailing daily totals with a bar chart per kind.
func newSummaryCmd(a *app) *cobra.Command {
	var (
		days   int
		asJSON bool
		table  bool
	)
	c := &cobra.Command{
		Use:   "summary [kind]",
		Short: "Daily totals for the last few days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := records.Kinds
			if len(args) == 1 {
				k, err := records.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []records.Kind{k}
			}
			if days <= 0 {
				days = a.cfg.SummaryDays
			}

			now := a.now()
			var out []kindSummary
			for _, kind := range kinds {
				recs, err := a.store.All(cmd.Context(), kind)
				if err != nil {
					return err
				}
				series := analytics.Daily(recs, kind, days, now, a.loc, a.log)
				out = append(out, kindSummary{
					Kind:  kind,
					Unit:  analytics.Unit(kind),
					Days:  series,
					Stats: analytics.Summarize(series),
				})
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for i, s := range out {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s, last %d days (%s)\n", s.Kind.Title(), days, s.Unit)
				if table {
					fmt.Fprint(w, utils.RenderDaily(s.Days, s.Unit))
				} else {
					fmt.Fprint(w, strings.TrimRight(render.Bars(s.Days, s.Unit, 30), "\n")+"\n")
				}
				fmt.Fprintln(w, render.StatsLine(s.Stats, s.Unit))
			}
			return nil
		},
	}
	c.Flags().IntVarP(&days, "days", "d", 0, "trailing window in days (default from config)")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	c.Flags().BoolVar(&table, "table", false, "print numbers instead of bars")
	return c
}
