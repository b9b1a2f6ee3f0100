package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramanasai/streak/internal/heatmap"
	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/render"
)

func newHeatmapCmd(a *app) *cobra.Command {
	var (
		months int
		svg    bool
		out    string
	)
	c := &cobra.Command{
		Use:   "heatmap <kind>",
		Short: "Draw the calendar heatmap for a kind",
		Long: `Examples:
	streak heatmap sleep
	streak heatmap study --months 12 --svg --out study.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := records.ParseKind(args[0])
			if err != nil {
				return err
			}
			if months <= 0 {
				months = a.cfg.HeatmapMonths
			}
			recs, err := a.store.All(cmd.Context(), kind)
			if err != nil {
				return err
			}

			start, end := heatmap.Window(a.now(), months, a.loc)
			g := render.KindGrid(recs, kind, start, end, a.loc, a.log)

			if !svg {
				fmt.Fprintln(cmd.OutOrStdout(), render.Heatmap(g))
				fmt.Fprintln(cmd.OutOrStdout(), render.Legend(heatmap.PaletteFor(kind)))
				return nil
			}
			doc := render.HeatmapSVG(g)
			if out == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", out)
			return nil
		},
	}
	c.Flags().IntVar(&months, "months", 0, "months of history (default from config)")
	c.Flags().BoolVar(&svg, "svg", false, "emit SVG instead of terminal glyphs")
	c.Flags().StringVarP(&out, "out", "o", "", "write the SVG to this file")
	return c
}
