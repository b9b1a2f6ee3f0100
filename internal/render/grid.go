package render

import (
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/heatmap"
	"github.com/ramanasai/streak/internal/records"
)

// KindGrid aggregates recs of kind per day and lays them out over
// [start, end] with the kind's classifier and palette.
func KindGrid(recs []records.Record, kind records.Kind, start, end time.Time, loc *time.Location, log *slog.Logger) heatmap.Grid {
	totals := analytics.Totals(recs, kind, loc, log)
	points := heatmap.Points(totals, func(date string, v float64) string {
		return Tooltip(kind, date, v)
	})
	return heatmap.Layout(points, start, end, heatmap.Options{
		Palette:  heatmap.PaletteFor(kind),
		Step:     heatmap.StepFor(kind),
		Location: loc,
	})
}

// Tooltip is "2024-03-02: 7.5 h" for sleep and "2024-03-02: 45 min" otherwise.
func Tooltip(kind records.Kind, date string, v float64) string {
	if kind == records.KindSleep {
		return fmt.Sprintf("%s: %.1f %s", date, v, analytics.Unit(kind))
	}
	return fmt.Sprintf("%s: %.0f %s", date, v, analytics.Unit(kind))
}
