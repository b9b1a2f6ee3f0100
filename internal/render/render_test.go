package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/heatmap"
	"github.com/ramanasai/streak/internal/logger"
	"github.com/ramanasai/streak/internal/records"
)

func grid(t *testing.T, points []heatmap.Point) heatmap.Grid {
	t.Helper()
	return heatmap.Layout(points,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		heatmap.Options{Location: time.UTC, Step: heatmap.ExerciseStep, Palette: heatmap.ExercisePalette},
	)
}

func TestHeatmapSVGSkipsPadding(t *testing.T) {
	g := grid(t, []heatmap.Point{{Date: "2024-01-12", Value: 95, Tooltip: "Run <fast> & far"}})
	svg := HeatmapSVG(g)

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="27" height="122"`))
	assert.Equal(t, 11, strings.Count(svg, "<rect "))
	assert.NotContains(t, svg, `data-date="2024-01-07"`)
	assert.Contains(t, svg, `data-date="2024-01-12" data-step="4"`)
	assert.Contains(t, svg, "<title>Run &lt;fast&gt; &amp; far</title>")
	assert.Contains(t, svg, heatmap.ExercisePalette[4])
}

func TestHeatmapSVGMonthLabels(t *testing.T) {
	g := heatmap.Layout(nil,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		heatmap.Options{Location: time.UTC},
	)
	svg := HeatmapSVG(g)
	assert.Contains(t, svg, `<text x="0" y="14" font-size="10" fill="#57606a">Jan</text>`)
	assert.Contains(t, svg, `<text x="60" y="14" font-size="10" fill="#57606a">Feb</text>`)
}

func TestBarChartSVG(t *testing.T) {
	series := []analytics.DailyTotal{
		{Date: "2024-03-09", Total: 0},
		{Date: "2024-03-10", Total: 50},
		{Date: "2024-03-11", Total: 100},
	}
	svg := BarChartSVG(series, "min")

	assert.Equal(t, 3, strings.Count(svg, "<rect "))
	assert.Contains(t, svg, "<title>2024-03-11: 100.0 min</title>")
	// tallest bar spans the whole 100px plot area
	assert.Contains(t, svg, `x="213.50" y="20.00" width="68.00" height="100.00"`)
	assert.Contains(t, svg, `height="50.00"`)
	assert.Contains(t, svg, ">3/10</text>")
	assert.Contains(t, svg, ">100.0min</text>")
}

func TestBarChartSVGEmpty(t *testing.T) {
	svg := BarChartSVG(nil, "h")
	assert.Zero(t, strings.Count(svg, "<rect "))
	assert.Contains(t, svg, ">1.0h</text>")
}

func TestTerminalHeatmap(t *testing.T) {
	out := Heatmap(grid(t, nil))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, 11, strings.Count(out, cellGlyph))
	assert.Empty(t, Heatmap(heatmap.Grid{}))
}

func TestTerminalBars(t *testing.T) {
	series := []analytics.DailyTotal{
		{Date: "2024-03-10", Total: 0},
		{Date: "2024-03-11", Total: 0.1},
		{Date: "2024-03-12", Total: 8},
	}
	out := Bars(series, "h", 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, 0, strings.Count(lines[0], "█"))
	assert.Equal(t, 1, strings.Count(lines[1], "█"))
	assert.Equal(t, 10, strings.Count(lines[2], "█"))
	assert.Contains(t, lines[2], "8.0h")
}

func TestStatsLine(t *testing.T) {
	line := StatsLine(analytics.Stats{Total: 12, Average: 4, Max: 8, ActiveDays: 2, Streak: 1}, "h")
	assert.Contains(t, line, "total 12.0h")
	assert.Contains(t, line, "streak 1")
}

func TestKindGrid(t *testing.T) {
	recs := []records.Record{
		records.SleepRecord{ID: "a", SleepTime: "2024-01-11T23:00:00.000Z", WakeTime: "2024-01-12T06:30:00.000Z", DurationMinutes: 450},
	}
	g := KindGrid(recs, records.KindSleep,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		time.UTC, logger.Discard())

	var found bool
	for _, c := range g.Visible() {
		if c.Date == "2024-01-12" {
			found = true
			assert.Equal(t, 3, c.Step)
			assert.Equal(t, heatmap.SleepPalette[3], c.Fill)
			assert.Equal(t, "2024-01-12: 7.5 h", c.Tooltip)
		} else {
			assert.Zero(t, c.Step, c.Date)
		}
	}
	assert.True(t, found)
	assert.Equal(t, "2024-01-12: 45 min", Tooltip(records.KindStudy, "2024-01-12", 45))
}
