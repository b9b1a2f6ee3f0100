// Package render draws heatmap grids and daily bar charts as SVG documents
// and as lipgloss-styled terminal text.
package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/heatmap"
)

const (
	barWidth  = 300
	barHeight = 150
	padTop    = 20
	padRight  = 10
	padBottom = 30
	padLeft   = 35
)

// HeatmapSVG renders the visible cells of g with a <title> tooltip each.
func HeatmapSVG(g heatmap.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" class="heatmap">`,
		g.Width, g.Height, g.Width, g.Height)
	b.WriteString("\n")

	for _, m := range g.Months {
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="10" fill="#57606a">%s</text>`,
			m.X, g.MonthLabelHeight-6, html.EscapeString(m.Text))
		b.WriteString("\n")
	}
	for _, c := range g.Visible() {
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="%s" data-date="%s" data-step="%d"><title>%s</title></rect>`,
			c.X, c.Y, g.CellSize, g.CellSize, c.Fill, c.Date, c.Step, html.EscapeString(c.Tooltip))
		b.WriteString("\n")
	}
	b.WriteString("</svg>\n")
	return b.String()
}

// BarChartSVG draws one bar per day, scaled to the series maximum.
func BarChartSVG(series []analytics.DailyTotal, unit string) string {
	chartW := float64(barWidth - padLeft - padRight)
	chartH := float64(barHeight - padTop - padBottom)
	baseline := padTop + chartH

	peak := 1.0
	for _, d := range series {
		if d.Total > peak {
			peak = d.Total
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" class="bars">`, barWidth, barHeight)
	b.WriteString("\n")

	for _, tick := range []struct{ v, y float64 }{
		{0, baseline},
		{peak / 2, padTop + chartH/2},
		{peak, padTop},
	} {
		label := "0"
		if tick.v != 0 {
			label = strconv.FormatFloat(tick.v, 'f', 1, 64)
		}
		fmt.Fprintf(&b, `<text x="%d" y="%s" text-anchor="end" font-size="10" fill="#57606a">%s%s</text>`,
			padLeft-5, num(tick.y+4), label, html.EscapeString(unit))
		fmt.Fprintf(&b, `<line x1="%d" y1="%s" x2="%s" y2="%s" stroke="#d0d7de" stroke-dasharray="2,2"/>`,
			padLeft, num(tick.y), num(padLeft+chartW), num(tick.y))
		b.WriteString("\n")
	}

	if n := len(series); n > 0 {
		slot := chartW / float64(n)
		w, gap := slot*0.8, slot*0.2
		heights := analytics.BarHeights(series, chartH)
		for i, d := range series {
			x := padLeft + float64(i)*(w+gap) + gap/2
			y := baseline - heights[i]
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="#3b82f6"><title>%s: %s %s</title></rect>`,
				num(x), num(y), num(w), num(heights[i]), d.Date, strconv.FormatFloat(d.Total, 'f', 1, 64), html.EscapeString(unit))
			fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="10" fill="#57606a">%s</text>`,
				num(x+w/2), num(baseline+15), shortDate(d.Date))
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, `<line x1="%d" y1="%s" x2="%s" y2="%s" stroke="#8c959f"/>`,
		padLeft, num(baseline), num(padLeft+chartW), num(baseline))
	b.WriteString("\n</svg>\n")
	return b.String()
}

// shortDate turns 2024-03-09 into 3/9.
func shortDate(date string) string {
	t, err := time.Parse(analytics.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
