package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/heatmap"
)

const cellGlyph = "■"

var (
	faint    = lipgloss.NewStyle().Faint(true)
	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
)

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// Heatmap draws g as seven text rows, one glyph per day, with a month
// label row on top. Padding cells and days past the end are blank.
func Heatmap(g heatmap.Grid) string {
	if g.Weeks == 0 {
		return ""
	}

	rows := make([][]string, 7)
	for d := range rows {
		rows[d] = make([]string, g.Weeks)
		for w := range rows[d] {
			rows[d][w] = " "
		}
	}
	for _, c := range g.Cells {
		if c.Padding {
			continue
		}
		rows[c.Weekday][c.Week] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Fill)).Render(cellGlyph)
	}

	// each column is two runes wide: glyph + space
	header := []rune(strings.Repeat(" ", g.Weeks*2))
	for _, m := range g.Months {
		for i, r := range m.Text {
			if pos := m.Week*2 + i; pos < len(header) {
				header[pos] = r
			}
		}
	}

	var b strings.Builder
	b.WriteString("    ")
	b.WriteString(faint.Render(strings.TrimRight(string(header), " ")))
	b.WriteString("\n")
	for d, row := range rows {
		fmt.Fprintf(&b, "%-4s", weekdayLabels[d])
		b.WriteString(strings.TrimRight(strings.Join(row, " "), " "))
		b.WriteString("\n")
	}
	return b.String()
}

// Legend shows the palette from lightest to darkest.
func Legend(p heatmap.Palette) string {
	parts := make([]string, 0, len(p))
	for _, color := range p {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(cellGlyph))
	}
	return faint.Render("less ") + strings.Join(parts, " ") + faint.Render(" more")
}

// Bars draws one horizontal bar per day, at most width cells long.
func Bars(series []analytics.DailyTotal, unit string, width int) string {
	if width <= 0 {
		width = 30
	}
	heights := analytics.BarHeights(series, float64(width))

	var b strings.Builder
	for i, d := range series {
		n := int(heights[i] + 0.5)
		if n == 0 && d.Total > 0 {
			n = 1
		}
		fmt.Fprintf(&b, "%s %s%s %s%s\n",
			faint.Render(shortDate(d.Date)+strings.Repeat(" ", 5-len(shortDate(d.Date)))),
			barStyle.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", width-n),
			strconv.FormatFloat(d.Total, 'f', 1, 64),
			unit,
		)
	}
	return b.String()
}

// StatsLine is the one-line footer under a bar chart.
func StatsLine(st analytics.Stats, unit string) string {
	return faint.Render(fmt.Sprintf("total %.1f%s · avg %.1f%s · best %.1f%s · active %d · streak %d",
		st.Total, unit, st.Average, unit, st.Max, unit, st.ActiveDays, st.Streak))
}
