// Package heatmap lays out a calendar contribution grid: one column per week,
// one row per weekday, one colored cell per day.
package heatmap

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	DefaultCellSize         = 12
	DefaultGap              = 3
	DefaultMonthLabelHeight = 20
)

// Point is one day of input data.
type Point struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Value   float64 `json:"value"`
	Tooltip string  `json:"tooltip,omitempty"`
}

type Options struct {
	CellSize         int
	Gap              int
	MonthLabelHeight int
	Palette          Palette
	Step             StepFunc
	Location         *time.Location
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Gap <= 0 {
		o.Gap = DefaultGap
	}
	if o.MonthLabelHeight <= 0 {
		o.MonthLabelHeight = DefaultMonthLabelHeight
	}
	if o.Palette == (Palette{}) {
		o.Palette = DefaultPalette
	}
	if o.Step == nil {
		o.Step = DefaultStep
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Cell is the static geometry and metadata of one day.
type Cell struct {
	Date    string  `json:"date"`
	Week    int     `json:"week"`
	Weekday int     `json:"weekday"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Value   float64 `json:"value"`
	Step    int     `json:"step"`
	Fill    string  `json:"fill"`
	Tooltip string  `json:"tooltip"`
	// Padding cells precede the requested start inside the first week. They
	// exist only to align the grid; renderers skip them.
	Padding bool `json:"padding,omitempty"`
}

type MonthLabel struct {
	Text string `json:"text"`
	Week int    `json:"week"`
	X    int    `json:"x"`
}

type Grid struct {
	Cells            []Cell       `json:"cells"`
	Months           []MonthLabel `json:"months"`
	Weeks            int          `json:"weeks"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	CellSize         int          `json:"cellSize"`
	MonthLabelHeight int          `json:"monthLabelHeight"`
}

// Visible returns the cells a renderer should draw.
func (g Grid) Visible() []Cell {
	out := make([]Cell, 0, len(g.Cells))
	for _, c := range g.Cells {
		if !c.Padding {
			out = append(out, c)
		}
	}
	return out
}

// Layout builds the grid for [start, end]. The first column starts on the
// Sunday on or before start. end before start yields an empty grid.
func Layout(points []Point, start, end time.Time, opts Options) Grid {
	opts = opts.withDefaults()
	loc := opts.Location
	pitch := opts.CellSize + opts.Gap

	byDate := make(map[string]Point, len(points))
	for _, p := range points {
		byDate[p.Date] = p
	}

	startDay := startOfDay(start, loc)
	endDay := startOfDay(end, loc)
	grid := Grid{CellSize: opts.CellSize, MonthLabelHeight: opts.MonthLabelHeight}
	if endDay.Before(startDay) {
		return grid
	}

	aligned := startDay.AddDate(0, 0, -int(startDay.Weekday()))
	numDays := daysBetween(aligned, endDay) + 1
	numWeeks := (numDays + 6) / 7

	currentMonth := time.Month(0)
	for w := 0; w < numWeeks; w++ {
		weekX := w * pitch
		weekHasLabel := false

		for d := 0; d < 7; d++ {
			date := aligned.AddDate(0, 0, w*7+d)
			if date.After(endDay) {
				break
			}
			key := date.Format("2006-01-02")
			cell := Cell{
				Date:    key,
				Week:    w,
				Weekday: d,
				X:       weekX,
				Y:       d*pitch + opts.MonthLabelHeight,
				Fill:    opts.Palette[0],
			}
			if date.Before(startDay) {
				cell.Padding = true
				grid.Cells = append(grid.Cells, cell)
				continue
			}

			p, ok := byDate[key]
			cell.Value = p.Value
			cell.Step = clampStep(opts.Step(cell.Value))
			cell.Fill = opts.Palette[cell.Step]
			cell.Tooltip = p.Tooltip
			if !ok || cell.Tooltip == "" {
				cell.Tooltip = DefaultTooltip(key, cell.Value)
			}

			if month := date.Month(); month != currentMonth && !weekHasLabel {
				// a first column that starts mid-month gets no label for that month
				if w > 0 || date.Day() <= 7 {
					grid.Months = append(grid.Months, MonthLabel{Text: date.Format("Jan"), Week: w, X: weekX})
					currentMonth = month
					weekHasLabel = true
				} else if currentMonth == 0 {
					currentMonth = month
				}
			}

			grid.Cells = append(grid.Cells, cell)
		}
	}

	grid.Weeks = numWeeks
	grid.Width = numWeeks*pitch - opts.Gap
	grid.Height = 7*pitch - opts.Gap + opts.MonthLabelHeight
	return grid
}

// DefaultTooltip is "{date}: {value}".
func DefaultTooltip(date string, value float64) string {
	return fmt.Sprintf("%s: %s", date, strconv.FormatFloat(value, 'f', -1, 64))
}

// Points converts sparse per-day totals into layout input, sorted by date.
// tooltip may be nil.
func Points(totals map[string]float64, tooltip func(date string, value float64) string) []Point {
	out := make([]Point, 0, len(totals))
	for date, v := range totals {
		p := Point{Date: date, Value: v}
		if tooltip != nil {
			p.Tooltip = tooltip(date, v)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Window returns the range from the first day of the month `months` before
// now's month up to now.
func Window(now time.Time, months int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month()-time.Month(months), 1, 0, 0, 0, 0, loc)
	return start, now
}

func clampStep(s int) int {
	if s < 0 {
		return 0
	}
	if s >= Steps {
		return Steps - 1
	}
	return s
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
