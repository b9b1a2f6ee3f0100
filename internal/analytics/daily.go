// Package analytics turns raw records into per-day totals.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/observability"
	"github.com/ramanasai/streak/internal/records"
)

// DateLayout is the bucket key format. Fixed width, so string order is date order.
const DateLayout = "2006-01-02"

// DefaultDays is the trailing window used when the caller passes days <= 0.
const DefaultDays = 7

// DailyTotal is one bucket of a trailing-window series.
type DailyTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"totalDuration"`
}

// ParseError reports a record whose event timestamp could not be read.
type ParseError struct {
	Kind  records.Kind
	ID    string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s record %s: bad timestamp %q: %v", e.Kind, e.ID, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Unit is the display unit of totals for kind.
func Unit(kind records.Kind) string {
	if kind == records.KindSleep {
		return "h"
	}
	return "min"
}

// Value converts a record's duration into the unit its kind is charted in.
func Value(kind records.Kind, minutes int) float64 {
	if kind == records.KindSleep {
		return float64(minutes) / 60
	}
	return float64(minutes)
}

// StartOfDay truncates t to local midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Bucket returns the local day key a record belongs to.
func Bucket(r records.Record, loc *time.Location) (string, error) {
	ts, err := records.ParseTime(r.EventTime())
	if err != nil {
		return "", &ParseError{Kind: r.Kind(), ID: r.RecordID(), Value: r.EventTime(), Err: err}
	}
	return StartOfDay(ts, loc).Format(DateLayout), nil
}

// Daily sums recs of kind per local calendar day over the trailing window of
// days ending on now's day. Every day in the window is present, ascending;
// days without records are zero. Records outside the window are ignored and
// records with an unreadable timestamp are logged and skipped.
func Daily(recs []records.Record, kind records.Kind, days int, now time.Time, loc *time.Location, log *slog.Logger) []DailyTotal {
	if days <= 0 {
		days = DefaultDays
	}
	if loc == nil {
		loc = time.Local
	}

	end := StartOfDay(now, loc)
	start := end.AddDate(0, 0, -(days - 1))

	totals := make(map[string]float64, days)
	for i := 0; i < days; i++ {
		totals[start.AddDate(0, 0, i).Format(DateLayout)] = 0
	}

	for key, v := range Totals(recs, kind, loc, log) {
		if _, ok := totals[key]; ok {
			totals[key] = v
		}
	}

	out := make([]DailyTotal, 0, days)
	for date, total := range totals {
		out = append(out, DailyTotal{Date: date, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Totals is the sparse per-day map over every record, using the same unit and
// bucketing rules as Daily. Records of other kinds are ignored.
func Totals(recs []records.Record, kind records.Kind, loc *time.Location, log *slog.Logger) map[string]float64 {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.Default()
	}

	// Sum whole minutes first so the result does not depend on input order.
	minutes := make(map[string]int)
	for _, r := range recs {
		if r == nil || r.Kind() != kind {
			continue
		}
		key, err := Bucket(r, loc)
		if err != nil {
			log.Warn("skipping record", slog.String("kind", kind.String()), slog.Any("error", err))
			observability.RecordSkipped(kind.String())
			continue
		}
		minutes[key] += r.Minutes()
	}

	out := make(map[string]float64, len(minutes))
	for key, m := range minutes {
		out[key] = Value(kind, m)
	}
	return out
}
