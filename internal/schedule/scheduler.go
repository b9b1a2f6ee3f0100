package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/ramanasai/streak/internal/config"
)

const defaultHour, defaultMinute = 21, 30

// NextAt returns the first reminder time strictly after now that falls on a
// configured workday and is not a holiday. No workdays means every day.
func NextAt(now time.Time, cfg config.Config) time.Time {
	loc := cfg.ReminderLocation()
	now = now.In(loc)

	hour, min := defaultHour, defaultMinute
	if t, err := time.Parse("15:04", strings.TrimSpace(cfg.Reminder.Time)); err == nil {
		hour, min = t.Hour(), t.Minute()
	}

	workdays := map[string]bool{}
	for _, d := range cfg.Reminder.Workdays {
		if abbr := config.DayAbbrev(d); abbr != "" {
			workdays[abbr] = true
		}
	}
	holidays := map[string]bool{}
	for _, h := range cfg.Reminder.Holidays {
		holidays[strings.TrimSpace(h)] = true
	}
	eligible := func(t time.Time) bool {
		if len(workdays) > 0 && !workdays[t.Weekday().String()[:3]] {
			return false
		}
		return !holidays[t.Format("2006-01-02")]
	}

	cand := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	// a year of holidays is the most that can block every candidate
	for i := 0; i < 366; i++ {
		if eligible(cand) {
			return cand
		}
		cand = cand.AddDate(0, 0, 1)
	}
	return cand
}

// RunConfigured calls f at every scheduled reminder until ctx is canceled.
func RunConfigured(ctx context.Context, cfg config.Config, f func(at time.Time)) {
	next := NextAt(time.Now(), cfg)
	t := time.NewTimer(time.Until(next))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case fired := <-t.C:
			f(fired)
			next = NextAt(time.Now(), cfg)
			t.Reset(time.Until(next))
		}
	}
}
