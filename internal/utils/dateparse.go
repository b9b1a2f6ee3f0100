package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	dayClockRe = regexp.MustCompile(`^(today|yesterday|tomorrow)\s+(\d{1,2}):(\d{2})$`)
	amountRe   = regexp.MustCompile(`^(\d+)\s+(minute|minutes|hour|hours|day|days|week|weeks|month|months|year|years)(\s+ago)?$`)
	durationRe = regexp.MustCompile(`^(\d+)([smhdwy])$`)
)

// ParseFlexibleDate attempts to parse various date formats and natural language
func ParseFlexibleDate(input string, loc *time.Location) (time.Time, error) {
	return ParseFlexibleDateAt(input, time.Now(), loc)
}

// ParseFlexibleDateAt is ParseFlexibleDate relative to now.
func ParseFlexibleDateAt(input string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}

	now = now.In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch input {
	case "today":
		return midnight, nil
	case "yesterday":
		return midnight.AddDate(0, 0, -1), nil
	case "tomorrow":
		return midnight.AddDate(0, 0, 1), nil
	case "now":
		return now, nil
	}

	// "23:10" is today at that time
	if m := clockRe.FindStringSubmatch(input); m != nil {
		return atClock(midnight, m[1], m[2])
	}
	// "yesterday 23:10"
	if m := dayClockRe.FindStringSubmatch(input); m != nil {
		day := midnight
		switch m[1] {
		case "yesterday":
			day = midnight.AddDate(0, 0, -1)
		case "tomorrow":
			day = midnight.AddDate(0, 0, 1)
		}
		return atClock(day, m[2], m[3])
	}

	// "2h ago", "30m ago"
	if strings.HasSuffix(input, " ago") {
		if d, err := parseDuration(strings.TrimSuffix(input, " ago")); err == nil {
			return now.Add(-d), nil
		}
	}

	if strings.HasPrefix(input, "last ") {
		switch strings.TrimPrefix(input, "last ") {
		case "week":
			return now.AddDate(0, 0, -7), nil
		case "month":
			return now.AddDate(0, -1, 0), nil
		case "year":
			return now.AddDate(-1, 0, 0), nil
		case "day":
			return now.AddDate(0, 0, -1), nil
		}
	}

	if strings.HasPrefix(input, "this ") {
		switch strings.TrimPrefix(input, "this ") {
		case "week":
			weekday := int(now.Weekday())
			if weekday == 0 { // Sunday
				weekday = 7
			}
			return midnight.AddDate(0, 0, -(weekday - 1)), nil
		case "month":
			return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
		case "year":
			return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc), nil
		}
	}

	// "3 days", "90 minutes ago"
	if m := amountRe.FindStringSubmatch(input); m != nil {
		num, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "minute", "minutes":
			return now.Add(-time.Duration(num) * time.Minute), nil
		case "hour", "hours":
			return now.Add(-time.Duration(num) * time.Hour), nil
		case "day", "days":
			return now.AddDate(0, 0, -num), nil
		case "week", "weeks":
			return now.AddDate(0, 0, -7*num), nil
		case "month", "months":
			return now.AddDate(0, -num, 0), nil
		case "year", "years":
			return now.AddDate(-num, 0, 0), nil
		}
	}

	// RFC3339 carries its own offset
	for _, format := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(format, strings.ToUpper(input)); err == nil {
			return t.In(loc), nil
		}
	}

	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02t15:04",
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"2 January 2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, input, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", input)
}

// ParseSleepWindow resolves a fell-asleep and woke-up input pair. When both
// land on the same day with sleep after wake ("23:00" and "07:00"), the
// sleep instant moves back one day.
func ParseSleepWindow(sleepIn, wakeIn string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	sleep, err := ParseFlexibleDateAt(sleepIn, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("sleep time: %w", err)
	}
	wake, err := ParseFlexibleDateAt(wakeIn, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("wake time: %w", err)
	}
	if sleep.After(wake) && sleep.Sub(wake) < 24*time.Hour {
		sleep = sleep.AddDate(0, 0, -1)
	}
	return sleep, wake, nil
}

func atClock(day time.Time, hh, mm string) (time.Time, error) {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		return time.Time{}, fmt.Errorf("invalid time of day: %s:%s", hh, mm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

// parseDuration parses simple duration strings like "2h", "30m", "1d"
func parseDuration(input string) (time.Duration, error) {
	matches := durationRe.FindStringSubmatch(input)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration format: %s", input)
	}

	num, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "s":
		return time.Duration(num) * time.Second, nil
	case "m":
		return time.Duration(num) * time.Minute, nil
	case "h":
		return time.Duration(num) * time.Hour, nil
	case "d":
		return time.Duration(num) * 24 * time.Hour, nil
	case "w":
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	case "y":
		return time.Duration(num) * 365 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown duration unit: %s", matches[2])
}

// ParseMinutes accepts a bare number of minutes or a Go duration like "1h30m".
func ParseMinutes(input string) (int, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: want minutes or e.g. 1h30m", input)
	}
	return int(d.Round(time.Minute) / time.Minute), nil
}

// GetDateRange returns start and end time for common presets
func GetDateRange(preset string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch strings.ToLower(preset) {
	case "today":
		return today, today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), today, nil
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		start := today.AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 7), nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	case "year":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0), nil
	case "last7days", "last-7-days":
		return today.AddDate(0, 0, -7), now, nil
	case "last30days", "last-30-days":
		return today.AddDate(0, 0, -30), now, nil
	case "last90days", "last-90-days":
		return today.AddDate(0, 0, -90), now, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown date preset: %s", preset)
}
