// Package records defines the three tracked record kinds and the validation
// applied before a record is handed to the store.
package records

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimeLayout is the fixed-width ISO-8601 layout used for every stored timestamp.
// Fixed width keeps lexicographic and chronological order identical.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Kind names one of the independent record collections.
type Kind string

const (
	KindSleep    Kind = "sleep"
	KindExercise Kind = "exercise"
	KindStudy    Kind = "study"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindSleep, KindExercise, KindStudy}

// ParseKind maps user input to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSleep:
		return KindSleep, nil
	case KindExercise:
		return KindExercise, nil
	case KindStudy:
		return KindStudy, nil
	}
	return "", fmt.Errorf("unknown record kind %q (want sleep|exercise|study)", s)
}

func (k Kind) String() string { return string(k) }

// Title is the capitalised display name.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Record is the view shared by all kinds.
type Record interface {
	RecordID() string
	Kind() Kind
	// EventTime is the timestamp a record is attributed to when bucketing by day.
	EventTime() string
	Minutes() int
	Created() string
}

type SleepRecord struct {
	ID              string `json:"id"`
	SleepTime       string `json:"sleepTime"`
	WakeTime        string `json:"wakeTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Notes           string `json:"notes,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

func (r SleepRecord) RecordID() string { return r.ID }
func (r SleepRecord) Kind() Kind       { return KindSleep }

// EventTime attributes a night of sleep to the morning it ends.
func (r SleepRecord) EventTime() string { return r.WakeTime }
func (r SleepRecord) Minutes() int      { return r.DurationMinutes }
func (r SleepRecord) Created() string   { return r.CreatedAt }

type ExerciseRecord struct {
	ID              string `json:"id"`
	DateTime        string `json:"dateTime"`
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"durationMinutes"`
	Notes           string `json:"notes,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

func (r ExerciseRecord) RecordID() string  { return r.ID }
func (r ExerciseRecord) Kind() Kind        { return KindExercise }
func (r ExerciseRecord) EventTime() string { return r.DateTime }
func (r ExerciseRecord) Minutes() int      { return r.DurationMinutes }
func (r ExerciseRecord) Created() string   { return r.CreatedAt }

type StudyRecord struct {
	ID              string `json:"id"`
	DateTime        string `json:"dateTime"`
	Topic           string `json:"topic"`
	DurationMinutes int    `json:"durationMinutes"`
	Notes           string `json:"notes,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

func (r StudyRecord) RecordID() string  { return r.ID }
func (r StudyRecord) Kind() Kind        { return KindStudy }
func (r StudyRecord) EventTime() string { return r.DateTime }
func (r StudyRecord) Minutes() int      { return r.DurationMinutes }
func (r StudyRecord) Created() string   { return r.CreatedAt }

// Label returns the kind-specific descriptive field (activity, topic) or "".
func Label(r Record) string {
	switch v := r.(type) {
	case ExerciseRecord:
		return v.Activity
	case StudyRecord:
		return v.Topic
	}
	return ""
}

// FormatTime renders t in the stored layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts the stored layout as well as any RFC3339 variant.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// NewSleep builds a sleep record from a sleep and wake instant.
func NewSleep(sleep, wake time.Time, notes string) (SleepRecord, error) {
	if sleep.IsZero() {
		return SleepRecord{}, invalid("sleepTime", "is required")
	}
	if wake.IsZero() {
		return SleepRecord{}, invalid("wakeTime", "is required")
	}
	if !wake.After(sleep) {
		return SleepRecord{}, invalid("wakeTime", "must be after sleep time")
	}
	mins := int(math.Round(wake.Sub(sleep).Minutes()))
	if mins <= 0 {
		return SleepRecord{}, invalid("durationMinutes", "must be positive")
	}
	return SleepRecord{
		SleepTime:       FormatTime(sleep),
		WakeTime:        FormatTime(wake),
		DurationMinutes: mins,
		Notes:           strings.TrimSpace(notes),
	}, nil
}

func NewExercise(at time.Time, activity string, minutes int, notes string) (ExerciseRecord, error) {
	if at.IsZero() {
		return ExerciseRecord{}, invalid("dateTime", "is required")
	}
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return ExerciseRecord{}, invalid("activity", "is required")
	}
	if minutes <= 0 {
		return ExerciseRecord{}, invalid("durationMinutes", "must be positive")
	}
	return ExerciseRecord{
		DateTime:        FormatTime(at),
		Activity:        activity,
		DurationMinutes: minutes,
		Notes:           strings.TrimSpace(notes),
	}, nil
}

func NewStudy(at time.Time, topic string, minutes int, notes string) (StudyRecord, error) {
	if at.IsZero() {
		return StudyRecord{}, invalid("dateTime", "is required")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return StudyRecord{}, invalid("topic", "is required")
	}
	if minutes <= 0 {
		return StudyRecord{}, invalid("durationMinutes", "must be positive")
	}
	return StudyRecord{
		DateTime:        FormatTime(at),
		Topic:           topic,
		DurationMinutes: minutes,
		Notes:           strings.TrimSpace(notes),
	}, nil
}
