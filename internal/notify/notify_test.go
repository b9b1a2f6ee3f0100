package notify

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/records"
)

type fakeLister map[records.Kind][]records.Record

func (f fakeLister) All(_ context.Context, kind records.Kind) ([]records.Record, error) {
	return f[kind], nil
}

type failingLister struct{}

func (failingLister) All(context.Context, records.Kind) ([]records.Record, error) {
	return nil, errors.New("boom")
}

func TestPendingKinds(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC)
	store := fakeLister{
		records.KindSleep: {records.SleepRecord{ID: "s", SleepTime: "2024-03-09T23:00:00.000Z", WakeTime: "2024-03-10T07:00:00.000Z", DurationMinutes: 480}},
		records.KindStudy: {records.StudyRecord{ID: "o", DateTime: "2024-03-09T10:00:00.000Z", Topic: "Go", DurationMinutes: 60}},
	}

	pending, err := PendingKinds(context.Background(), store, now, time.UTC, log)
	require.NoError(t, err)
	assert.Equal(t, []records.Kind{records.KindExercise, records.KindStudy}, pending)

	_, err = PendingKinds(context.Background(), failingLister{}, now, time.UTC, log)
	assert.Error(t, err)
}

func TestFormatDailyPrompt(t *testing.T) {
	title, msg := FormatDailyPrompt([]records.Kind{records.KindSleep, records.KindStudy})
	assert.Equal(t, "Daily streak reminder", title)
	assert.Equal(t, "Nothing logged today for: sleep, study.", msg)

	_, msg = FormatDailyPrompt(nil)
	assert.Contains(t, msg, "Everything is logged")
}
