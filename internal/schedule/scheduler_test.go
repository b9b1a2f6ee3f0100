package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramanasai/streak/internal/config"
)

func reminderConfig(at string, workdays, holidays []string) config.Config {
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.Reminder.Enabled = true
	cfg.Reminder.Time = at
	cfg.Reminder.Workdays = workdays
	cfg.Reminder.Holidays = holidays
	return cfg
}

func TestNextAtLaterToday(t *testing.T) {
	cfg := reminderConfig("21:30", nil, nil)
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 6, 21, 30, 0, 0, time.UTC), NextAt(now, cfg))
}

func TestNextAtRollsToTomorrow(t *testing.T) {
	cfg := reminderConfig("21:30", nil, nil)
	now := time.Date(2024, 3, 6, 21, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 7, 21, 30, 0, 0, time.UTC), NextAt(now, cfg))
}

func TestNextAtSkipsWeekendAndHoliday(t *testing.T) {
	cfg := reminderConfig("08:00", []string{"Mon", "Tue", "Wed", "Thu", "Fri"}, []string{"2024-03-11"})
	// Friday evening: Saturday and Sunday are skipped, Monday is a holiday
	now := time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC), NextAt(now, cfg))
}

func TestNextAtBadTimeUsesDefault(t *testing.T) {
	cfg := reminderConfig("soon", nil, nil)
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 6, 21, 30, 0, 0, time.UTC), NextAt(now, cfg))
}
