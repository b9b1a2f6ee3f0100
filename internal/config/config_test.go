package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.SummaryDays, cfg.SummaryDays)
	assert.Equal(t, want.HeatmapMonths, cfg.HeatmapMonths)
	assert.Equal(t, "127.0.0.1:7788", cfg.Dashboard.Addr)
	assert.Equal(t, "streak", cfg.MQTT.TopicPrefix)
	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Len(t, cfg.Reminder.Workdays, 7)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
env: prod
timezone: Asia/Tokyo
summary_days: 14
reminder:
  enabled: true
  time: "08:15"
  workdays: [monday, TUE, x, Wednesday]
  holidays: [" 2025-01-26 "]
mqtt:
  enabled: true
  broker: localhost:1883
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, 14, cfg.SummaryDays)
	assert.Equal(t, 3, cfg.HeatmapMonths)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, cfg.Reminder.Workdays)
	assert.Equal(t, []string{"2025-01-26"}, cfg.Reminder.Holidays)
	assert.Equal(t, "localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "Asia/Tokyo", cfg.Location().String())
	assert.Equal(t, "Asia/Tokyo", cfg.ReminderLocation().String())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STREAK_SUMMARY_DAYS", "30")
	t.Setenv("STREAK_MQTT_BROKER", "broker:1883")
	t.Setenv("STREAK_PASSPHRASE", "hunter2")

	cfg, err := Load(writeConfig(t, "summary_days: 10\nencryption:\n  enabled: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.SummaryDays)
	assert.Equal(t, "broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "hunter2", cfg.Encryption.Passphrase)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "summary_days: [\n"},
		{name: "unknown env", body: "env: staging\n"},
		{name: "bad timezone", body: "timezone: Mars/Olympus\n"},
		{name: "bad reminder time", body: "reminder:\n  enabled: true\n  time: soon\n"},
		{name: "encryption without passphrase", body: "encryption:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STREAK_PASSPHRASE", "")
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestNonPositiveWindowsFallBack(t *testing.T) {
	cfg, err := Load(writeConfig(t, "summary_days: 0\nheatmap_months: -2\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.SummaryDays)
	assert.Equal(t, 3, cfg.HeatmapMonths)
}

func TestDayAbbrev(t *testing.T) {
	assert.Equal(t, "Sun", DayAbbrev("SUNDAY"))
	assert.Equal(t, "Thu", DayAbbrev(" thu "))
	assert.Equal(t, "", DayAbbrev("mo"))
	assert.Equal(t, "", DayAbbrev("xyz"))
}
