package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time"`     // "21:30"
	Workdays []string `mapstructure:"workdays"` // ["Mon","Tue",...]
	Holidays []string `mapstructure:"holidays"` // ["2025-01-26"]
	Timezone string   `mapstructure:"timezone"` // optional, falls back to Config.Timezone
}

type EncryptionConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Passphrase string `mapstructure:"passphrase"` // usually from STREAK_PASSPHRASE
}

type DashboardConfig struct {
	Addr string `mapstructure:"addr"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"` // host:port
	TopicPrefix string `mapstructure:"topic_prefix"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	ClientID    string `mapstructure:"client_id"`
}

type Config struct {
	Theme         string           `mapstructure:"theme"`
	Timezone      string           `mapstructure:"timezone"`
	LogLevel      string           `mapstructure:"log_level"`
	Env           string           `mapstructure:"env"`
	DBPath        string           `mapstructure:"db_path"`
	SummaryDays   int              `mapstructure:"summary_days"`
	HeatmapMonths int              `mapstructure:"heatmap_months"`
	Encryption    EncryptionConfig `mapstructure:"encryption"`
	Reminder      ReminderConfig   `mapstructure:"reminder"`
	Dashboard     DashboardConfig  `mapstructure:"dashboard"`
	MQTT          MQTTConfig       `mapstructure:"mqtt"`
}

func Default() Config {
	return Config{
		Theme:         "default",
		LogLevel:      "info",
		Env:           EnvLocal,
		SummaryDays:   7,
		HeatmapMonths: 3,
		Reminder: ReminderConfig{
			Enabled:  false,
			Time:     "21:30",
			Workdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Holidays: []string{},
		},
		Dashboard: DashboardConfig{Addr: "127.0.0.1:7788"},
		MQTT: MQTTConfig{
			TopicPrefix: "streak",
			ClientID:    "streak",
		},
	}
}

// DefaultPath is ~/.config/streak/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "streak", "config.yaml"), nil
}

// Load reads path (DefaultPath when empty) on top of the defaults. A missing
// file is fine; a malformed one is not. STREAK_* environment variables
// override file values, e.g. STREAK_MQTT_BROKER.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("streak")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("env", cfg.Env)
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("summary_days", cfg.SummaryDays)
	v.SetDefault("heatmap_months", cfg.HeatmapMonths)
	v.SetDefault("encryption.enabled", cfg.Encryption.Enabled)
	v.SetDefault("encryption.passphrase", "")
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)
	v.SetDefault("reminder.holidays", cfg.Reminder.Holidays)
	v.SetDefault("reminder.timezone", cfg.Reminder.Timezone)
	v.SetDefault("dashboard.addr", cfg.Dashboard.Addr)
	v.SetDefault("mqtt.enabled", cfg.MQTT.Enabled)
	v.SetDefault("mqtt.broker", cfg.MQTT.Broker)
	v.SetDefault("mqtt.topic_prefix", cfg.MQTT.TopicPrefix)
	v.SetDefault("mqtt.username", cfg.MQTT.Username)
	v.SetDefault("mqtt.password", cfg.MQTT.Password)
	v.SetDefault("mqtt.client_id", cfg.MQTT.ClientID)

	if err := v.BindEnv("encryption.passphrase", "STREAK_PASSPHRASE"); err != nil {
		return cfg, fmt.Errorf("config env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config read %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	workdays := make([]string, 0, len(c.Reminder.Workdays))
	for _, d := range c.Reminder.Workdays {
		if abbr := DayAbbrev(d); abbr != "" {
			workdays = append(workdays, abbr)
		}
	}
	c.Reminder.Workdays = workdays

	for i, h := range c.Reminder.Holidays {
		c.Reminder.Holidays[i] = strings.TrimSpace(h)
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.SummaryDays <= 0 {
		c.SummaryDays = 7
	}
	if c.HeatmapMonths <= 0 {
		c.HeatmapMonths = 3
	}
}

// Validate reports settings that would only fail later, at use.
func (c Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("config: unknown env %q (want local, dev or prod)", c.Env)
	}
	for _, tz := range []string{c.Timezone, c.Reminder.Timezone} {
		if tz = strings.TrimSpace(tz); tz == "" {
			continue
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("config: timezone %q: %w", tz, err)
		}
	}
	if _, err := time.Parse("15:04", c.Reminder.Time); c.Reminder.Enabled && err != nil {
		return fmt.Errorf("config: reminder.time %q: want HH:MM", c.Reminder.Time)
	}
	if c.Encryption.Enabled && c.Encryption.Passphrase == "" {
		return errors.New("config: encryption enabled but STREAK_PASSPHRASE is empty")
	}
	return nil
}

// Location is the zone days are bucketed in.
func (c Config) Location() *time.Location {
	return loadLocation(c.Timezone, time.Local)
}

// ReminderLocation prefers reminder.timezone over timezone.
func (c Config) ReminderLocation() *time.Location {
	return loadLocation(c.Reminder.Timezone, c.Location())
}

func loadLocation(tz string, fallback *time.Location) *time.Location {
	if tz = strings.TrimSpace(tz); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return fallback
}

// DayAbbrev turns "monday", "MON" or "Mon" into "Mon". Unknown input yields "".
func DayAbbrev(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if len(d) < 3 {
		return ""
	}
	abbr := strings.ToUpper(d[:1]) + d[1:3]
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String()[:3] == abbr {
			return abbr
		}
	}
	return ""
}
