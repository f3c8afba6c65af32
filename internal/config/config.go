package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName               string
	AppEnv                string
	AppPort               string
	DatabaseURL           string
	RedisURL              string
	NATSURL               string
	JWTSecret             string
	SummaryCacheTTL       time.Duration
	NotificationsChannel  string
	NotificationKeepAlive time.Duration
	SubmitRateLimit       int
	SubmitRateWindow      time.Duration
	ReminderSchedule      string
	ReminderStaleAfter    time.Duration
}

// RemindersEnabled reports whether review reminders should be scheduled.
func (c Config) RemindersEnabled() bool {
	return c.ReminderSchedule != "" && !strings.EqualFold(c.ReminderSchedule, "off")
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("IDEABANK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "IdeaBank API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("summary.cache_ttl", "1m")
	v.SetDefault("notifications.channel", "ideabank")
	v.SetDefault("notifications.keepalive", "30s")
	v.SetDefault("submit.rate_limit", 20)
	v.SetDefault("submit.rate_window", "1m")
	v.SetDefault("reminder.schedule", "0 8 * * *")
	v.SetDefault("reminder.stale_after", "24h")

	summaryTTL, err := parseDuration(v, "summary.cache_ttl", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	keepAlive, err := parseDuration(v, "notifications.keepalive", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid notification keepalive: %w", err)
	}

	rateWindow, err := parseDuration(v, "submit.rate_window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	staleAfter, err := parseDuration(v, "reminder.stale_after", 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid reminder stale after: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		NATSURL:               v.GetString("nats.url"),
		JWTSecret:             v.GetString("jwt.secret"),
		SummaryCacheTTL:       summaryTTL,
		NotificationsChannel:  strings.TrimSpace(v.GetString("notifications.channel")),
		NotificationKeepAlive: keepAlive,
		SubmitRateLimit:       v.GetInt("submit.rate_limit"),
		SubmitRateWindow:      rateWindow,
		ReminderSchedule:      strings.TrimSpace(v.GetString("reminder.schedule")),
		ReminderStaleAfter:    staleAfter,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SubmitRateLimit <= 0 {
		cfg.SubmitRateLimit = 20
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
