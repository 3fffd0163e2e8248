// Package config resolves the runtime configuration from defaults, an
// optional yaml file, CHRONOS_* environment variables and a local .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "CHRONOS"
	configName = ".chronos"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type RuntimeConfig struct {
	StoreBackend         string
	DataDir              string
	TimelineStartHour    int
	TimelineEndHour      int
	AIModel              string
	AIAPIKey             string
	AITimeout            time.Duration
	AlertsEnabled        bool
	SchedulerBuffer      int
	LogFile              string
	DesktopNotifications bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StoreBackend:         "sqlite",
		DataDir:              "~/.chronos",
		TimelineStartHour:    6,
		TimelineEndHour:      23,
		AIModel:              "gemini-2.0-flash",
		AITimeout:            30 * time.Second,
		AlertsEnabled:        true,
		SchedulerBuffer:      64,
		DesktopNotifications: false,
	}
}

// Load builds a RuntimeConfig. An explicit path must exist; otherwise
// .chronos.yaml is looked up in the working directory and then $HOME, and a
// missing file is not an error.
func Load(path string) (RuntimeConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: load .env: %v", err)
	}

	v := newViper()
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return RuntimeConfig{}, fmt.Errorf("config: expand %q: %w", path, err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return RuntimeConfig{}, fmt.Errorf("config: read: %w", err)
		}
	}
	return fromViper(v)
}

func newViper() *viper.Viper {
	def := DefaultRuntimeConfig()
	v := viper.New()
	v.SetDefault("store.backend", def.StoreBackend)
	v.SetDefault("store.data_dir", def.DataDir)
	v.SetDefault("timeline.start_hour", def.TimelineStartHour)
	v.SetDefault("timeline.end_hour", def.TimelineEndHour)
	v.SetDefault("ai.model", def.AIModel)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.timeout_seconds", int(def.AITimeout/time.Second))
	v.SetDefault("alerts.enabled", def.AlertsEnabled)
	v.SetDefault("alerts.buffer", def.SchedulerBuffer)
	v.SetDefault("log.file", "")
	v.SetDefault("notifications.desktop", def.DesktopNotifications)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) (RuntimeConfig, error) {
	def := DefaultRuntimeConfig()
	cfg := RuntimeConfig{
		StoreBackend:         strings.ToLower(strings.TrimSpace(v.GetString("store.backend"))),
		TimelineStartHour:    v.GetInt("timeline.start_hour"),
		TimelineEndHour:      v.GetInt("timeline.end_hour"),
		AIModel:              strings.TrimSpace(v.GetString("ai.model")),
		AIAPIKey:             strings.TrimSpace(v.GetString("ai.api_key")),
		AITimeout:            time.Duration(v.GetInt("ai.timeout_seconds")) * time.Second,
		AlertsEnabled:        v.GetBool("alerts.enabled"),
		SchedulerBuffer:      v.GetInt("alerts.buffer"),
		DesktopNotifications: v.GetBool("notifications.desktop"),
	}

	dataDir, err := homedir.Expand(strings.TrimSpace(v.GetString("store.data_dir")))
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("%w: data dir: %v", ErrInvalidConfig, err)
	}
	cfg.DataDir = dataDir

	logFile := strings.TrimSpace(v.GetString("log.file"))
	if logFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "chronos.log")
	} else if cfg.LogFile, err = homedir.Expand(logFile); err != nil {
		return RuntimeConfig{}, fmt.Errorf("%w: log file: %v", ErrInvalidConfig, err)
	}

	if cfg.AIAPIKey == "" {
		cfg.AIAPIKey = APIKeyFromEnv()
	}
	if cfg.AIModel == "" {
		cfg.AIModel = def.AIModel
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = def.AITimeout
	}
	if cfg.SchedulerBuffer <= 0 {
		cfg.SchedulerBuffer = def.SchedulerBuffer
	}
	if !validWindow(cfg.TimelineStartHour, cfg.TimelineEndHour) {
		log.Printf("config: invalid timeline window %d-%d, using defaults", cfg.TimelineStartHour, cfg.TimelineEndHour)
		cfg.TimelineStartHour = def.TimelineStartHour
		cfg.TimelineEndHour = def.TimelineEndHour
	}
	switch cfg.StoreBackend {
	case "sqlite", "diskv":
	default:
		return RuntimeConfig{}, fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, cfg.StoreBackend)
	}
	return cfg, nil
}

// APIKeyFromEnv returns the Gemini credential, preferring GEMINI_API_KEY.
func APIKeyFromEnv() string {
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func validWindow(start, end int) bool {
	return start >= 0 && end <= 23 && start <= end
}
