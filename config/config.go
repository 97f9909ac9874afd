package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server settings
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
	Version         string

	Log       LogConfig
	CORS      CORSConfig
	HTTP      HTTPConfig
	YouTube   YouTubeConfig
	Translate TranslateConfig
	Summary   SummaryConfig
}

type LogConfig struct {
	Level  string
	Format string
	Dir    string
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// HTTPConfig controls the outbound client shared by every upstream call.
type HTTPConfig struct {
	Timeout    time.Duration
	UserAgent  string
	BrowserTLS bool
	// UpstreamRPS <= 0 disables pacing.
	UpstreamRPS   float64
	UpstreamBurst int
}

type YouTubeConfig struct {
	WatchURL     string
	InnertubeURL string
}

type TranslateConfig struct {
	URL        string
	APIKey     string
	SourceLang string
}

type SummaryConfig struct {
	SentenceCount int
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:      GetEnv("SERVER_PORT", "8000"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:     getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 75*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Debug:           getEnvAsBool("DEBUG", false),
		Version:         GetEnv("APP_VERSION", "dev"),

		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Format: GetEnv("LOG_FORMAT", "text"),
			Dir:    GetEnv("LOG_DIR", ""),
		},
		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "X-Request-ID"}),
			ExposedHeaders: getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"}),
			MaxAge:         getEnvAsInt("CORS_MAX_AGE", 3600),
		},
		HTTP: HTTPConfig{
			Timeout:       getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),
			UserAgent:     GetEnv("HTTP_USER_AGENT", DefaultUserAgent),
			BrowserTLS:    getEnvAsBool("HTTP_BROWSER_TLS", false),
			UpstreamRPS:   getEnvAsFloat("UPSTREAM_RPS", 5),
			UpstreamBurst: getEnvAsInt("UPSTREAM_BURST", 10),
		},
		YouTube: YouTubeConfig{
			WatchURL:     GetEnv("YOUTUBE_WATCH_URL", "https://www.youtube.com/watch"),
			InnertubeURL: GetEnv("YOUTUBE_INNERTUBE_URL", "https://www.youtube.com/youtubei/v1/player"),
		},
		Translate: TranslateConfig{
			URL:        GetEnv("LIBRETRANSLATE_URL", "https://libretranslate.com/translate"),
			APIKey:     GetEnv("LIBRETRANSLATE_API_KEY", ""),
			SourceLang: GetEnv("TRANSLATE_SOURCE_LANG", "en"),
		},
		Summary: SummaryConfig{
			SentenceCount: getEnvAsInt("SUMMARY_SENTENCES", 10),
		},
	}
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		warnInvalid(key, value, defaultValue, "Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		warnInvalid(key, value, defaultValue, "Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		warnInvalid(key, value, defaultValue, "Invalid number, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		warnInvalid(key, value, defaultValue, "Invalid boolean, using default")
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func warnInvalid(key, value string, defaultValue interface{}, msg string) {
	logrus.WithFields(logrus.Fields{
		"key":          key,
		"value":        value,
		"defaultValue": defaultValue,
	}).Warn(msg)
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if cfg.RequestTimeout <= 0 {
		return errors.New("request timeout must be greater than 0")
	}
	if cfg.HTTP.Timeout <= 0 {
		return errors.New("http timeout must be greater than 0")
	}
	if cfg.HTTP.UpstreamRPS > 0 && cfg.HTTP.UpstreamBurst < 1 {
		return errors.New("upstream burst must be at least 1 when pacing is enabled")
	}
	if cfg.YouTube.WatchURL == "" || cfg.YouTube.InnertubeURL == "" {
		return errors.New("youtube endpoints are required")
	}
	if cfg.Translate.URL == "" {
		return errors.New("translation endpoint is required")
	}
	if cfg.Translate.SourceLang == "" {
		return errors.New("translation source language is required")
	}
	if cfg.Summary.SentenceCount < 1 {
		return errors.Errorf("summary sentence count must be at least 1, got %d", cfg.Summary.SentenceCount)
	}
	return nil
}
