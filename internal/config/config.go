package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ironsheep/omr-service/internal/detection"
	"github.com/ironsheep/omr-service/internal/fetch"
	"github.com/ironsheep/omr-service/internal/omr"
)

type Config struct {
	Server ServerConfig
	Fetch  FetchConfig
	S3     S3Config
	Scan   ScanConfig

	LogLevel string
}

type ServerConfig struct {
	Host        string
	Port        string
	CORSOrigins []string
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type FetchConfig struct {
	Timeout   time.Duration
	MaxBytes  int64
	MaxPixels int

	// Rate is the number of image downloads allowed per second; zero
	// disables limiting.
	Rate  float64
	Burst int
}

type S3Config struct {
	Enabled         bool
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type ScanConfig struct {
	DefaultQuestions int

	// MaxQuestions is the largest question count a request may ask for.
	MaxQuestions int

	// Profile is the path of a calibration YAML file; empty means the
	// built-in calibration.
	Profile string
}

// Load reads the configuration from the environment. Each of envFiles that
// exists is loaded into the environment first, without overriding variables
// that are already set.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()

	v.SetDefault("PORT", "5000")
	v.SetDefault("OMR_HOST", "0.0.0.0")
	v.SetDefault("OMR_CORS_ORIGINS", "*")
	v.SetDefault("OMR_DEFAULT_QUESTIONS", omr.DefaultQuestions)
	v.SetDefault("OMR_MAX_QUESTIONS", omr.DefaultMaxQuestions)
	v.SetDefault("OMR_FETCH_TIMEOUT", 30*time.Second)
	v.SetDefault("OMR_MAX_IMAGE_BYTES", fetch.DefaultMaxBytes)
	v.SetDefault("OMR_MAX_IMAGE_PIXELS", fetch.DefaultMaxPixels)
	v.SetDefault("OMR_FETCH_RATE", 0)
	v.SetDefault("OMR_FETCH_BURST", 1)
	v.SetDefault("OMR_PROFILE", "")
	v.SetDefault("OMR_LOG_LEVEL", "info")
	v.SetDefault("OMR_S3_ENABLED", false)
	v.SetDefault("OMR_S3_ENDPOINT", "")
	v.SetDefault("OMR_S3_REGION", "us-east-1")
	v.SetDefault("OMR_S3_ACCESS_KEY_ID", "")
	v.SetDefault("OMR_S3_SECRET_ACCESS_KEY", "")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("OMR_HOST"),
			Port:        v.GetString("PORT"),
			CORSOrigins: splitList(v.GetString("OMR_CORS_ORIGINS")),
		},
		Fetch: FetchConfig{
			Timeout:   v.GetDuration("OMR_FETCH_TIMEOUT"),
			MaxBytes:  v.GetInt64("OMR_MAX_IMAGE_BYTES"),
			MaxPixels: v.GetInt("OMR_MAX_IMAGE_PIXELS"),
			Rate:      v.GetFloat64("OMR_FETCH_RATE"),
			Burst:     v.GetInt("OMR_FETCH_BURST"),
		},
		S3: S3Config{
			Enabled:         v.GetBool("OMR_S3_ENABLED"),
			Endpoint:        v.GetString("OMR_S3_ENDPOINT"),
			Region:          v.GetString("OMR_S3_REGION"),
			AccessKeyID:     v.GetString("OMR_S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("OMR_S3_SECRET_ACCESS_KEY"),
		},
		Scan: ScanConfig{
			DefaultQuestions: v.GetInt("OMR_DEFAULT_QUESTIONS"),
			MaxQuestions:     v.GetInt("OMR_MAX_QUESTIONS"),
			Profile:          v.GetString("OMR_PROFILE"),
		},
		LogLevel: v.GetString("OMR_LOG_LEVEL"),
	}

	if cfg.Scan.DefaultQuestions <= 0 {
		return nil, fmt.Errorf("OMR_DEFAULT_QUESTIONS must be positive, got %d", cfg.Scan.DefaultQuestions)
	}
	if cfg.Scan.MaxQuestions < cfg.Scan.DefaultQuestions {
		return nil, fmt.Errorf("OMR_MAX_QUESTIONS %d is below OMR_DEFAULT_QUESTIONS %d", cfg.Scan.MaxQuestions, cfg.Scan.DefaultQuestions)
	}
	if cfg.Fetch.Timeout <= 0 {
		return nil, fmt.Errorf("OMR_FETCH_TIMEOUT must be positive, got %s", cfg.Fetch.Timeout)
	}

	return cfg, nil
}

// Params returns the calibration named by Scan.Profile, or the defaults.
func (c *Config) Params() (detection.Params, error) {
	if c.Scan.Profile == "" {
		return detection.DefaultParams(), nil
	}
	return omr.LoadProfile(c.Scan.Profile)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
