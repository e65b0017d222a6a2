package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	App struct {
		Env      string
		SeedDemo bool
	}
	Server struct {
		Addr string
	}
	Auth struct {
		JWTSecret      string
		TokenTTL       string
		PasswordScheme string
	}
	CORS struct {
		Origin string
	}
	Database struct {
		Driver string
		Path   string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables and optional config files.
// Values already present in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load() // optional file

	v := viper.New()
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.seeddemo", true)
	v.SetDefault("server.addr", "0.0.0.0:3001")
	v.SetDefault("auth.jwtsecret", "change-me-in-production")
	v.SetDefault("auth.tokenttl", "1d")
	v.SetDefault("auth.passwordscheme", "sha256")
	v.SetDefault("cors.origin", "*")
	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.path", ":memory:")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// TokenLifetime parses Auth.TokenTTL.
func (c Config) TokenLifetime() (time.Duration, error) {
	return ParseLifetime(c.Auth.TokenTTL)
}

// ParseLifetime accepts Go durations plus a leading day count, e.g. "1d",
// "1d12h", "90m". A bare number is read as seconds.
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty lifetime")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	var days time.Duration
	if i := strings.IndexByte(s, 'd'); i > 0 {
		n, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q", s)
		}
		days = time.Duration(n) * 24 * time.Hour
		s = s[i+1:]
		if s == "" {
			return days, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid lifetime: %w", err)
	}
	return days + d, nil
}
