package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultJWTSecret = "dev-secret-change-in-production"

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	Port        string      `yaml:"port"`
	Env         string      `yaml:"env"`
	LogLevel    string      `yaml:"log_level"`
	Storage     string      `yaml:"storage"`
	DatabaseDSN string      `yaml:"database_dsn"`
	Redis       RedisConfig `yaml:"redis"`
	HTTP        HTTPConfig  `yaml:"http"`
	Auth        AuthConfig  `yaml:"auth"`
	CORSOrigins []string    `yaml:"cors_allowed_origins"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type HTTPConfig struct {
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type AuthConfig struct {
	JWTSecret string  `yaml:"jwt_secret"`
	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

func Default() Config {
	return Config{
		Port:        "8080",
		Env:         "development",
		LogLevel:    "info",
		Storage:     StorageMySQL,
		DatabaseDSN: "root:password@tcp(127.0.0.1:3306)/pairlink?parseTime=true",
		HTTP: HTTPConfig{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret: defaultJWTSecret,
			RateRPS:   5,
			RateBurst: 10,
		},
		CORSOrigins: []string{"*"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and environment variables, in that order of precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Env == "production" && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production environment")
	}
	if c.Storage != StorageMySQL && c.Storage != StorageMemory {
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.Auth.RateRPS <= 0 || c.Auth.RateBurst <= 0 {
		return errors.New("auth rate limit must be positive")
	}
	return nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	overrideString("PORT", &cfg.Port)
	overrideString("ENV", &cfg.Env)
	overrideString("LOG_LEVEL", &cfg.LogLevel)
	overrideString("STORAGE", &cfg.Storage)
	overrideString("DATABASE_DSN", &cfg.DatabaseDSN)

	if err := overrideDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return err
	}

	overrideString("REDIS_ADDR", &cfg.Redis.Addr)
	overrideString("REDIS_PASSWORD", &cfg.Redis.Password)
	if err := overrideInt("REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}

	overrideString("JWT_SECRET", &cfg.Auth.JWTSecret)
	if err := overrideFloat("AUTH_RATE_RPS", &cfg.Auth.RateRPS); err != nil {
		return err
	}
	if err := overrideInt("AUTH_RATE_BURST", &cfg.Auth.RateBurst); err != nil {
		return err
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	return nil
}

func overrideString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}

func overrideFloat(key string, target *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s float: %w", key, err)
	}
	*target = f
	return nil
}
