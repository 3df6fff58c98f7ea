/*
Package config loads server configuration.

PRECEDENCE (lowest to highest):
  1. Defaults
  2. YAML file (optional, -config flag)
  3. .env file, then process environment (LABOR_* variables)
  4. Command-line flags, applied by cmd/server

ENVIRONMENT:
  LABOR_PORT                HTTP port
  LABOR_DB_PATH             SQLite path (":memory:" for in-memory)
  LABOR_LOG_LEVEL           logrus level name (debug, info, warn, ...)
  LABOR_ALLOWED_ORIGINS     comma-separated CORS origins
  LABOR_WORK_DAYS_PER_WEEK  work days used by weekly attendance reports

EXAMPLE config.yaml:
  port: 8080
  db_path: ./data/labor.db
  log_level: info
  allowed_origins:
    - http://localhost:5173
  work_days_per_week: 6
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/warp/labor-engine/attendance"
)

type Config struct {
	Port            int      `yaml:"port"`
	DBPath          string   `yaml:"db_path"`
	LogLevel        string   `yaml:"log_level"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	WorkDaysPerWeek int      `yaml:"work_days_per_week"`
}

func Default() Config {
	return Config{
		Port:            8080,
		DBPath:          "labor.db",
		LogLevel:        "info",
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		WorkDaysPerWeek: attendance.DefaultWorkDaysPerWeek,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), env files and the environment. With no envFiles given,
// ./.env is read if it exists.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
		files = []string{".env"}
	}
	// godotenv never overrides variables already set in the process.
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.Port, err = getEnvAsInt("LABOR_PORT", c.Port); err != nil {
		return err
	}
	c.DBPath = getEnv("LABOR_DB_PATH", c.DBPath)
	c.LogLevel = getEnv("LABOR_LOG_LEVEL", c.LogLevel)
	if c.WorkDaysPerWeek, err = getEnvAsInt("LABOR_WORK_DAYS_PER_WEEK", c.WorkDaysPerWeek); err != nil {
		return err
	}
	if origins := getEnv("LABOR_ALLOWED_ORIGINS", ""); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is required")
	}
	if c.WorkDaysPerWeek < 1 || c.WorkDaysPerWeek > 7 {
		return fmt.Errorf("config: work_days_per_week %d must be 1-7", c.WorkDaysPerWeek)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("config: %w", err)
	}
	return level, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvAsInt returns defaultVal when name is unset or empty.
func getEnvAsInt(name string, defaultVal int) (int, error) {
	valStr := strings.TrimSpace(getEnv(name, ""))
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal, fmt.Errorf("config: %s=%q is not an integer", name, valStr)
	}
	return val, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
