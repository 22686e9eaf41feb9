package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// GetReportPath returns the full path for a report file
func (p PathsConfig) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetDataPath returns the full path for an input data file
func (p PathsConfig) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// AnalyticsConfig contains the tunable parameters of the two pipelines.
// The defaults are domain-tuned starting points, not load-bearing constants.
type AnalyticsConfig struct {
	// Anomaly detection thresholds
	ZThreshold   float64 `yaml:"z_threshold" envconfig:"Z_THRESHOLD" default:"3.5"`
	PctThreshold float64 `yaml:"pct_threshold" envconfig:"PCT_THRESHOLD" default:"1.0"`
	NoiseFloor   float64 `yaml:"noise_floor" envconfig:"NOISE_FLOOR" default:"1.0"`

	// Canonical ordered period vocabulary for the category-month matrix
	PeriodVocabulary []string `yaml:"period_vocabulary" envconfig:"PERIOD_VOCABULARY" default:"ene,feb,mar,abr,may,jun,jul,ago,sep,oct,nov,dic"`

	// Baseline year for the pricing coefficient. The original rule set was
	// written against 2024; running with a stale value misprices vehicles,
	// so deployments must keep this current.
	ReferenceYear int `yaml:"reference_year" envconfig:"REFERENCE_YEAR" default:"2024"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FLEET", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Analytics.ZThreshold == 0 {
		envConfig.Analytics.ZThreshold = fileConfig.Analytics.ZThreshold
	}
	if envConfig.Analytics.PctThreshold == 0 {
		envConfig.Analytics.PctThreshold = fileConfig.Analytics.PctThreshold
	}
	if envConfig.Analytics.NoiseFloor == 0 {
		envConfig.Analytics.NoiseFloor = fileConfig.Analytics.NoiseFloor
	}
	if len(envConfig.Analytics.PeriodVocabulary) == 0 {
		envConfig.Analytics.PeriodVocabulary = fileConfig.Analytics.PeriodVocabulary
	}
	if envConfig.Analytics.ReferenceYear == 0 {
		envConfig.Analytics.ReferenceYear = fileConfig.Analytics.ReferenceYear
	}
	return envConfig
}

// getConfigFilePath returns the config file location, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("FLEET_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// validate checks configuration for invalid values
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analytics.ZThreshold <= 0 {
		return fmt.Errorf("z threshold must be positive, got %f", c.Analytics.ZThreshold)
	}
	if c.Analytics.PctThreshold <= 0 {
		return fmt.Errorf("pct threshold must be positive, got %f", c.Analytics.PctThreshold)
	}
	if c.Analytics.NoiseFloor < 0 {
		return fmt.Errorf("noise floor must be non-negative, got %f", c.Analytics.NoiseFloor)
	}
	if len(c.Analytics.PeriodVocabulary) == 0 {
		return fmt.Errorf("period vocabulary must not be empty")
	}
	if c.Analytics.ReferenceYear < 2000 || c.Analytics.ReferenceYear > 2100 {
		return fmt.Errorf("reference year out of range: %d", c.Analytics.ReferenceYear)
	}
	return nil
}
