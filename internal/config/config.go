package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`
}

// CatalogConfig holds catalog site and fetch configuration
type CatalogConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Path        string        `mapstructure:"path"`
	Type        string        `mapstructure:"type"`
	PageSize    int           `mapstructure:"page_size"`
	PageDelay   time.Duration `mapstructure:"page_delay"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	Proxies     []string      `mapstructure:"proxies"`
}

// CatalogURL is the listing endpoint that pagination parameters are appended to.
func (c CatalogConfig) CatalogURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.Path, "/")
}

// OutputConfig holds where the serialized result set goes
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	JSONFile string `mapstructure:"json_file"`
	CSVFile  string `mapstructure:"csv_file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from config.yaml in the working directory with
// environment variable overrides. A missing file leaves the defaults in place.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory to search for config.yaml.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.MaxAttempts <= 0 {
		return fmt.Errorf("catalog.max_attempts must be positive, got %d", c.Catalog.MaxAttempts)
	}
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.base_url", "https://www.shl.com")
	v.SetDefault("catalog.path", "/products/product-catalog/")
	v.SetDefault("catalog.type", "1")
	v.SetDefault("catalog.page_size", 12)
	v.SetDefault("catalog.page_delay", 2*time.Second)
	v.SetDefault("catalog.user_agent", "Mozilla/5.0")
	v.SetDefault("catalog.timeout", 30*time.Second)
	v.SetDefault("catalog.max_attempts", 3)
	v.SetDefault("catalog.retry_delay", 5*time.Second)
	v.SetDefault("catalog.proxies", []string{})

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.json_file", "shl_individual_assignments.json")
	v.SetDefault("output.csv_file", "shl_individual_assignments.csv")

	v.SetDefault("log.level", "info")
}
