package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Dialect     string
	DatabaseURL string
	QueriesDir  string
	Format      string
	MaxRows     int
}

// LoadConfig loads configuration from config files, environment
// variables and .env files
func LoadConfig() (*Config, error) {
	// Find home directory
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	// Set config file paths
	viper.SetConfigName(".querystudio")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "querystudio"))

	// Set environment variable prefix
	viper.SetEnvPrefix("QUERYSTUDIO")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("dialect", "postgres")
	viper.SetDefault("queries_dir", "queries")
	viper.SetDefault("format", "yaml")
	viper.SetDefault("max_rows", 1000)

	// Try to read config file (ignore if not found)
	_ = viper.ReadInConfig()

	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			// Don't fail if .env can't be loaded
		}
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			// Don't fail if .env.local can't be loaded
		}
	}

	cfg := &Config{
		Dialect:     viper.GetString("dialect"),
		DatabaseURL: viper.GetString("database_url"),
		QueriesDir:  viper.GetString("queries_dir"),
		Format:      viper.GetString("format"),
		MaxRows:     viper.GetInt("max_rows"),
	}

	// DATABASE_URL is the conventional name most tooling exports
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config) error {
	viper.Set("dialect", cfg.Dialect)
	viper.Set("queries_dir", cfg.QueriesDir)
	viper.Set("format", cfg.Format)
	viper.Set("max_rows", cfg.MaxRows)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "querystudio")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(configPath, ".querystudio.yaml")
	return viper.WriteConfigAs(configFile)
}
