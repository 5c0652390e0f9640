// Package config loads the process configuration from config/env/<GO_ENV>.env
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Configuration is the static configuration of the server.
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:":8080"`

	MongoDB_ConnectionURI  string `env:"MONGODB_CONNECTION_URI,required,notEmpty"`
	MongoDB_DBName_Content string `env:"MONGODB_DBNAME_CONTENT,required,notEmpty"`
	MongoDB_MaxPoolSize    uint64 `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MongoDB_MinPoolSize    uint64 `env:"MONGODB_MIN_POOL_SIZE" envDefault:"5"`
	// Skip index creation at startup, e.g. when indexes are managed elsewhere.
	MongoDB_SkipIndexes bool `env:"MONGODB_SKIP_INDEXES" envDefault:"false"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // seconds
	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// Released asset URLs are handed to the cleanup worker in batches.
	AssetCleanup_Enabled   bool `env:"ASSET_CLEANUP_ENABLED" envDefault:"true"`
	AssetCleanup_Interval  int  `env:"ASSET_CLEANUP_INTERVAL" envDefault:"60"` // seconds
	AssetCleanup_BatchSize int  `env:"ASSET_CLEANUP_BATCH_SIZE" envDefault:"50"`
	// Directory holding uploaded assets; empty means assets are remote and
	// released URLs are only logged.
	AssetCleanup_Dir string `env:"ASSET_CLEANUP_DIR"`

	// Language seeded on first start when none exists.
	DefaultLanguage_Code string `env:"DEFAULT_LANGUAGE_CODE" envDefault:"en"`
	DefaultLanguage_Name string `env:"DEFAULT_LANGUAGE_NAME" envDefault:"English"`

	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// getEnvPath walks up from the working directory to config/env and returns
// the file for GO_ENV (development by default).
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// The logger is not initialized yet.
		fmt.Printf("Cannot read working directory: %v\n", err)
		return ""
	}
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads the env file, if any, then parses the environment. Values
// already set in the environment win over the file. Returns nil when a
// required variable is missing.
func NewConfig() *Configuration {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Cannot load env file %s: %v\n", envPath, err)
		}
	}

	cfg, err := Parse()
	if err != nil {
		fmt.Printf("Invalid configuration: %+v\n", err)
		return nil
	}
	return cfg
}

// Parse reads the configuration from the environment only.
func Parse() (*Configuration, error) {
	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.EnableTLS && (cfg.TLSCertFile == "" || cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("ENABLE_TLS requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	return cfg, nil
}
