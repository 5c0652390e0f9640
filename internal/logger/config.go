package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// LogConfig configures the named loggers.
type LogConfig struct {
	// trace, debug, info, warn, error, fatal
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// json or text
	Format string `env:"LOG_FORMAT" envDefault:"text"`
	// file, stdout or both
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`

	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"` // days
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`

	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile   string `env:"LOG_APP_FILE" envDefault:"app.log"`
	AuditFile string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	ErrorFile string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Comma separated collection names; empty or "*" keeps everything.
	FilterCollections string `env:"LOG_FILTER_COLLECTIONS" envDefault:"*"`
	// Comma separated levels; empty or "*" keeps everything.
	FilterLogTypes string `env:"LOG_FILTER_TYPES" envDefault:"*"`
}

// DefaultConfig reads LOG_* variables over the defaults. Outside development
// the format defaults to json.
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{}
	if err := env.Parse(cfg); err != nil {
		cfg = &LogConfig{
			Level:             "info",
			Format:            "text",
			Output:            "stdout",
			MaxSize:           100,
			MaxBackups:        7,
			MaxAge:            7,
			Compress:          true,
			LogPath:           "./logs",
			AppFile:           "app.log",
			AuditFile:         "audit.log",
			ErrorFile:         "error.log",
			FilterCollections: "*",
			FilterLogTypes:    "*",
		}
	}

	if _, set := os.LookupEnv("LOG_FORMAT"); !set {
		if goEnv := os.Getenv("GO_ENV"); goEnv != "" && goEnv != "development" {
			cfg.Format = "json"
		}
	}

	cfg.Level = strings.ToLower(cfg.Level)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Output = strings.ToLower(cfg.Output)
	return cfg
}
