package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	DataSource       string        `mapstructure:"DATA_SOURCE"`
	ProtocolFile     string        `mapstructure:"PROTOCOL_FILE"`
	EvidenceURL      string        `mapstructure:"EVIDENCE_URL"`
	EvidenceTimeout  time.Duration `mapstructure:"EVIDENCE_TIMEOUT"`
	MCPServerName    string        `mapstructure:"MCP_SERVER_NAME"`
	MCPServerVersion string        `mapstructure:"MCP_SERVER_VERSION"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DATA_SOURCE", "auto")
	v.SetDefault("EVIDENCE_TIMEOUT", "10s")
	v.SetDefault("MCP_SERVER_NAME", "clinsight-dashboard")
	v.SetDefault("MCP_SERVER_VERSION", "1.0.0")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("DATA_SOURCE")
	v.BindEnv("PROTOCOL_FILE")
	v.BindEnv("EVIDENCE_URL")
	v.BindEnv("EVIDENCE_TIMEOUT")
	v.BindEnv("MCP_SERVER_NAME")
	v.BindEnv("MCP_SERVER_VERSION")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	switch cfg.DataSource {
	case "real", "synthetic", "auto":
	default:
		return nil, fmt.Errorf("DATA_SOURCE must be real, synthetic, or auto; got %q", cfg.DataSource)
	}

	// Synthetic mode runs without a database; everything else needs one.
	if cfg.DatabaseURL == "" && cfg.DataSource != "synthetic" {
		return nil, fmt.Errorf("DATABASE_URL is required unless DATA_SOURCE=synthetic")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
