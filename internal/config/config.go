package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port                int      `envconfig:"PORT" default:"8080"`
	LogLevel            string   `envconfig:"LOG_LEVEL" default:"info"`
	DataPath            string   `envconfig:"DATA_PATH" required:"true"`
	DatabaseURL         string   `envconfig:"DATABASE_URL" default:""`
	Version             string   `envconfig:"VERSION" default:"dev"`
	ReloadInterval      int      `envconfig:"RELOAD_INTERVAL" default:"30"`
	DashboardConfigPath string   `envconfig:"DASHBOARD_CONFIG_PATH" default:""`
	AdminKeyHash        string   `envconfig:"ADMIN_KEY_HASH" default:""`
	CORSOrigins         []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
