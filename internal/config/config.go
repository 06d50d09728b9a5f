package config

import "time"

// Config holds client and server configuration values.
type Config struct {
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
	Client   ClientConfig `mapstructure:"client" yaml:"client"`
	Server   ServerConfig `mapstructure:"server" yaml:"server"`
}

// ClientConfig configures the sweeper CLI.
type ClientConfig struct {
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
	Email     string `mapstructure:"email" yaml:"email"`
	Password  string `mapstructure:"password" yaml:"password"`
}

// ServerConfig configures the sweepd game service.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience       string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	TokenTTL          time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	ActionsPerMinute  int           `mapstructure:"actions_per_minute" yaml:"actions_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Client: ClientConfig{
			ServerURL: "http://localhost:5000",
		},
		Server: ServerConfig{
			Addr:              ":5000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
			DatabasePath:      "sweeper.db",
			JWTSecret:         "change-me",
			JWTIssuer:         "sweepd",
			JWTAudience:       "sweeper",
			TokenTTL:          24 * time.Hour,
			ActionsPerMinute:  600,
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Client.ServerURL != "" {
		c.Client.ServerURL = other.Client.ServerURL
	}
	if other.Client.Email != "" {
		c.Client.Email = other.Client.Email
	}
	if other.Client.Password != "" {
		c.Client.Password = other.Client.Password
	}
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadHeaderTimeout != 0 {
		c.Server.ReadHeaderTimeout = other.Server.ReadHeaderTimeout
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if other.Server.DatabasePath != "" {
		c.Server.DatabasePath = other.Server.DatabasePath
	}
	if other.Server.JWTSecret != "" {
		c.Server.JWTSecret = other.Server.JWTSecret
	}
	if other.Server.JWTIssuer != "" {
		c.Server.JWTIssuer = other.Server.JWTIssuer
	}
	if other.Server.JWTAudience != "" {
		c.Server.JWTAudience = other.Server.JWTAudience
	}
	if other.Server.TokenTTL != 0 {
		c.Server.TokenTTL = other.Server.TokenTTL
	}
	if other.Server.ActionsPerMinute != 0 {
		c.Server.ActionsPerMinute = other.Server.ActionsPerMinute
	}
}
