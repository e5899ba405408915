// File: internal/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the applet engine process.
type Config struct {
	Server         ServerConfig                   `mapstructure:"server"`
	Database       DatabaseConfig                 `mapstructure:"database"`
	Logging        LoggingConfig                  `mapstructure:"logging"`
	Engine         EngineConfig                   `mapstructure:"engine"`
	OAuthProviders map[string]OAuthProviderConfig `mapstructure:"oauth_providers"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxConns       int           `mapstructure:"max_conns"`
	MinConns       int           `mapstructure:"min_conns"`
	ConnMaxLife    time.Duration `mapstructure:"conn_max_life"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
	MigrationsPath string        `mapstructure:"migrations_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig tunes the automation loop.
type EngineConfig struct {
	// PollInterval is the scheduler tick period.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// TokenStaleAfter is the proactive refresh threshold. It must stay
	// shorter than the provider's access token lifetime so a downstream
	// call is never handed an expired credential.
	TokenStaleAfter time.Duration `mapstructure:"token_stale_after"`
	// RunHistoryLimit caps the run-log listing endpoint.
	RunHistoryLimit int `mapstructure:"run_history_limit"`
}

// OAuthProviderConfig holds the server-side OAuth client for one provider.
type OAuthProviderConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
}

// DSN renders the database config as a postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}
