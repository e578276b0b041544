package config

import "time"

// Config holds all application configuration.
// It is built once at startup and handed to each component constructor.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat              string `mapstructure:"log_format" validate:"required,oneof=json text"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	// AuthRateLimitPerMinute caps register and login attempts per client IP.
	AuthRateLimitPerMinute int      `mapstructure:"auth_rate_limit_per_minute" validate:"gt=0"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins" validate:"required,min=1"`
}

// ShutdownTimeout is the grace period given to in-flight requests.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// AuthConfig contains the token secrets, lifetimes and password hashing cost.
// The confirmation secret must differ from the session secret so that one
// kind of token can never be replayed as the other.
type AuthConfig struct {
	JWTSecret                   string       `mapstructure:"jwt_secret" validate:"required,min=32"`
	ConfirmationSecret          string       `mapstructure:"confirmation_secret" validate:"required,min=32,nefield=JWTSecret"`
	TokenLifetimeMinutes        int          `mapstructure:"token_lifetime_minutes" validate:"gt=0,lte=1440"`
	ConfirmationLifetimeMinutes int          `mapstructure:"confirmation_lifetime_minutes" validate:"gt=0,lte=10080"`
	Argon2                      Argon2Config `mapstructure:"argon2" validate:"required"`
	// SecureCookies marks the access_token cookie Secure. Disable only for
	// plain-HTTP local development.
	SecureCookies bool `mapstructure:"secure_cookies"`
}

// TokenLifetime is the validity window of a session token.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// ConfirmationLifetime is the validity window of a confirmation token.
func (c AuthConfig) ConfirmationLifetime() time.Duration {
	return time.Duration(c.ConfirmationLifetimeMinutes) * time.Minute
}

// Argon2Config holds the argon2id cost parameters.
type Argon2Config struct {
	Time      uint32 `mapstructure:"time" validate:"gte=1"`
	MemoryKiB uint32 `mapstructure:"memory_kib" validate:"gte=8192"`
	Threads   uint8  `mapstructure:"threads" validate:"gte=1"`
}

// MailConfig describes the SMTP relay used for confirmation emails.
// An empty Host selects the log-only sender.
type MailConfig struct {
	Host        string `mapstructure:"host" validate:"omitempty,hostname|ip"`
	Port        int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	From        string `mapstructure:"from" validate:"required,email"`
	FrontendURL string `mapstructure:"frontend_url" validate:"required,url"`
}

// TaskConfig sizes the background task runner.
type TaskConfig struct {
	QueueSize           int `mapstructure:"queue_size" validate:"gt=0"`
	WorkerCount         int `mapstructure:"worker_count" validate:"gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"gt=0"`
}

// StuckTaskAge is how long a task may stay in processing before recovery
// resets it.
func (c TaskConfig) StuckTaskAge() time.Duration {
	return time.Duration(c.StuckTaskAgeMinutes) * time.Minute
}
