package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// SMTPConfig contains the settings for the outbound mail transport.
type SMTPConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	From     string `mapstructure:"from" validate:"required,email"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// WorkerConfig contains the settings for the background worker pool.
type WorkerConfig struct {
	// Count determines how many concurrent workers pull from the queue.
	Count int `mapstructure:"count" validate:"required,gt=0"`

	// QueueSize determines the buffer size of the work-item queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// TaskDuration is the simulated processing interval for generic
	// background tasks.
	TaskDuration time.Duration `mapstructure:"task_duration" validate:"gte=0"`
}
