package config

import (
	"time"

	"reelmerge/internal/validation"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
	OMDB     OMDBConfig     `koanf:"omdb"`
	Metadata MetadataConfig `koanf:"metadata"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
	// CORSOrigins lists browser origins allowed to call the API. When empty,
	// only local and private-network origins are accepted.
	CORSOrigins []string `koanf:"cors_origins" validate:"dive,required"`
}

// TMDBConfig configures the primary metadata provider.
type TMDBConfig struct {
	APIKey       string `koanf:"api_key" validate:"required"`
	BaseURL      string `koanf:"base_url" validate:"required,url"`
	ImageBaseURL string `koanf:"image_base_url" validate:"required,url"`
	PosterSize   string `koanf:"poster_size" validate:"required"`
	// Language is sent as the TMDB language parameter when set.
	Language string `koanf:"language"`
}

// OMDBConfig configures the ratings provider.
type OMDBConfig struct {
	APIKey  string `koanf:"api_key" validate:"required"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

type MetadataConfig struct {
	// UpstreamTimeout bounds each provider call. Zero leaves the transport default.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout" validate:"min=0"`
	// IsolateItemFailures returns list and recommendation items without
	// enrichment instead of failing the whole batch.
	IsolateItemFailures bool `koanf:"isolate_item_failures"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal disabled off"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	File   string `koanf:"file"`
	// MaxSizeMB and MaxBackups bound the rotated files when File is set.
	MaxSizeMB  int `koanf:"max_size_mb" validate:"min=0"`
	MaxBackups int `koanf:"max_backups" validate:"min=0"`
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	return validation.Struct(c)
}
