package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultPort         = 5000
	DefaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	DefaultTMDBImageURL = "https://image.tmdb.org/t/p"
	DefaultPosterSize   = "w500"
	DefaultOMDBBaseURL  = "https://www.omdbapi.com"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            DefaultPort,
			ShutdownTimeout: 10 * time.Second,
		},
		TMDB: TMDBConfig{
			BaseURL:      DefaultTMDBBaseURL,
			ImageBaseURL: DefaultTMDBImageURL,
			PosterSize:   DefaultPosterSize,
		},
		OMDB: OMDBConfig{
			BaseURL: DefaultOMDBBaseURL,
		},
		Metadata: MetadataConfig{
			UpstreamTimeout:     0,
			IsolateItemFailures: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// Load layers defaults, an optional YAML file and the environment, in that
// order of increasing priority. path may be empty.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(path); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.TMDB.BaseURL = strings.TrimRight(cfg.TMDB.BaseURL, "/")
	cfg.TMDB.ImageBaseURL = strings.TrimRight(cfg.TMDB.ImageBaseURL, "/")
	cfg.OMDB.BaseURL = strings.TrimRight(cfg.OMDB.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile(path string) string {
	if path != "" {
		return path
	}
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are read from the environment as comma-separated lists.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names to config paths. Variables not
// listed are ignored.
var envMappings = map[string]string{
	"host":                  "server.host",
	"cors_origins":          "server.cors_origins",
	"port":                  "server.port",
	"shutdown_timeout":      "server.shutdown_timeout",
	"tmdb_api_key":          "tmdb.api_key",
	"tmdb_base_url":         "tmdb.base_url",
	"tmdb_image_base_url":   "tmdb.image_base_url",
	"tmdb_poster_size":      "tmdb.poster_size",
	"tmdb_language":         "tmdb.language",
	"omdb_api_key":          "omdb.api_key",
	"omdb_base_url":         "omdb.base_url",
	"upstream_timeout":      "metadata.upstream_timeout",
	"isolate_item_failures": "metadata.isolate_item_failures",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_file":              "logging.file",
	"log_max_size_mb":       "logging.max_size_mb",
	"log_max_backups":       "logging.max_backups",
}

// envTransformFunc maps a variable onto its config path. Empty values are
// treated as unset so PORT= keeps the default.
func envTransformFunc(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envMappings[strings.ToLower(key)], value
}
