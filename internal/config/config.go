package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "LEARNLEAP_"

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config" yaml:"basic_config" envPrefix:"BASIC_"`
	Upload      UploadConfig              `json:"upload" yaml:"upload" envPrefix:"UPLOAD_"`
	Catalog     CatalogConfig             `json:"catalog" yaml:"catalog" envPrefix:"CATALOG_"`
	Databases   map[string]DatabaseConfig `json:"databases" yaml:"databases"`
	Redis       RedisConfig               `json:"redis" yaml:"redis" envPrefix:"REDIS_"`
	Log         LogConfig                 `json:"log" yaml:"log" envPrefix:"LOG_"`
}

type BasicConfig struct {
	ServerAddress        string `json:"server_address" yaml:"server_address" env:"SERVER_ADDRESS"`
	ResponseDelayMS      int    `json:"response_delay_ms" yaml:"response_delay_ms" env:"RESPONSE_DELAY_MS"`
	UploadDelayMS        int    `json:"upload_delay_ms" yaml:"upload_delay_ms" env:"UPLOAD_DELAY_MS"`
	AssessmentDelayMS    int    `json:"assessment_delay_ms" yaml:"assessment_delay_ms" env:"ASSESSMENT_DELAY_MS"`
	SessionIdleTTLMinute int    `json:"session_idle_ttl_minutes" yaml:"session_idle_ttl_minutes" env:"SESSION_IDLE_TTL_MINUTES"`
	ReapIntervalMinute   int    `json:"reap_interval_minutes" yaml:"reap_interval_minutes" env:"REAP_INTERVAL_MINUTES"`
	QueueSize            int    `json:"queue_size" yaml:"queue_size" env:"QUEUE_SIZE"`
	SendRateLimit        int    `json:"send_rate_limit" yaml:"send_rate_limit" env:"SEND_RATE_LIMIT"`
}

// UploadConfig is the upload constraint surface shown to the widget.
type UploadConfig struct {
	MaxSizeMB          int      `json:"max_size_mb" yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	AcceptedExtensions []string `json:"accepted_extensions" yaml:"accepted_extensions" env:"ACCEPTED_EXTENSIONS" envSeparator:","`
}

// CatalogConfig selects where scholarship and skill data comes from. An
// empty driver uses the built-in static catalog.
type CatalogConfig struct {
	Driver string `json:"driver" yaml:"driver" env:"DRIVER"`
	Seed   bool   `json:"seed" yaml:"seed" env:"SEED"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn" yaml:"dsn"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	DBName   string `json:"db_name" yaml:"db_name"`
	Params   string `json:"params" yaml:"params"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	Host     string `json:"host" yaml:"host" env:"HOST"`
	Port     int    `json:"port" yaml:"port" env:"PORT"`
	Username string `json:"username" yaml:"username" env:"USERNAME"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	DB       int    `json:"db" yaml:"db" env:"DB"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LEVEL"`
	Pretty bool   `json:"pretty" yaml:"pretty" env:"PRETTY"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BasicConfig: BasicConfig{
			ServerAddress:        ":8090",
			ResponseDelayMS:      1000,
			UploadDelayMS:        2000,
			AssessmentDelayMS:    1500,
			SessionIdleTTLMinute: 30,
			ReapIntervalMinute:   5,
			QueueSize:            16,
			SendRateLimit:        20,
		},
		Upload: UploadConfig{
			MaxSizeMB:          5,
			AcceptedExtensions: []string{".pdf", ".doc", ".docx", ".txt"},
		},
		Databases: map[string]DatabaseConfig{
			"sqlite3": {DSN: "file:learnleap.db?cache=shared"},
		},
		Redis: RedisConfig{Host: "127.0.0.1", Port: 6379},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads configuration from the provided path (defaults to config.json),
// then applies .env and LEARNLEAP_* environment overrides. A missing default
// file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	cfg := Default()
	if err := decodeFile(absPath, cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.Upload.AcceptedExtensions = normalizeExtensions(cfg.Upload.AcceptedExtensions)
	if dbCfg, ok := cfg.Databases["sqlite3"]; ok && dbCfg.DSN != "" && !strings.HasPrefix(dbCfg.DSN, "file:") &&
		!strings.HasPrefix(dbCfg.DSN, ":memory:") && !filepath.IsAbs(dbCfg.DSN) {
		dbCfg.DSN = filepath.Join(filepath.Dir(absPath), dbCfg.DSN)
		cfg.Databases["sqlite3"] = dbCfg
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(absPath string, cfg *Config) error {
	file, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("decode config: %w", err)
		}
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Upload.MaxSizeMB <= 0 {
		return errors.New("upload.max_size_mb must be positive")
	}
	if len(c.Upload.AcceptedExtensions) == 0 {
		return errors.New("upload.accepted_extensions must not be empty")
	}
	b := c.BasicConfig
	if b.ResponseDelayMS < 0 || b.UploadDelayMS < 0 || b.AssessmentDelayMS < 0 {
		return errors.New("delays must not be negative")
	}
	if b.QueueSize <= 0 {
		return errors.New("basic_config.queue_size must be positive")
	}
	switch strings.ToLower(c.Catalog.Driver) {
	case "", "static", "sqlite", "sqlite3", "mysql":
	default:
		return fmt.Errorf("unsupported catalog driver: %s", c.Catalog.Driver)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}
	return nil
}

// MaxUploadBytes is the upload size limit in bytes.
func (u UploadConfig) MaxUploadBytes() uint64 {
	return uint64(u.MaxSizeMB) << 20
}

func (b BasicConfig) ResponseDelay() time.Duration {
	return time.Duration(b.ResponseDelayMS) * time.Millisecond
}

func (b BasicConfig) UploadDelay() time.Duration {
	return time.Duration(b.UploadDelayMS) * time.Millisecond
}

func (b BasicConfig) AssessmentDelay() time.Duration {
	return time.Duration(b.AssessmentDelayMS) * time.Millisecond
}

func (b BasicConfig) SessionIdleTTL() time.Duration {
	return time.Duration(b.SessionIdleTTLMinute) * time.Minute
}

func (b BasicConfig) ReapInterval() time.Duration {
	return time.Duration(b.ReapIntervalMinute) * time.Minute
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
