package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultRegion is used when no region is configured anywhere.
	DefaultRegion = "us-east-1"
	// DefaultWriterPrefix names the asynchronous writer pool workers.
	DefaultWriterPrefix = "s3-writer-"
	// DefaultServeBind is the listen address of the HTTP gateway.
	DefaultServeBind = "127.0.0.1:8680"
)

// Config describes the application level configuration. Values come from the
// built-in defaults, then an optional json file, then S3DROP_* environment
// variables, each layer overriding the previous one.
type Config struct {
	S3     S3Config     `json:"s3"`
	Writer WriterConfig `json:"writer"`
	Serve  ServeConfig  `json:"serve"`
}

// S3Config holds the options for accessing the object store. The bucket is
// fixed at build time and intentionally absent here.
type S3Config struct {
	Host            string `json:"host"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
	ForcePathStyle  bool   `json:"force_path_style"`
}

// WriterConfig sizes the asynchronous writer pool.
type WriterConfig struct {
	CoreSize         int    `json:"core_size"`
	MaxSize          int    `json:"max_size"`
	QueueCapacity    int    `json:"queue_capacity"`
	KeepAliveSeconds int    `json:"keep_alive_seconds"`
	NamePrefix       string `json:"name_prefix"`
}

// KeepAlive returns the idle timeout of non-core workers as a duration.
func (w WriterConfig) KeepAlive() time.Duration {
	return time.Duration(w.KeepAliveSeconds) * time.Second
}

// ServeConfig holds the HTTP gateway options.
type ServeConfig struct {
	Bind string `json:"bind"`
}

// Default returns the built-in configuration: a single permanent writer
// worker with direct handoff and no idle grace, talking to us-east-1 through
// whatever credentials the environment provides.
func Default() *Config {
	return &Config{
		S3: S3Config{
			Region: DefaultRegion,
		},
		Writer: WriterConfig{
			CoreSize:         1,
			MaxSize:          1,
			QueueCapacity:    0,
			KeepAliveSeconds: 0,
			NamePrefix:       DefaultWriterPrefix,
		},
		Serve: ServeConfig{
			Bind: DefaultServeBind,
		},
	}
}

// LoadFirst tries to load configuration from the given paths, returning the
// first successfully decoded configuration. When none of the paths exist the
// built-in defaults plus environment overrides are used, since every setting
// has a workable default.
func LoadFirst(paths ...string) (*Config, error) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from a single json file path on top of the
// defaults and applies environment overrides afterwards.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides individual settings from S3DROP_* environment variables.
// Unparsable numeric or boolean values are ignored rather than fatal.
func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("S3DROP_HOST", &c.S3.Host)
	setString("S3DROP_REGION", &c.S3.Region)
	setString("S3DROP_ACCESS_KEY_ID", &c.S3.AccessKeyID)
	setString("S3DROP_SECRET_ACCESS_KEY", &c.S3.SecretAccessKey)
	setString("S3DROP_SESSION_TOKEN", &c.S3.SessionToken)
	setBool("S3DROP_FORCE_PATH_STYLE", &c.S3.ForcePathStyle)

	setInt("S3DROP_WRITER_CORE_SIZE", &c.Writer.CoreSize)
	setInt("S3DROP_WRITER_MAX_SIZE", &c.Writer.MaxSize)
	setInt("S3DROP_WRITER_QUEUE_CAPACITY", &c.Writer.QueueCapacity)
	setInt("S3DROP_WRITER_KEEP_ALIVE_SECONDS", &c.Writer.KeepAliveSeconds)
	setString("S3DROP_WRITER_NAME_PREFIX", &c.Writer.NamePrefix)

	setString("S3DROP_SERVE_BIND", &c.Serve.Bind)
}

// Validate performs basic validation of the configuration.
func (c *Config) Validate() error {
	if c.S3.Region == "" {
		return errors.New("config.s3.region must be set")
	}
	if c.Writer.CoreSize < 0 {
		return errors.New("config.writer.core_size must not be negative")
	}
	if c.Writer.MaxSize < 1 {
		return errors.New("config.writer.max_size must be at least 1")
	}
	if c.Writer.MaxSize < c.Writer.CoreSize {
		return fmt.Errorf("config.writer.max_size %d smaller than core_size %d",
			c.Writer.MaxSize, c.Writer.CoreSize)
	}
	if c.Writer.QueueCapacity < 0 {
		return errors.New("config.writer.queue_capacity must not be negative")
	}
	if c.Writer.KeepAliveSeconds < 0 {
		return errors.New("config.writer.keep_alive_seconds must not be negative")
	}
	if c.Writer.NamePrefix == "" {
		return errors.New("config.writer.name_prefix must be set")
	}
	if c.Serve.Bind == "" {
		return errors.New("config.serve.bind must be set")
	}
	return nil
}
