// Package config loads hornbill settings from an optional YAML file and
// HORNBILL_* environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the resolved application configuration.
type Config struct {
	Server  ServerConfig `mapstructure:"server"`
	Store   StoreConfig  `mapstructure:"store"`
	Log     LogConfig    `mapstructure:"log"`
	Catalog string       `mapstructure:"catalog"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`

	// EncryptionKey is a hex-encoded 32 byte key. Empty disables encryption.
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys are older keys still accepted for decryption.
	FallbackKeys []string `mapstructure:"fallback_keys"`
	// PIIPatterns mask matching contact fields once a plan is submitted.
	PIIPatterns []string `mapstructure:"pii_patterns"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	Lock     bool          `mapstructure:"lock"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envKeys maps environment variables onto dotted config paths.
var envKeys = map[string]string{
	"HORNBILL_SERVER_PORT":          "server.port",
	"HORNBILL_STORE_DRIVER":         "store.driver",
	"HORNBILL_STORE_PATH":           "store.path",
	"HORNBILL_STORE_ENCRYPTION_KEY": "store.encryption_key",
	"HORNBILL_STORE_FALLBACK_KEYS":  "store.fallback_keys",
	"HORNBILL_STORE_PII_PATTERNS":   "store.pii_patterns",
	"HORNBILL_REDIS_ADDR":           "store.redis.addr",
	"HORNBILL_REDIS_PASSWORD":       "store.redis.password",
	"HORNBILL_REDIS_DB":             "store.redis.db",
	"HORNBILL_REDIS_PREFIX":         "store.redis.prefix",
	"HORNBILL_REDIS_TTL":            "store.redis.ttl",
	"HORNBILL_REDIS_LOCK":           "store.redis.lock",
	"HORNBILL_LOG_LEVEL":            "log.level",
	"HORNBILL_LOG_FORMAT":           "log.format",
	"HORNBILL_CATALOG":              "catalog",
}

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"store.fallback_keys": true,
	"store.pii_patterns":  true,
}

func defaults() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"port": 8080,
		},
		"store": map[string]any{
			"driver": DriverFile,
			"path":   ".hornbill/sessions",
			"redis": map[string]any{
				"addr":   "localhost:6379",
				"prefix": "hornbill:session:",
			},
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// Load reads path (optional) and the environment. A missing path is not an error
// when it is empty; a named file that cannot be read is.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	raw := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		merge(raw, file)
	}

	for env, key := range envKeys {
		v, ok := lookup(env)
		if !ok {
			continue
		}
		var value any = v
		if listKeys[key] {
			value = splitList(v)
		}
		set(raw, strings.Split(key, "."), value)
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be expressed by the types alone.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.Store.EncryptionKey != "" {
		if _, err := decodeKey(c.Store.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("encryption_key: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Keys decodes the active and fallback encryption keys.
// It returns nil keys when encryption is disabled.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	if active, err = decodeKey(s.EncryptionKey); err != nil {
		return nil, nil, err
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.New("key must be hex encoded")
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		cur, isMap := dst[k].(map[string]any)
		if ok && isMap {
			merge(cur, sub)
			continue
		}
		dst[k] = v
	}
}

func set(m map[string]any, path []string, value any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
